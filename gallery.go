package posekit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// GalleryStorageKey is the single storage key the gallery persists
	// under.
	GalleryStorageKey = "posekit.gallery.v1"

	// GalleryCapacity caps the stored snapshot count, newest first.
	GalleryCapacity = 30
)

// GalleryItem is one persisted pose snapshot.
type GalleryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	Notes     string `json:"notes"`
	Pose      *Pose  `json:"pose"`
	Thumb     string `json:"thumb"`
}

// Prompter supplies the interactive prompts rename and clear-all need.
type Prompter interface {
	Prompt(message, initial string) (string, bool)
	Confirm(message string) bool
}

// GalleryView re-renders the host's gallery list. Optional.
type GalleryView interface {
	Render(items []GalleryItem, selectedID string)
}

// Gallery persists named pose snapshots (pose JSON, PNG thumbnail data URL,
// notes) through the Storage collaborator. Storage failures are reported as
// toasts and never propagate; the editor stays usable with a full disk.
type Gallery struct {
	Log    Logger
	Notify Notifier

	storage Storage
	prompt  Prompter
	view    GalleryView

	// Serialize captures the current pose; Capture produces the thumbnail
	// data URL; Notes reads the current notes field. Serialize and Capture
	// are required for saving and their absence is a soft local failure.
	Serialize func() (*Pose, error)
	Capture   func() (string, error)
	Notes     func() string

	items      []GalleryItem
	selectedID string
	saveSeq    int
}

func NewGallery(log Logger, notify Notifier, storage Storage, prompt Prompter, view GalleryView) *Gallery {
	g := &Gallery{
		Log:     orNopLogger(log),
		Notify:  orLogNotifier(notify, log),
		storage: storage,
		prompt:  prompt,
		view:    view,
	}
	g.LoadFromStorage()
	return g
}

func (g *Gallery) Items() []GalleryItem { return g.items }
func (g *Gallery) SelectedID() string   { return g.selectedID }

// SelectedItem returns the selected item, or nil.
func (g *Gallery) SelectedItem() *GalleryItem {
	for i := range g.items {
		if g.items[i].ID == g.selectedID {
			return &g.items[i]
		}
	}
	return nil
}

// Select marks an item active. An unknown id clears the selection.
func (g *Gallery) Select(id string) {
	g.selectedID = ""
	for i := range g.items {
		if g.items[i].ID == id {
			g.selectedID = id
			break
		}
	}
	g.Render()
}

// LoadFromStorage reads and defensively filters the persisted list. A
// missing key, a non-array blob or malformed items all degrade to fewer
// (or zero) items, never an error.
func (g *Gallery) LoadFromStorage() {
	g.items = g.items[:0]

	blob, ok := g.storage.Get(GalleryStorageKey)
	if !ok {
		return
	}
	var raw []GalleryItem
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		g.Log.Warnf("gallery: discarding malformed storage blob: %v", err)
		return
	}
	for _, item := range raw {
		if item.ID == "" || item.Pose == nil || item.Thumb == "" {
			continue
		}
		g.items = append(g.items, item)
	}
	if len(g.items) > GalleryCapacity {
		g.items = g.items[:GalleryCapacity]
	}
}

// SaveToStorage persists the list best-effort. Serialization or quota
// failures become a toast, not an error.
func (g *Gallery) SaveToStorage() {
	blob, err := json.Marshal(g.items)
	if err != nil {
		g.Log.Errorf("gallery: marshal: %v", err)
		g.Notify.Notify("Could not save gallery", defaultToastDuration)
		return
	}
	if err := g.storage.Set(GalleryStorageKey, string(blob)); err != nil {
		g.Log.Errorf("gallery: persist: %v", err)
		g.Notify.Notify("Could not save gallery (storage full?)", defaultToastDuration)
	}
}

// SaveCurrentPose snapshots the current pose under the given name (or an
// auto-numbered "Pose N"), unshifts it newest-first, truncates to capacity,
// persists and selects it. Missing collaborators or an empty thumbnail are
// soft failures reported as toasts.
func (g *Gallery) SaveCurrentPose(name string, withToast bool) *GalleryItem {
	if g.Serialize == nil || g.Capture == nil {
		g.Notify.Notify("Saving is not available", defaultToastDuration)
		return nil
	}

	pose, err := g.Serialize()
	if err != nil {
		g.Log.Errorf("gallery: serialize: %v", err)
		g.Notify.Notify("Could not capture pose", defaultToastDuration)
		return nil
	}
	thumb, err := g.Capture()
	if err != nil || thumb == "" {
		if err != nil {
			g.Log.Errorf("gallery: thumbnail: %v", err)
		}
		g.Notify.Notify("Could not capture thumbnail", defaultToastDuration)
		return nil
	}

	g.saveSeq++
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Pose %d", g.saveSeq)
	}
	notes := ""
	if g.Notes != nil {
		notes = g.Notes()
	}

	item := GalleryItem{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Notes:     notes,
		Pose:      pose,
		Thumb:     thumb,
	}

	g.items = append([]GalleryItem{item}, g.items...)
	if len(g.items) > GalleryCapacity {
		g.items = g.items[:GalleryCapacity]
	}
	g.selectedID = item.ID

	g.SaveToStorage()
	g.Render()
	if withToast {
		g.Notify.Notify(fmt.Sprintf("Saved: %s", item.Name), defaultToastDuration)
	}
	return &g.items[0]
}

// RenameSelected prompts for a new name. Requires a selection; a blank
// answer keeps the previous name.
func (g *Gallery) RenameSelected() {
	item := g.SelectedItem()
	if item == nil {
		g.Notify.Notify("Select a gallery item first", defaultToastDuration)
		return
	}
	if g.prompt == nil {
		return
	}
	text, ok := g.prompt.Prompt("Rename pose", item.Name)
	if !ok {
		return
	}
	text = strings.TrimSpace(text)
	if text != "" {
		item.Name = text
	}
	g.SaveToStorage()
	g.Render()
}

// DeleteSelected removes the selected item. Requires a selection.
func (g *Gallery) DeleteSelected() {
	if g.SelectedItem() == nil {
		g.Notify.Notify("Select a gallery item first", defaultToastDuration)
		return
	}
	for i := range g.items {
		if g.items[i].ID == g.selectedID {
			g.items = append(g.items[:i], g.items[i+1:]...)
			break
		}
	}
	if g.SelectedItem() == nil {
		g.selectedID = ""
	}
	g.SaveToStorage()
	g.Render()
}

// ClearAll wipes the gallery after interactive confirmation.
func (g *Gallery) ClearAll() {
	if g.prompt == nil || !g.prompt.Confirm("Delete all saved poses?") {
		return
	}
	g.items = g.items[:0]
	g.selectedID = ""
	g.SaveToStorage()
	g.Render()
}

// Render pushes the current list into the view, when one is wired.
func (g *Gallery) Render() {
	if g.view != nil {
		g.view.Render(g.items, g.selectedID)
	}
}
