package posekit

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGallery_SaveCurrentPose(t *testing.T) {
	w := newPosedWorld(t)
	g, storage, notify := newTestGallery(w)

	item := g.SaveCurrentPose("Hero Pose", true)
	require.NotNil(t, item)

	assert.Equal(t, "Hero Pose", item.Name)
	assert.NotEmpty(t, item.ID)
	assert.NotEmpty(t, item.CreatedAt)
	assert.NotNil(t, item.Pose)
	assert.Equal(t, item.ID, g.SelectedID(), "a fresh save becomes the selection")
	assert.Equal(t, "Saved: Hero Pose", notify.last())

	blob, ok := storage.Get(GalleryStorageKey)
	require.True(t, ok, "save must persist immediately")
	var persisted []GalleryItem
	require.NoError(t, json.Unmarshal([]byte(blob), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, item.ID, persisted[0].ID)
}

func TestGallery_AutoNames(t *testing.T) {
	w := newPosedWorld(t)
	g, _, _ := newTestGallery(w)

	first := g.SaveCurrentPose("", false)
	second := g.SaveCurrentPose("  ", false)
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.Equal(t, "Pose 1", first.Name)
	assert.Equal(t, "Pose 2", second.Name)
}

func TestGallery_CapacityNewestFirst(t *testing.T) {
	w := newPosedWorld(t)
	g, _, _ := newTestGallery(w)

	for i := 0; i < GalleryCapacity+5; i++ {
		require.NotNil(t, g.SaveCurrentPose(fmt.Sprintf("pose-%d", i), false))
	}

	items := g.Items()
	require.Len(t, items, GalleryCapacity)
	assert.Equal(t, fmt.Sprintf("pose-%d", GalleryCapacity+4), items[0].Name,
		"newest item sits at the head")
	assert.Equal(t, "pose-5", items[GalleryCapacity-1].Name,
		"oldest overflow items fall off the tail")
}

func TestGallery_StorageFailureIsSoft(t *testing.T) {
	w := newPosedWorld(t)
	g, storage, notify := newTestGallery(w)
	storage.FailSets = true

	item := g.SaveCurrentPose("doomed", true)

	require.NotNil(t, item, "in-memory state survives a persist failure")
	assert.Len(t, g.Items(), 1)
	assert.Contains(t, notify.messages, "Could not save gallery (storage full?)")
}

func TestGallery_MissingCollaborators(t *testing.T) {
	notify := &recordingNotifier{}
	g := NewGallery(NewNopLogger(), notify, NewMemStorage(), &stubPrompter{}, nil)

	assert.Nil(t, g.SaveCurrentPose("x", true))
	assert.Equal(t, "Saving is not available", notify.last())
	assert.Empty(t, g.Items())
}

func TestGallery_LoadFiltersMalformedItems(t *testing.T) {
	w := newPosedWorld(t)
	pose, err := SerializePose(w, "")
	require.NoError(t, err)

	good := GalleryItem{ID: "ok", Name: "keeper", Pose: pose, Thumb: "data:image/png;base64,eA=="}
	items := []GalleryItem{
		good,
		{Name: "no id", Pose: pose, Thumb: "t"},
		{ID: "no-pose", Name: "x", Thumb: "t"},
		{ID: "no-thumb", Name: "y", Pose: pose},
	}
	blob, err := json.Marshal(items)
	require.NoError(t, err)

	storage := NewMemStorage()
	require.NoError(t, storage.Set(GalleryStorageKey, string(blob)))

	g := NewGallery(NewNopLogger(), &recordingNotifier{}, storage, &stubPrompter{}, nil)
	require.Len(t, g.Items(), 1)
	assert.Equal(t, "ok", g.Items()[0].ID)
}

func TestGallery_LoadToleratesGarbageBlob(t *testing.T) {
	storage := NewMemStorage()
	require.NoError(t, storage.Set(GalleryStorageKey, "}{not json"))

	g := NewGallery(NewNopLogger(), &recordingNotifier{}, storage, &stubPrompter{}, nil)
	assert.Empty(t, g.Items())
}

func TestGallery_RenameSelected(t *testing.T) {
	w := newPosedWorld(t)
	notify := &recordingNotifier{}
	prompt := &stubPrompter{}
	g := NewGallery(NewNopLogger(), notify, NewMemStorage(), prompt, nil)
	g.Serialize = func() (*Pose, error) { return SerializePose(w, "") }
	g.Capture = func() (string, error) { return "data:image/png;base64,eA==", nil }

	g.RenameSelected()
	assert.Equal(t, "Select a gallery item first", notify.last())

	item := g.SaveCurrentPose("original", false)
	require.NotNil(t, item)

	prompt.promptText = "renamed"
	prompt.promptOK = true
	g.RenameSelected()
	assert.Equal(t, "renamed", g.SelectedItem().Name)

	prompt.promptText = "   "
	g.RenameSelected()
	assert.Equal(t, "renamed", g.SelectedItem().Name, "blank answer keeps the old name")

	prompt.promptText = "ignored"
	prompt.promptOK = false
	g.RenameSelected()
	assert.Equal(t, "renamed", g.SelectedItem().Name, "cancel keeps the old name")
}

func TestGallery_DeleteSelected(t *testing.T) {
	w := newPosedWorld(t)
	g, _, notify := newTestGallery(w)

	g.DeleteSelected()
	assert.Equal(t, "Select a gallery item first", notify.last())

	a := g.SaveCurrentPose("a", false)
	b := g.SaveCurrentPose("b", false)
	require.NotNil(t, a)
	require.NotNil(t, b)

	g.Select(b.ID)
	g.DeleteSelected()

	require.Len(t, g.Items(), 1)
	assert.Equal(t, "a", g.Items()[0].Name)
	assert.Empty(t, g.SelectedID(), "deleting the selection clears it")
}

func TestGallery_ClearAllNeedsConfirm(t *testing.T) {
	w := newPosedWorld(t)
	prompt := &stubPrompter{}
	g := NewGallery(NewNopLogger(), &recordingNotifier{}, NewMemStorage(), prompt, nil)
	g.Serialize = func() (*Pose, error) { return SerializePose(w, "") }
	g.Capture = func() (string, error) { return "data:image/png;base64,eA==", nil }
	require.NotNil(t, g.SaveCurrentPose("keep", false))

	prompt.confirmOK = false
	g.ClearAll()
	assert.Len(t, g.Items(), 1, "declined confirmation keeps the gallery")

	prompt.confirmOK = true
	g.ClearAll()
	assert.Empty(t, g.Items())
	assert.Empty(t, g.SelectedID())
}

func TestGallery_SelectUnknownIDClears(t *testing.T) {
	w := newPosedWorld(t)
	g, _, _ := newTestGallery(w)
	require.NotNil(t, g.SaveCurrentPose("a", false))

	g.Select("no-such-id")
	assert.Empty(t, g.SelectedID())
}
