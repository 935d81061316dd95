package posekit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewport reports the canvas rectangle used to turn client pointer
// coordinates into viewport-local ones.
type Viewport interface {
	Bounds() (x, y, width, height int)
}

// ViewportFunc adapts a function to the Viewport interface.
type ViewportFunc func() (x, y, width, height int)

func (f ViewportFunc) Bounds() (int, int, int, int) { return f() }

// Outline is the live bounding box drawn around the selection.
type Outline struct {
	Visible bool
	Box     AABB
}

// Selection does ray picking against the world, owns the single selected
// node, keeps the gizmo attached to it and refreshes the outline box every
// frame while the external show-outline flag is on.
type Selection struct {
	Log    Logger
	Notify Notifier

	world    *World
	camera   *Camera
	orbit    *OrbitController
	gizmo    Gizmo
	modes    *Modes
	viewport Viewport

	// ShowOutline gates the per-frame outline refresh; nil means always on.
	ShowOutline func() bool
	// ModalOpen defers Escape to the modal close; nil means never open.
	ModalOpen func() bool
	// NameSink mirrors the selection's display name into the host UI.
	NameSink func(name string)

	selected *Node
	outline  Outline
}

func NewSelection(log Logger, notify Notifier, world *World, camera *Camera, orbit *OrbitController, gizmo Gizmo, modes *Modes, viewport Viewport) *Selection {
	return &Selection{
		Log:      orNopLogger(log),
		Notify:   orLogNotifier(notify, log),
		world:    world,
		camera:   camera,
		orbit:    orbit,
		gizmo:    gizmo,
		modes:    modes,
		viewport: viewport,
	}
}

func (s *Selection) Selected() *Node  { return s.selected }
func (s *Selection) Outline() Outline { return s.outline }

// PickFromPointer converts client coordinates into a ray through the camera
// and resolves the nearest hit to a selectable node. Nil means no hit.
func (s *Selection) PickFromPointer(ev Event) *Node {
	vx, vy, vw, vh := s.viewport.Bounds()
	ray := s.camera.ScreenRay(ev.X-float64(vx), ev.Y-float64(vy), vw, vh)

	hit := Raycast(ray, s.world.CollectPickables())
	if !hit.Hit {
		return nil
	}
	return resolveSelectable(hit.Node)
}

// resolveSelectable climbs from the raw hit to the controllable node:
// a mesh inside a joint resolves to the joint group, a mesh inside a prop
// resolves to the prop group. Clicking a forearm selects the whole elbow
// joint, not the leaf box. Falls back to the raw hit when the climb finds
// nothing.
func resolveSelectable(hit *Node) *Node {
	for n := hit; n != nil; n = n.parent {
		if n.parent != nil && n.parent.Kind == KindJoint {
			return n.parent
		}
		if n.Kind == KindProp {
			return n
		}
	}
	return hit
}

// OnPointerDown runs a pick for a primary press. Ignored entirely in orbit
// mode and while a modal is open.
func (s *Selection) OnPointerDown(ev Event) {
	if s.modes != nil && s.modes.Mode() == ModeOrbit {
		return
	}
	if s.ModalOpen != nil && s.ModalOpen() {
		return
	}
	if picked := s.PickFromPointer(ev); picked != nil {
		s.SetSelection(picked)
		s.Notify.Notify(fmt.Sprintf("Selected: %s", displayName(picked)), defaultToastDuration)
	}
}

func displayName(n *Node) string {
	if n == nil || n.Name == "" {
		return "(unnamed)"
	}
	return n.Name
}

// SetSelection replaces the selection. Nil clears the gizmo attachment and
// hides the outline.
func (s *Selection) SetSelection(n *Node) {
	s.selected = n
	if n == nil {
		s.gizmo.Detach()
		s.outline = Outline{}
		if s.NameSink != nil {
			s.NameSink("None")
		}
		return
	}
	s.gizmo.Attach(n)
	s.UpdateOutline()
	if s.NameSink != nil {
		s.NameSink(displayName(n))
	}
}

// ClearIfRemoved drops the selection when the removed node owns it. The
// selection is a weak reference; removal paths must call this.
func (s *Selection) ClearIfRemoved(removed *Node) {
	if s.selected == nil || removed == nil {
		return
	}
	if s.selected == removed || s.selected.IsDescendantOf(removed) {
		s.SetSelection(nil)
	}
}

// UpdateOutline recomputes the outline from the selection's world box.
func (s *Selection) UpdateOutline() {
	if s.selected == nil {
		s.outline = Outline{}
		return
	}
	box := s.selected.WorldAABB()
	if box.IsEmpty() {
		s.outline = Outline{}
		return
	}
	s.outline = Outline{Visible: true, Box: box}
}

// Tick refreshes the outline continuously. Joint rotations can change via
// direct gizmo drags with no discrete event, so this is per-frame work, not
// event-driven.
func (s *Selection) Tick() {
	if s.selected != nil && (s.ShowOutline == nil || s.ShowOutline()) {
		s.UpdateOutline()
		return
	}
	s.outline = Outline{}
}

// FocusSelection frames the selection: the camera moves to a fixed diagonal
// offset scaled by the selection's size and the orbit camera retargets the
// box center. No-op with nothing selected.
func (s *Selection) FocusSelection() {
	if s.selected == nil {
		return
	}
	box := s.selected.WorldAABB()
	var center mgl32.Vec3
	var diag float32
	if box.IsEmpty() {
		center = s.selected.WorldPosition()
	} else {
		center = box.Center()
		diag = box.Diagonal()
	}

	dist := mgl32.Clamp(diag*1.6, 1.8, 12)
	dir := mgl32.Vec3{1, 0.7, 1}.Normalize()
	s.camera.Position = center.Add(dir.Mul(dist))
	s.camera.Target = center
	s.orbit.Target = center
	s.orbit.SyncFromCamera()
}

// HandleKey implements the keyboard integration: Escape clears unless a
// modal is open (the modal close wins), lowercase f focuses.
func (s *Selection) HandleKey(ev Event) {
	switch ev.KeyLower {
	case "escape":
		if s.ModalOpen != nil && s.ModalOpen() {
			return
		}
		s.SetSelection(nil)
	case "f":
		s.FocusSelection()
	}
}
