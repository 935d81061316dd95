package posekit

// GizmoMode selects which transform the gizmo manipulates.
type GizmoMode int

const (
	GizmoTranslate GizmoMode = iota
	GizmoRotate
)

// Axis indexes the three gizmo axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Gizmo is the transform-gizmo collaborator. The ModesController drives its
// enabled flag, mode, snap and per-axis visibility; the SelectionController
// attaches and detaches its target. DragChanged fires on every drag start
// and end.
type Gizmo interface {
	Attach(node *Node)
	Detach()
	Target() *Node

	SetEnabled(enabled bool)
	Enabled() bool

	SetMode(mode GizmoMode)
	Mode() GizmoMode

	// SetRotationSnap sets the rotate snap increment in radians. A value
	// of zero or less disables snapping.
	SetRotationSnap(radians float32)

	SetAxisVisible(axis Axis, visible bool)
	AxisVisible(axis Axis) bool

	Dragging() bool
	OnDragChanged(fn func(dragging bool)) func()
}

// TransformGizmo is the default Gizmo implementation. It carries the full
// gizmo state machine without rendering; the platform layer reads its state
// to draw handles and calls BeginDrag/EndDrag from its hit testing.
type TransformGizmo struct {
	target       *Node
	enabled      bool
	mode         GizmoMode
	snapRad      float32
	axisVisible  [3]bool
	dragging     bool
	dragHandlers []*dragHandlerEntry
}

type dragHandlerEntry struct {
	fn func(bool)
}

func NewTransformGizmo() *TransformGizmo {
	return &TransformGizmo{
		enabled:     true,
		axisVisible: [3]bool{true, true, true},
	}
}

func (g *TransformGizmo) Attach(node *Node) {
	if node == nil {
		g.Detach()
		return
	}
	g.target = node
}

func (g *TransformGizmo) Detach() {
	if g.dragging {
		g.EndDrag()
	}
	g.target = nil
}

func (g *TransformGizmo) Target() *Node { return g.target }

func (g *TransformGizmo) SetEnabled(enabled bool) {
	g.enabled = enabled
	if !enabled && g.dragging {
		g.EndDrag()
	}
}

func (g *TransformGizmo) Enabled() bool { return g.enabled }

func (g *TransformGizmo) SetMode(mode GizmoMode) { g.mode = mode }
func (g *TransformGizmo) Mode() GizmoMode        { return g.mode }

func (g *TransformGizmo) SetRotationSnap(radians float32) {
	if radians < 0 {
		radians = 0
	}
	g.snapRad = radians
}

// RotationSnap returns the snap increment in radians, zero when disabled.
func (g *TransformGizmo) RotationSnap() float32 { return g.snapRad }

func (g *TransformGizmo) SetAxisVisible(axis Axis, visible bool) {
	if axis < AxisX || axis > AxisZ {
		return
	}
	g.axisVisible[axis] = visible
}

func (g *TransformGizmo) AxisVisible(axis Axis) bool {
	if axis < AxisX || axis > AxisZ {
		return false
	}
	return g.axisVisible[axis]
}

func (g *TransformGizmo) Dragging() bool { return g.dragging }

// OnDragChanged subscribes to drag start/end; returns the unsubscribe.
func (g *TransformGizmo) OnDragChanged(fn func(dragging bool)) func() {
	if fn == nil {
		return func() {}
	}
	entry := &dragHandlerEntry{fn: fn}
	g.dragHandlers = append(g.dragHandlers, entry)
	return func() {
		for i, e := range g.dragHandlers {
			if e == entry {
				g.dragHandlers = append(g.dragHandlers[:i], g.dragHandlers[i+1:]...)
				return
			}
		}
	}
}

// BeginDrag marks a drag active. No-op when disabled, detached or already
// dragging.
func (g *TransformGizmo) BeginDrag() {
	if !g.enabled || g.target == nil || g.dragging {
		return
	}
	g.dragging = true
	g.fireDragChanged(true)
}

// EndDrag marks the drag finished. Safe to call when not dragging.
func (g *TransformGizmo) EndDrag() {
	if !g.dragging {
		return
	}
	g.dragging = false
	g.fireDragChanged(false)
}

func (g *TransformGizmo) fireDragChanged(dragging bool) {
	list := make([]*dragHandlerEntry, len(g.dragHandlers))
	copy(list, g.dragHandlers)
	for _, e := range list {
		e.fn(dragging)
	}
}
