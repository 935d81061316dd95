package posekit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the three-way interaction mode.
type Mode int

const (
	ModeRotate Mode = iota
	ModeMove
	ModeOrbit
)

func (m Mode) String() string {
	switch m {
	case ModeRotate:
		return "rotate"
	case ModeMove:
		return "move"
	case ModeOrbit:
		return "orbit"
	default:
		return "unknown"
	}
}

// ModeStatus mirrors controller state into the host UI (active mode button,
// axis-lock indicators). Optional; a nil sink is skipped.
type ModeStatus interface {
	SetActiveMode(mode Mode)
	SetAxisLocks(x, y, z bool)
}

// Modes owns the rotate/move/orbit state machine, the per-axis gizmo locks
// and the rotation snap angle, and keeps the gizmo and orbit camera mutually
// exclusive during drags.
type Modes struct {
	Log    Logger
	Notify Notifier

	gizmo  Gizmo
	orbit  *OrbitController
	status ModeStatus

	mode    Mode
	axes    [3]bool
	snapDeg float64

	unsubscribeDrag func()
}

// NewModes wires the controller to its collaborators and applies the
// initial state (rotate mode, all axes on, 10 degree snap).
func NewModes(log Logger, notify Notifier, gizmo Gizmo, orbit *OrbitController, status ModeStatus) *Modes {
	m := &Modes{
		Log:     orNopLogger(log),
		Notify:  orLogNotifier(notify, log),
		gizmo:   gizmo,
		orbit:   orbit,
		status:  status,
		mode:    ModeRotate,
		axes:    [3]bool{true, true, true},
		snapDeg: 10,
	}
	m.unsubscribeDrag = gizmo.OnDragChanged(m.onDragChanged)
	m.applyState()
	return m
}

func (m *Modes) Mode() Mode { return m.mode }

// AxisEnabled reports one axis-lock boolean.
func (m *Modes) AxisEnabled(axis Axis) bool {
	if axis < AxisX || axis > AxisZ {
		return false
	}
	return m.axes[axis]
}

func (m *Modes) SnapDeg() float64 { return m.snapDeg }

// SetMode switches the interaction mode. Anything outside the three valid
// modes is ignored.
func (m *Modes) SetMode(next Mode) {
	if next != ModeRotate && next != ModeMove && next != ModeOrbit {
		return
	}
	m.mode = next
	m.applyState()
}

// ToggleAxis flips one per-axis gizmo lock and re-applies.
func (m *Modes) ToggleAxis(axis Axis) {
	if axis < AxisX || axis > AxisZ {
		return
	}
	m.axes[axis] = !m.axes[axis]
	m.applyState()
}

// SetSnapDeg updates the rotation snap angle in degrees. Non-finite or
// negative input is rejected and the previous value kept.
func (m *Modes) SetSnapDeg(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return
	}
	m.snapDeg = value
	m.applyState()
}

// HandleShortcut maps the 1/2/3 keys to modes. Any other key is a no-op.
func (m *Modes) HandleShortcut(key string) {
	switch key {
	case "1":
		m.SetMode(ModeRotate)
	case "2":
		m.SetMode(ModeMove)
	case "3":
		m.SetMode(ModeOrbit)
	}
}

// applyState pushes the full controller state into the gizmo, the orbit
// camera and the status sink. Every transition funnels through here so the
// invariants hold after any of them.
func (m *Modes) applyState() {
	if m.status != nil {
		m.status.SetActiveMode(m.mode)
		m.status.SetAxisLocks(m.axes[AxisX], m.axes[AxisY], m.axes[AxisZ])
	}

	m.gizmo.SetEnabled(m.mode != ModeOrbit)
	if m.mode == ModeMove {
		m.gizmo.SetMode(GizmoTranslate)
	} else {
		m.gizmo.SetMode(GizmoRotate)
	}

	for axis := AxisX; axis <= AxisZ; axis++ {
		m.gizmo.SetAxisVisible(axis, m.axes[axis])
	}

	if m.mode == ModeRotate && m.snapDeg > 0 {
		m.gizmo.SetRotationSnap(mgl32.DegToRad(float32(m.snapDeg)))
	} else {
		m.gizmo.SetRotationSnap(0)
	}

	// During a drag the orbit camera stays off regardless of mode; the
	// drag-end callback restores the mode-correct state.
	m.orbit.Enabled = m.mode == ModeOrbit && !m.gizmo.Dragging()
}

func (m *Modes) onDragChanged(dragging bool) {
	if dragging {
		m.orbit.Enabled = false
		if m.mode == ModeMove {
			m.Notify.Notify("Dragging: move", defaultToastDuration)
		} else {
			m.Notify.Notify("Dragging: rotate", defaultToastDuration)
		}
		return
	}
	m.applyState()
}

// Destroy detaches the drag subscription.
func (m *Modes) Destroy() {
	if m.unsubscribeDrag != nil {
		m.unsubscribeDrag()
		m.unsubscribeDrag = nil
	}
}
