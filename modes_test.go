package posekit

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModes() (*Modes, *TransformGizmo, *OrbitController, *recordingNotifier) {
	gizmo := NewTransformGizmo()
	orbit := NewOrbitController(NewCamera())
	notify := &recordingNotifier{}
	m := NewModes(NewNopLogger(), notify, gizmo, orbit, nil)
	return m, gizmo, orbit, notify
}

func TestModes_InitialState(t *testing.T) {
	m, gizmo, orbit, _ := newTestModes()

	assert.Equal(t, ModeRotate, m.Mode())
	assert.True(t, gizmo.Enabled())
	assert.Equal(t, GizmoRotate, gizmo.Mode())
	assert.False(t, orbit.Enabled)
	assert.InDelta(t, float64(mgl32.DegToRad(10)), float64(gizmo.RotationSnap()), 1e-6)
	for axis := AxisX; axis <= AxisZ; axis++ {
		assert.True(t, gizmo.AxisVisible(axis))
	}
}

func TestModes_Transitions(t *testing.T) {
	m, gizmo, orbit, _ := newTestModes()

	m.SetMode(ModeMove)
	assert.Equal(t, ModeMove, m.Mode())
	assert.True(t, gizmo.Enabled())
	assert.Equal(t, GizmoTranslate, gizmo.Mode())
	assert.Zero(t, gizmo.RotationSnap(), "snap only applies in rotate mode")
	assert.False(t, orbit.Enabled)

	m.SetMode(ModeOrbit)
	assert.Equal(t, ModeOrbit, m.Mode())
	assert.False(t, gizmo.Enabled())
	assert.True(t, orbit.Enabled)

	m.SetMode(Mode(42))
	assert.Equal(t, ModeOrbit, m.Mode(), "invalid mode must be ignored")
}

func TestModes_Shortcuts(t *testing.T) {
	m, _, _, _ := newTestModes()

	m.HandleShortcut("2")
	assert.Equal(t, ModeMove, m.Mode())
	m.HandleShortcut("3")
	assert.Equal(t, ModeOrbit, m.Mode())
	m.HandleShortcut("1")
	assert.Equal(t, ModeRotate, m.Mode())
	m.HandleShortcut("q")
	assert.Equal(t, ModeRotate, m.Mode())
}

func TestModes_AxisToggleKeepsSnap(t *testing.T) {
	m, gizmo, _, _ := newTestModes()
	require.Equal(t, ModeRotate, m.Mode())

	m.ToggleAxis(AxisX)

	assert.False(t, gizmo.AxisVisible(AxisX))
	assert.True(t, gizmo.AxisVisible(AxisY))
	assert.True(t, gizmo.AxisVisible(AxisZ))
	assert.InDelta(t, float64(mgl32.DegToRad(10)), float64(gizmo.RotationSnap()), 1e-6,
		"axis lock must not affect rotation snap")

	m.ToggleAxis(AxisX)
	assert.True(t, gizmo.AxisVisible(AxisX))
}

func TestModes_SetSnapDeg(t *testing.T) {
	m, gizmo, _, _ := newTestModes()

	m.SetSnapDeg(15)
	assert.InDelta(t, float64(mgl32.DegToRad(15)), float64(gizmo.RotationSnap()), 1e-6)

	m.SetSnapDeg(math.NaN())
	assert.Equal(t, 15.0, m.SnapDeg(), "non-finite input keeps previous value")

	m.SetSnapDeg(math.Inf(1))
	assert.Equal(t, 15.0, m.SnapDeg())

	m.SetSnapDeg(0)
	assert.Zero(t, gizmo.RotationSnap(), "zero snap disables snapping")
}

func TestModes_DragDisablesOrbit(t *testing.T) {
	m, gizmo, orbit, notify := newTestModes()
	node := NewNode("hand", KindJoint)

	// Rotate mode: drag fires a rotate toast, orbit stays off throughout.
	gizmo.Attach(node)
	gizmo.BeginDrag()
	assert.False(t, orbit.Enabled)
	assert.Equal(t, "Dragging: rotate", notify.last())
	gizmo.EndDrag()
	assert.False(t, orbit.Enabled)

	m.SetMode(ModeMove)
	gizmo.BeginDrag()
	assert.Equal(t, "Dragging: move", notify.last())
	gizmo.EndDrag()

	// Ending a drag while in orbit mode restores orbit immediately. The
	// mode switch mid-drag disables the gizmo, which ends the drag.
	m.SetMode(ModeRotate)
	gizmo.BeginDrag()
	require.True(t, gizmo.Dragging())
	m.SetMode(ModeOrbit)
	assert.False(t, gizmo.Dragging())
	assert.True(t, orbit.Enabled)
}

func TestModes_ExclusivityInvariant(t *testing.T) {
	m, gizmo, orbit, _ := newTestModes()

	for _, mode := range []Mode{ModeRotate, ModeMove, ModeOrbit} {
		m.SetMode(mode)
		assert.Equal(t, mode == ModeOrbit && !gizmo.Dragging(), orbit.Enabled,
			"orbit-enabled must equal (mode==orbit && !dragging) for %v", mode)
		assert.Equal(t, mode != ModeOrbit, gizmo.Enabled())
	}
}
