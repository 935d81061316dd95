package posekit

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosedWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld()
	BuildCharacter(w)
	return w
}

func TestSerializePose_RoundTrip(t *testing.T) {
	w := newPosedWorld(t)
	w.FindJoint("elbowL").Rotation = mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{1, 0, 0})
	prop := w.SpawnProp(PropCube, "crate cube")
	prop.Position = mgl32.Vec3{1, 2, 3}
	prop.Scale = mgl32.Vec3{2, 2, 2}

	pose, err := SerializePose(w, "test notes")
	require.NoError(t, err)
	assert.Equal(t, PoseVersion, pose.Version)
	assert.Equal(t, "test notes", pose.Notes)
	assert.Equal(t, len(w.Joints), pose.Joints.Len())
	require.Len(t, pose.Props, 1)
	assert.NotEmpty(t, pose.SavedAt)

	encoded, err := EncodePose(pose)
	require.NoError(t, err)
	decoded, err := ParsePose(string(encoded))
	require.NoError(t, err)

	q, ok := decoded.Joints.Get("elbowL")
	require.True(t, ok)
	want := w.FindJoint("elbowL").Rotation
	assert.InDelta(t, float64(want.V[0]), float64(q[0]), 1e-5)
	assert.InDelta(t, float64(want.W), float64(q[3]), 1e-5)
	assert.Equal(t, [3]float32{1, 2, 3}, decoded.Props[0].Position)
	assert.Equal(t, [3]float32{2, 2, 2}, decoded.Props[0].Scale)
}

func TestApplyPose_RoundTripLeavesWorldUnchanged(t *testing.T) {
	w := newPosedWorld(t)
	w.FindJoint("shoulderR").Rotation = mgl32.QuatRotate(0.9, mgl32.Vec3{0, 0, 1})
	w.FindJoint("hipL").Rotation = mgl32.QuatRotate(-0.4, mgl32.Vec3{1, 0, 0})
	prop := w.SpawnProp(PropCube, "floor cube")
	prop.Position = mgl32.Vec3{0, -0.5, 1}
	prop.Scale = mgl32.Vec3{3, 0.2, 3}

	before := make(map[string]mgl32.Quat)
	for _, j := range w.Joints {
		before[j.Name] = j.Rotation
	}

	pose, err := SerializePose(w, "")
	require.NoError(t, err)
	require.NoError(t, ApplyPose(pose, &ApplyDeps{World: w}))

	for _, j := range w.Joints {
		want := before[j.Name]
		for i := 0; i < 3; i++ {
			assert.InDelta(t, float64(want.V[i]), float64(j.Rotation.V[i]), 1e-5, "joint %s", j.Name)
		}
		assert.InDelta(t, float64(want.W), float64(j.Rotation.W), 1e-5, "joint %s", j.Name)
	}
	require.Len(t, w.Props, 1)
	rebuilt := w.Props[0]
	assert.Equal(t, "floor cube", rebuilt.Name)
	assert.Equal(t, PropCube, rebuilt.PropType)
	assert.Equal(t, mgl32.Vec3{0, -0.5, 1}, rebuilt.Position)
	assert.Equal(t, mgl32.Vec3{3, 0.2, 3}, rebuilt.Scale)
}

func TestSerializePose_NilWorld(t *testing.T) {
	_, err := SerializePose(nil, "")
	assert.ErrorIs(t, err, ErrMissingWorld)
}

func TestJointMap_PreservesInsertionOrder(t *testing.T) {
	w := newPosedWorld(t)
	pose, err := SerializePose(w, "")
	require.NoError(t, err)

	encoded, err := EncodePose(pose)
	require.NoError(t, err)

	// "hips" is created first and sorts after "chest"; document order must
	// follow creation order, not key order.
	text := string(encoded)
	assert.Less(t, strings.Index(text, `"hips"`), strings.Index(text, `"chest"`))

	decoded, err := ParsePose(text)
	require.NoError(t, err)
	assert.Equal(t, pose.Joints.Names(), decoded.Joints.Names())
}

func TestJointMap_DropsMalformedEntries(t *testing.T) {
	var m JointMap
	err := m.UnmarshalJSON([]byte(`{
		"good": [0, 0, 0, 1],
		"short": [0, 0, 1],
		"wrongType": "hello",
		"alsoGood": [0.5, 0, 0, 0.8660254]
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"good", "alsoGood"}, m.Names())
	_, ok := m.Get("short")
	assert.False(t, ok)
	_, ok = m.Get("wrongType")
	assert.False(t, ok)
}

func TestApplyPose_PartialJoints(t *testing.T) {
	w := newPosedWorld(t)
	preserved := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 0, 1})
	w.FindJoint("kneeR").Rotation = preserved

	pose := &Pose{Version: PoseVersion, Joints: NewJointMap()}
	pose.Joints.Set("elbowL", [4]float32{0, 0.7071, 0, 0.7071})
	pose.Joints.Set("notAJoint", [4]float32{0, 0, 0, 1})

	err := ApplyPose(pose, &ApplyDeps{World: w})
	require.NoError(t, err)

	got := w.FindJoint("elbowL").Rotation
	assert.InDelta(t, 0.7071, float64(got.V[1]), 1e-4)
	assert.Equal(t, preserved, w.FindJoint("kneeR").Rotation,
		"joints absent from the document must keep their rotation")
}

func TestApplyPose_RebuildsProps(t *testing.T) {
	w := newPosedWorld(t)
	stale := w.SpawnProp(PropTorus, "old donut")

	var removed []*Node
	pose := &Pose{
		Version: PoseVersion,
		Joints:  NewJointMap(),
		Props: []PropPose{
			{Name: "my cube", Position: [3]float32{1, 0, 0}, Quaternion: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
			{Name: "ball", Position: [3]float32{0, 2, 0}, Quaternion: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
		},
	}
	deps := &ApplyDeps{World: w, OnPropRemoved: func(n *Node) { removed = append(removed, n) }}

	require.NoError(t, ApplyPose(pose, deps))

	require.Len(t, w.Props, 2)
	assert.Equal(t, []*Node{stale}, removed, "live props are removed before the rebuild")
	assert.Nil(t, stale.Parent())

	// Geometry type is inferred from the name: "cube" substring loads as a
	// cube, everything else as a sphere.
	assert.Equal(t, PropCube, w.Props[0].PropType)
	assert.Equal(t, "my cube", w.Props[0].Name)
	assert.Equal(t, PropSphere, w.Props[1].PropType)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, w.Props[1].Position)
}

func TestApplyPose_InvalidInputs(t *testing.T) {
	w := newPosedWorld(t)
	assert.ErrorIs(t, ApplyPose(nil, &ApplyDeps{World: w}), ErrInvalidPose)
	assert.ErrorIs(t, ApplyPose(&Pose{}, &ApplyDeps{World: w}), ErrInvalidPose)
	assert.ErrorIs(t, ApplyPose(&Pose{Joints: NewJointMap()}, nil), ErrMissingWorld)
	assert.ErrorIs(t, ApplyPose(&Pose{Joints: NewJointMap()}, &ApplyDeps{}), ErrMissingWorld)
}

func TestApplyPoseJointsOnly_ResetsUnlistedJoints(t *testing.T) {
	w := newPosedWorld(t)
	w.FindJoint("kneeR").Rotation = mgl32.QuatRotate(1, mgl32.Vec3{1, 0, 0})
	w.SpawnProp(PropCube, "keep me")

	pose := &Pose{Version: PoseVersion, Joints: NewJointMap()}
	pose.Joints.Set("elbowL", [4]float32{0, 0.7071, 0, 0.7071})
	pose.Joints.Set("ghost", [4]float32{0, 0, 0, 1})

	matched, err := ApplyPoseJointsOnly(pose, &ApplyDeps{World: w})
	require.NoError(t, err)
	assert.Equal(t, 1, matched)

	assert.Equal(t, mgl32.QuatIdent(), w.FindJoint("kneeR").Rotation,
		"joints-only apply resets joints absent from the document")
	assert.Len(t, w.Props, 1, "joints-only apply must not touch props")
}

func TestParsePose_BadJSON(t *testing.T) {
	_, err := ParsePose("{not json")
	assert.ErrorIs(t, err, ErrInvalidPose)
}

func TestParsePose_ToleratesUnknownVersion(t *testing.T) {
	p, err := ParsePose(`{"version": 99, "joints": {"hips": [0,0,0,1]}, "props": []}`)
	require.NoError(t, err)
	assert.Equal(t, 99, p.Version)
	assert.Equal(t, 1, p.Joints.Len())
}

func validPoseJSON(t *testing.T, w *World) string {
	t.Helper()
	pose, err := SerializePose(w, "")
	require.NoError(t, err)
	b, err := EncodePose(pose)
	require.NoError(t, err)
	return string(b)
}

func TestImportPosePack(t *testing.T) {
	w := newPosedWorld(t)
	gallery, _, notify := newTestGallery(w)
	text := validPoseJSON(t, w)

	files := []PoseFile{
		memPoseFile{name: "standing.json", text: text},
		memPoseFile{name: "broken.json", text: "{oops"},
		memPoseFile{name: "readme.txt", text: "not a pose"},
		memPoseFile{name: "SITTING.JSON", text: text},
	}
	deps := &ImportDeps{
		ApplyDeps: ApplyDeps{World: w},
		Gallery:   gallery,
		Notify:    notify,
	}

	imported := ImportPosePack(files, deps)

	assert.Equal(t, 2, imported)
	assert.Equal(t, "Imported 2 poses", notify.last())
	items := gallery.Items()
	require.Len(t, items, 2)
	// Newest-first: the last imported file lands at the head.
	assert.Equal(t, "SITTING", items[0].Name)
	assert.Equal(t, "standing", items[1].Name)
	for _, msg := range notify.messages {
		assert.NotContains(t, msg, "Saved:", "batch import suppresses per-file toasts")
	}
}

func TestImportPosePack_AllInvalid(t *testing.T) {
	w := newPosedWorld(t)
	notify := &recordingNotifier{}
	deps := &ImportDeps{ApplyDeps: ApplyDeps{World: w}, Notify: notify}

	imported := ImportPosePack([]PoseFile{
		memPoseFile{name: "bad.json", text: "nope"},
		memPoseFile{name: "image.png", text: ""},
	}, deps)

	assert.Zero(t, imported)
	assert.Equal(t, "No valid poses imported", notify.last())
}
