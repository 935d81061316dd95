package posekit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Preset is a built-in, immutable joint-only pose.
type Preset struct {
	ID   string
	Name string
	Pose *Pose
}

// aa builds a [x,y,z,w] quaternion from an axis-angle in degrees.
func aa(deg float32, x, y, z float32) [4]float32 {
	q := mgl32.QuatRotate(mgl32.DegToRad(deg), mgl32.Vec3{x, y, z}.Normalize())
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

func jointPose(entries ...struct {
	name string
	rot  [4]float32
}) *Pose {
	m := NewJointMap()
	for _, e := range entries {
		m.Set(e.name, e.rot)
	}
	return &Pose{Version: PoseVersion, Joints: m}
}

type je = struct {
	name string
	rot  [4]float32
}

// BuiltinPresets returns the fixed preset list. The rig's rest pose has the
// arms hanging down, so the T-pose lifts the shoulders out to the sides.
func BuiltinPresets() []Preset {
	return []Preset{
		{
			ID:   "t-pose",
			Name: "T-Pose",
			Pose: jointPose(
				je{"shoulderL", aa(-90, 0, 0, 1)},
				je{"shoulderR", aa(90, 0, 0, 1)},
			),
		},
		{
			ID:   "a-pose",
			Name: "A-Pose",
			Pose: jointPose(
				je{"shoulderL", aa(-40, 0, 0, 1)},
				je{"shoulderR", aa(40, 0, 0, 1)},
			),
		},
		{
			ID:   "wave",
			Name: "Wave",
			Pose: jointPose(
				je{"shoulderR", aa(160, 0, 0, 1)},
				je{"elbowR", aa(-30, 0, 0, 1)},
				je{"head", aa(12, 0, 0, 1)},
			),
		},
		{
			ID:   "point",
			Name: "Point",
			Pose: jointPose(
				je{"shoulderR", aa(90, 1, 0, 0)},
				je{"chest", aa(15, 0, 1, 0)},
			),
		},
		{
			ID:   "sit",
			Name: "Sit",
			Pose: jointPose(
				je{"hipL", aa(-90, 1, 0, 0)},
				je{"hipR", aa(-90, 1, 0, 0)},
				je{"kneeL", aa(90, 1, 0, 0)},
				je{"kneeR", aa(90, 1, 0, 0)},
				je{"spine", aa(8, 1, 0, 0)},
			),
		},
		{
			ID:   "run",
			Name: "Run",
			Pose: jointPose(
				je{"shoulderL", aa(50, 1, 0, 0)},
				je{"elbowL", aa(70, 1, 0, 0)},
				je{"shoulderR", aa(-50, 1, 0, 0)},
				je{"elbowR", aa(70, 1, 0, 0)},
				je{"hipL", aa(-45, 1, 0, 0)},
				je{"kneeL", aa(60, 1, 0, 0)},
				je{"hipR", aa(30, 1, 0, 0)},
				je{"kneeR", aa(20, 1, 0, 0)},
				je{"spine", aa(10, 1, 0, 0)},
			),
		},
	}
}

// Presets drives the preset selection and apply/save flow.
type Presets struct {
	Log    Logger
	Notify Notifier

	// AutoApply applies a preset as soon as it is selected.
	AutoApply bool

	Deps    *ApplyDeps
	Gallery *Gallery

	list       []Preset
	selectedID string
}

func NewPresets(log Logger, notify Notifier, deps *ApplyDeps, gallery *Gallery) *Presets {
	return &Presets{
		Log:       orNopLogger(log),
		Notify:    orLogNotifier(notify, log),
		AutoApply: true,
		Deps:      deps,
		Gallery:   gallery,
		list:      BuiltinPresets(),
	}
}

func (p *Presets) List() []Preset     { return p.list }
func (p *Presets) SelectedID() string { return p.selectedID }

func (p *Presets) find(id string) *Preset {
	for i := range p.list {
		if p.list[i].ID == id {
			return &p.list[i]
		}
	}
	return nil
}

// Select picks a preset; with AutoApply on it is applied immediately.
func (p *Presets) Select(id string) {
	preset := p.find(id)
	if preset == nil {
		return
	}
	p.selectedID = id
	if p.AutoApply {
		p.apply(preset)
	}
}

// Apply applies the currently selected preset.
func (p *Presets) Apply() {
	preset := p.find(p.selectedID)
	if preset == nil {
		p.Notify.Notify("Select a preset first", defaultToastDuration)
		return
	}
	p.apply(preset)
}

// SaveToGallery applies the selected preset and snapshots it to the gallery
// under the preset's name.
func (p *Presets) SaveToGallery() {
	preset := p.find(p.selectedID)
	if preset == nil {
		p.Notify.Notify("Select a preset first", defaultToastDuration)
		return
	}
	if !p.apply(preset) {
		return
	}
	if p.Gallery != nil {
		p.Gallery.SaveCurrentPose(preset.Name, true)
	}
}

func (p *Presets) apply(preset *Preset) bool {
	matched, err := ApplyPoseJointsOnly(preset.Pose, p.Deps)
	if err != nil {
		p.Log.Errorf("preset %s: %v", preset.ID, err)
		p.Notify.Notify("Could not apply preset", defaultToastDuration)
		return false
	}
	if matched == 0 {
		p.Notify.Notify("No matching joints", defaultToastDuration)
		return false
	}
	p.Notify.Notify(fmt.Sprintf("%s (%d joints)", preset.Name, matched), defaultToastDuration)
	return true
}
