package posekit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// PoseVersion is written into every serialized pose. Readers tolerate an
// absent or different version and only ever branch on document shape.
const PoseVersion = 1

var (
	ErrInvalidPose  = errors.New("invalid pose")
	ErrMissingWorld = errors.New("pose apply requires a world")
)

// Pose is the portable JSON pose document.
type Pose struct {
	Version int       `json:"version"`
	Notes   string    `json:"notes"`
	Joints  *JointMap `json:"joints,omitempty"`
	Props   []PropPose `json:"props"`
	SavedAt string    `json:"savedAt"`
}

// PropPose is one serialized prop transform. The prop's geometry type is
// not stored; reload infers it from the name (see ApplyPose).
type PropPose struct {
	Name       string     `json:"name"`
	Position   [3]float32 `json:"position"`
	Quaternion [4]float32 `json:"quaternion"`
	Scale      [3]float32 `json:"scale"`
}

// JointMap is an insertion-ordered mapping from joint name to rotation
// quaternion [x,y,z,w]. Plain Go maps marshal with sorted keys; the pose
// format keeps the rig's creation order, so JSON round-tripping is custom.
type JointMap struct {
	names []string
	rots  map[string][4]float32
}

func NewJointMap() *JointMap {
	return &JointMap{rots: make(map[string][4]float32)}
}

func (m *JointMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

func (m *JointMap) Names() []string {
	if m == nil {
		return nil
	}
	return m.names
}

func (m *JointMap) Get(name string) ([4]float32, bool) {
	if m == nil {
		return [4]float32{}, false
	}
	q, ok := m.rots[name]
	return q, ok
}

func (m *JointMap) Set(name string, q [4]float32) {
	if _, exists := m.rots[name]; !exists {
		m.names = append(m.names, name)
	}
	m.rots[name] = q
}

func (m *JointMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.rots[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads keys in document order. Entries whose value is not a
// 4-element number array are dropped; apply must never see them.
func (m *JointMap) UnmarshalJSON(data []byte) error {
	m.names = nil
	m.rots = make(map[string][4]float32)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: joints is not an object", ErrInvalidPose)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var vals []float32
		if err := json.Unmarshal(raw, &vals); err != nil || len(vals) != 4 {
			continue
		}
		m.Set(name, [4]float32{vals[0], vals[1], vals[2], vals[3]})
	}
	_, err = dec.Token() // closing brace
	return err
}

// SerializePose captures the world's joint rotations and prop transforms.
// Joint keys follow World.Joints order; props follow World.Props order.
func SerializePose(world *World, notes string) (*Pose, error) {
	if world == nil {
		return nil, ErrMissingWorld
	}

	joints := NewJointMap()
	for _, j := range world.Joints {
		q := j.Rotation
		joints.Set(j.Name, [4]float32{q.V[0], q.V[1], q.V[2], q.W})
	}

	props := make([]PropPose, 0, len(world.Props))
	for _, p := range world.Props {
		q := p.Rotation
		props = append(props, PropPose{
			Name:       p.Name,
			Position:   [3]float32{p.Position[0], p.Position[1], p.Position[2]},
			Quaternion: [4]float32{q.V[0], q.V[1], q.V[2], q.W},
			Scale:      [3]float32{p.Scale[0], p.Scale[1], p.Scale[2]},
		})
	}

	return &Pose{
		Version: PoseVersion,
		Notes:   notes,
		Joints:  joints,
		Props:   props,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ParsePose decodes a pose document from JSON text.
func ParsePose(text string) (*Pose, error) {
	var p Pose
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPose, err)
	}
	return &p, nil
}

// EncodePose renders a pose document as indented JSON.
func EncodePose(p *Pose) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// ApplyDeps carries the collaborators a pose apply mutates.
type ApplyDeps struct {
	World *World

	// NewProp builds prop groups during the rebuild; defaults to
	// NewPropGroup.
	NewProp func(typ PropType, name string) *Node

	// OnPropRemoved runs before each prop is destroyed so weak references
	// (the selection) can be cleared.
	OnPropRemoved func(*Node)

	RefreshOutline func()
	RenderOnce     func()
}

func (d *ApplyDeps) validate() error {
	if d == nil || d.World == nil || d.World.Scene == nil {
		return ErrMissingWorld
	}
	return nil
}

func (d *ApplyDeps) newProp(typ PropType, name string) *Node {
	if d.NewProp != nil {
		return d.NewProp(typ, name)
	}
	return NewPropGroup(typ, name)
}

func (d *ApplyDeps) finish() {
	if d.RefreshOutline != nil {
		d.RefreshOutline()
	}
	if d.RenderOnce != nil {
		d.RenderOnce()
	}
}

// ApplyPose applies a full pose document. Joints apply partially: entries
// matching a World joint overwrite its quaternion, unknown names are
// ignored, and World joints absent from the document keep their current
// rotation. Props are rebuilt destructively: every live prop is removed,
// then each document entry is recreated and overwritten with its saved
// transform.
//
// The document stores no prop geometry type, so the rebuild falls back to
// the legacy name inference: a name containing "cube" loads as a cube,
// anything else as a sphere. Saved torus or ring props therefore reload as
// spheres; preserved as-is for pose-file compatibility.
func ApplyPose(data *Pose, deps *ApplyDeps) error {
	if err := deps.validate(); err != nil {
		return err
	}
	if data == nil || data.Joints == nil {
		return ErrInvalidPose
	}

	applyJoints(data.Joints, deps.World)

	world := deps.World
	for _, p := range append([]*Node(nil), world.Props...) {
		if deps.OnPropRemoved != nil {
			deps.OnPropRemoved(p)
		}
		world.RemoveProp(p)
	}
	for _, pp := range data.Props {
		typ := PropSphere
		if strings.Contains(strings.ToLower(pp.Name), "cube") {
			typ = PropCube
		}
		prop := deps.newProp(typ, pp.Name)
		prop.Name = pp.Name
		prop.Position = mgl32.Vec3(pp.Position)
		prop.Rotation = quatFromArray(pp.Quaternion)
		prop.Scale = mgl32.Vec3(pp.Scale)
		world.AddProp(prop)
	}

	deps.finish()
	return nil
}

// ApplyPoseJointsOnly resets every joint to identity, then applies the
// document's matching entries. Returns how many joints matched; the caller
// decides the notification for a zero count.
func ApplyPoseJointsOnly(data *Pose, deps *ApplyDeps) (int, error) {
	if err := deps.validate(); err != nil {
		return 0, err
	}
	if data == nil || data.Joints == nil {
		return 0, fmt.Errorf("%w: no joints map", ErrInvalidPose)
	}

	deps.World.ResetAllJointRotations()
	matched := applyJoints(data.Joints, deps.World)

	deps.finish()
	return matched, nil
}

func applyJoints(joints *JointMap, world *World) int {
	matched := 0
	for _, name := range joints.Names() {
		j := world.FindJoint(name)
		if j == nil {
			continue
		}
		q, _ := joints.Get(name)
		j.Rotation = quatFromArray(q)
		matched++
	}
	return matched
}

func quatFromArray(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}

// PoseFile is one importable file: a name and lazily read text content.
type PoseFile interface {
	Name() string
	Text() (string, error)
}

// OSPoseFile reads a pose file from disk.
type OSPoseFile struct {
	Path string
}

func (f OSPoseFile) Name() string { return filepath.Base(f.Path) }

func (f OSPoseFile) Text() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ImportDeps extends ApplyDeps with the gallery and notification sinks the
// batch import reports through.
type ImportDeps struct {
	ApplyDeps
	Gallery *Gallery
	Log     Logger
	Notify  Notifier
}

// ImportPosePack imports a batch of pose files sequentially. Files not
// ending in .json are skipped; each valid file is parsed, applied (so the
// thumbnail captured for it reflects that pose) and saved to the gallery
// under its filename without a per-file toast. A single file's failure is
// logged and the batch continues. One summary notification fires at the
// end; the imported count is returned.
func ImportPosePack(files []PoseFile, deps *ImportDeps) int {
	log := orNopLogger(deps.Log)
	notify := orLogNotifier(deps.Notify, deps.Log)

	imported := 0
	for _, f := range files {
		name := f.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}

		text, err := f.Text()
		if err != nil {
			log.Warnf("pose import: read %s: %v", name, err)
			continue
		}
		pose, err := ParsePose(text)
		if err != nil {
			log.Warnf("pose import: parse %s: %v", name, err)
			continue
		}
		if err := ApplyPose(pose, &deps.ApplyDeps); err != nil {
			log.Warnf("pose import: apply %s: %v", name, err)
			continue
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		if deps.Gallery != nil {
			deps.Gallery.SaveCurrentPose(base, false)
		}
		imported++
	}

	if deps.Gallery != nil {
		deps.Gallery.Render()
	}
	if imported > 0 {
		notify.Notify(fmt.Sprintf("Imported %d poses", imported), defaultToastDuration)
	} else {
		notify.Notify("No valid poses imported", defaultToastDuration)
	}
	return imported
}
