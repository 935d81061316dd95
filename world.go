package posekit

import "github.com/go-gl/mathgl/mgl32"

// World holds the character rig and the freestanding props. The rig hangs
// under Root; props attach directly to Scene as siblings of Root, never
// nested under it. Joints and Props are the source of truth for iteration
// order used by serialization.
type World struct {
	Scene  *Node
	Root   *Node
	Joints []*Node
	Props  []*Node
}

func NewWorld() *World {
	scene := NewNode("scene", KindGroup)
	root := NewNode("root", KindGroup)
	scene.AddChild(root)
	return &World{Scene: scene, Root: root}
}

// Reset clears the rig subtree, detaches every prop from the scene and
// empties both registries.
func (w *World) Reset() {
	w.Root.RemoveAllChildren()
	w.Joints = w.Joints[:0]
	for _, p := range w.Props {
		w.Scene.RemoveChild(p)
	}
	w.Props = w.Props[:0]
}

// NamedJoint creates a joint group at the given local offset, attaches it to
// parent (Root when nil) and registers it. Registration order is the
// serialization order; names are unique by convention, not enforced.
func (w *World) NamedJoint(name string, parent *Node, x, y, z float32) *Node {
	j := NewNode(name, KindJoint)
	j.Position = mgl32.Vec3{x, y, z}
	if parent == nil {
		parent = w.Root
	}
	parent.AddChild(j)
	w.Joints = append(w.Joints, j)
	return j
}

// FindJoint returns the first joint with the given name, or nil.
func (w *World) FindJoint(name string) *Node {
	for _, j := range w.Joints {
		if j.Name == name {
			return j
		}
	}
	return nil
}

// ResetAllJointRotations puts every joint back at identity. Both the Euler
// and quaternion representations are cleared; either can hold stale state.
func (w *World) ResetAllJointRotations() {
	for _, j := range w.Joints {
		j.ResetRotation()
	}
}

// CollectPickables returns every pickable node under Root plus every
// pickable node under each prop, in scene order.
func (w *World) CollectPickables() []*Node {
	var out []*Node
	collect := func(n *Node) bool {
		if n.Pickable {
			out = append(out, n)
		}
		return true
	}
	w.Root.Traverse(collect)
	for _, p := range w.Props {
		p.Traverse(collect)
	}
	return out
}

// AddProp attaches the prop group to the scene and registers it. Membership
// in Props and scene attachment always move together.
func (w *World) AddProp(p *Node) {
	if p == nil || p.Kind != KindProp {
		return
	}
	w.Scene.AddChild(p)
	w.Props = append(w.Props, p)
}

// SpawnProp creates, attaches and registers a prop of the given type.
func (w *World) SpawnProp(typ PropType, name string) *Node {
	p := NewPropGroup(typ, name)
	w.AddProp(p)
	return p
}

// RemoveProp detaches the prop from the scene and unregisters it. Returns
// false if the prop was not registered.
func (w *World) RemoveProp(p *Node) bool {
	for i, q := range w.Props {
		if q == p {
			w.Props = append(w.Props[:i], w.Props[i+1:]...)
			w.Scene.RemoveChild(p)
			return true
		}
	}
	return false
}

// ClearProps removes every prop from the scene and the registry.
func (w *World) ClearProps() {
	for _, p := range w.Props {
		w.Scene.RemoveChild(p)
	}
	w.Props = w.Props[:0]
}
