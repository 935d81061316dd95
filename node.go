package posekit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeKind tags what a scene node is, replacing ad hoc marker fields.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindJoint
	KindProp
	KindMesh
)

func (k NodeKind) String() string {
	switch k {
	case KindJoint:
		return "joint"
	case KindProp:
		return "prop"
	case KindMesh:
		return "mesh"
	default:
		return "group"
	}
}

// Node is a scene-graph node with a local TRS transform. Joints and props
// are groups; their visible geometry lives in KindMesh children carrying
// Pickable and a local AABB (HalfExtents).
type Node struct {
	Name     string
	Kind     NodeKind
	Pickable bool

	// Type tag, only meaningful for Kind == KindProp.
	PropType PropType

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Euler mirrors Rotation in radians for UI sliders. Both representations
	// can hold stale state after direct gizmo drags, so resets clear both.
	Euler mgl32.Vec3

	// Local box extents for mesh nodes. Zero extents means "not hittable".
	HalfExtents mgl32.Vec3
	DoubleSided bool

	parent   *Node
	children []*Node
}

func NewNode(name string, kind NodeKind) *Node {
	return &Node{
		Name:     name,
		Kind:     kind,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// AddChild attaches child to n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n. Returns false if child was not a
// direct child.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveAllChildren detaches every direct child.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = n.children[:0]
}

// Traverse visits n and all descendants depth-first in insertion order.
// Returning false from fn stops the walk.
func (n *Node) Traverse(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Traverse(fn) {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether n is anywhere under ancestor.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// ResetRotation clears both rotation representations.
func (n *Node) ResetRotation() {
	n.Euler = mgl32.Vec3{}
	n.Rotation = mgl32.QuatIdent()
}

// WorldTransform composes the TRS chain up to the root.
// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos), rotations
// multiply, scales multiply component-wise. Composing components directly
// preserves scale signs and avoids matrix-decomposition error.
func (n *Node) WorldTransform() (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	if n.parent == nil {
		return n.Position, n.Rotation, n.Scale
	}
	pp, pr, ps := n.parent.WorldTransform()

	scaledLocal := mgl32.Vec3{
		n.Position.X() * ps.X(),
		n.Position.Y() * ps.Y(),
		n.Position.Z() * ps.Z(),
	}
	pos = pp.Add(pr.Rotate(scaledLocal))
	rot = pr.Mul(n.Rotation).Normalize()
	scale = mgl32.Vec3{
		ps.X() * n.Scale.X(),
		ps.Y() * n.Scale.Y(),
		ps.Z() * n.Scale.Z(),
	}
	return pos, rot, scale
}

// WorldPosition is a convenience for WorldTransform's position component.
func (n *Node) WorldPosition() mgl32.Vec3 {
	p, _, _ := n.WorldTransform()
	return p
}

// AABB is an axis-aligned world-space box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b AABB) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }
func (b AABB) Size() mgl32.Vec3   { return b.Max.Sub(b.Min) }

func (b AABB) Diagonal() float32 { return b.Size().Len() }

func emptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

func (b AABB) extendPoint(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// WorldAABB computes the world bounding box of n's subtree by transforming
// the eight corners of every mesh box it contains. Returns an empty box if
// the subtree has no geometry.
func (n *Node) WorldAABB() AABB {
	box := emptyAABB()
	n.Traverse(func(c *Node) bool {
		he := c.HalfExtents
		if he.X() <= 0 && he.Y() <= 0 && he.Z() <= 0 {
			return true
		}
		pos, rot, scale := c.WorldTransform()
		for sx := float32(-1); sx <= 1; sx += 2 {
			for sy := float32(-1); sy <= 1; sy += 2 {
				for sz := float32(-1); sz <= 1; sz += 2 {
					corner := mgl32.Vec3{
						sx * he.X() * scale.X(),
						sy * he.Y() * scale.Y(),
						sz * he.Z() * scale.Z(),
					}
					box = box.extendPoint(pos.Add(rot.Rotate(corner)))
				}
			}
		}
		return true
	})
	return box
}
