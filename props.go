package posekit

import "github.com/go-gl/mathgl/mgl32"

// PropType tags the geometry of a freestanding prop.
type PropType string

const (
	PropCube     PropType = "cube"
	PropSphere   PropType = "sphere"
	PropCylinder PropType = "cylinder"
	PropCone     PropType = "cone"
	PropPyramid  PropType = "pyramid"
	PropTorus    PropType = "torus"
	PropRing     PropType = "ring"
	PropDisc     PropType = "disc"
	PropIcosa    PropType = "icosa"
	PropOcta     PropType = "octa"
	PropDodeca   PropType = "dodeca"
	PropTetra    PropType = "tetra"
	PropPlane    PropType = "plane"
)

// propSpec is the fixed sizing for a prop type. Half extents bound the
// geometry the renderer produces for it; flat marks thin shapes that get
// double-sided rendering and a -90 degree tilt so they lie visible by
// default.
type propSpec struct {
	halfExtents mgl32.Vec3
	flat        bool
}

var propSpecs = map[PropType]propSpec{
	PropCube:     {halfExtents: mgl32.Vec3{0.25, 0.25, 0.25}},
	PropSphere:   {halfExtents: mgl32.Vec3{0.3, 0.3, 0.3}},
	PropCylinder: {halfExtents: mgl32.Vec3{0.22, 0.3, 0.22}},
	PropCone:     {halfExtents: mgl32.Vec3{0.26, 0.3, 0.26}},
	PropPyramid:  {halfExtents: mgl32.Vec3{0.26, 0.26, 0.26}},
	PropTorus:    {halfExtents: mgl32.Vec3{0.34, 0.34, 0.1}},
	PropRing:     {halfExtents: mgl32.Vec3{0.34, 0.34, 0.01}, flat: true},
	PropDisc:     {halfExtents: mgl32.Vec3{0.32, 0.32, 0.01}, flat: true},
	PropIcosa:    {halfExtents: mgl32.Vec3{0.3, 0.3, 0.3}},
	PropOcta:     {halfExtents: mgl32.Vec3{0.3, 0.3, 0.3}},
	PropDodeca:   {halfExtents: mgl32.Vec3{0.3, 0.3, 0.3}},
	PropTetra:    {halfExtents: mgl32.Vec3{0.3, 0.3, 0.3}},
	PropPlane:    {halfExtents: mgl32.Vec3{0.3, 0.3, 0.01}, flat: true},
}

// PropTypes lists every valid prop type in a fixed order.
func PropTypes() []PropType {
	return []PropType{
		PropCube, PropSphere, PropCylinder, PropCone, PropPyramid,
		PropTorus, PropRing, PropDisc, PropIcosa, PropOcta,
		PropDodeca, PropTetra, PropPlane,
	}
}

// NewPropGroup builds a prop group with a pickable mesh child for the given
// type. Unknown types fall back to cube.
func NewPropGroup(typ PropType, name string) *Node {
	spec, ok := propSpecs[typ]
	if !ok {
		typ = PropCube
		spec = propSpecs[PropCube]
	}
	if name == "" {
		name = string(typ)
	}

	group := NewNode(name, KindProp)
	group.PropType = typ

	mesh := NewNode(name+".mesh", KindMesh)
	mesh.Pickable = true
	mesh.HalfExtents = spec.halfExtents
	if spec.flat {
		mesh.DoubleSided = true
		mesh.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0})
	}
	group.AddChild(mesh)
	return group
}
