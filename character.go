package posekit

import "github.com/go-gl/mathgl/mgl32"

// BuildCharacter assembles the fixed box-man rig under world.Root. Each
// joint is a group whose geometry is a pickable box mesh offset along the
// bone, so clicking any part of a limb resolves to the enclosing joint.
// Built once at startup; posing only ever mutates joint rotations.
func BuildCharacter(world *World) {
	hips := world.NamedJoint("hips", nil, 0, 1.0, 0)
	attachBone(hips, "pelvis", mgl32.Vec3{0, 0.02, 0}, mgl32.Vec3{0.16, 0.1, 0.1})

	spine := world.NamedJoint("spine", hips, 0, 0.14, 0)
	attachBone(spine, "belly", mgl32.Vec3{0, 0.08, 0}, mgl32.Vec3{0.14, 0.1, 0.09})

	chest := world.NamedJoint("chest", spine, 0, 0.2, 0)
	attachBone(chest, "torso", mgl32.Vec3{0, 0.1, 0}, mgl32.Vec3{0.17, 0.13, 0.1})

	neck := world.NamedJoint("neck", chest, 0, 0.26, 0)
	attachBone(neck, "neck", mgl32.Vec3{0, 0.04, 0}, mgl32.Vec3{0.045, 0.05, 0.045})

	head := world.NamedJoint("head", neck, 0, 0.1, 0)
	attachBone(head, "skull", mgl32.Vec3{0, 0.11, 0}, mgl32.Vec3{0.1, 0.12, 0.11})

	for _, side := range []struct {
		suffix string
		sign   float32
	}{{"L", 1}, {"R", -1}} {
		shoulder := world.NamedJoint("shoulder"+side.suffix, chest, side.sign*0.24, 0.2, 0)
		attachBone(shoulder, "upperArm"+side.suffix, mgl32.Vec3{0, -0.14, 0}, mgl32.Vec3{0.05, 0.15, 0.05})

		elbow := world.NamedJoint("elbow"+side.suffix, shoulder, 0, -0.3, 0)
		attachBone(elbow, "foreArm"+side.suffix, mgl32.Vec3{0, -0.13, 0}, mgl32.Vec3{0.045, 0.14, 0.045})

		wrist := world.NamedJoint("wrist"+side.suffix, elbow, 0, -0.28, 0)
		attachBone(wrist, "hand"+side.suffix, mgl32.Vec3{0, -0.06, 0}, mgl32.Vec3{0.04, 0.07, 0.025})

		hip := world.NamedJoint("hip"+side.suffix, hips, side.sign*0.1, -0.06, 0)
		attachBone(hip, "thigh"+side.suffix, mgl32.Vec3{0, -0.2, 0}, mgl32.Vec3{0.07, 0.21, 0.07})

		knee := world.NamedJoint("knee"+side.suffix, hip, 0, -0.42, 0)
		attachBone(knee, "shin"+side.suffix, mgl32.Vec3{0, -0.19, 0}, mgl32.Vec3{0.055, 0.2, 0.055})

		ankle := world.NamedJoint("ankle"+side.suffix, knee, 0, -0.4, 0)
		attachBone(ankle, "foot"+side.suffix, mgl32.Vec3{0, -0.03, 0.06}, mgl32.Vec3{0.05, 0.035, 0.12})
	}
}

func attachBone(joint *Node, name string, offset, halfExtents mgl32.Vec3) {
	mesh := NewNode(name, KindMesh)
	mesh.Pickable = true
	mesh.Position = offset
	mesh.HalfExtents = halfExtents
	joint.AddChild(mesh)
}
