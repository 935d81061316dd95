package posekit

import "github.com/go-gl/mathgl/mgl32"

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// RaycastHit reports the nearest intersected node and the world-space
// distance along the ray.
type RaycastHit struct {
	Hit  bool
	Node *Node
	T    float32
}

// intersectNode tests the ray against the node's oriented box by taking the
// ray into node-local space. The direction is not renormalized after the
// inverse transform, so the returned t stays in world units even under
// scale.
func intersectNode(ray Ray, n *Node) (float32, bool) {
	he := n.HalfExtents
	if he.X() <= 0 && he.Y() <= 0 && he.Z() <= 0 {
		return 0, false
	}

	pos, rot, scale := n.WorldTransform()
	invRot := rot.Conjugate()

	localOrigin := invRot.Rotate(ray.Origin.Sub(pos))
	localDir := invRot.Rotate(ray.Dir)
	for i := 0; i < 3; i++ {
		s := scale[i]
		if s > -1e-8 && s < 1e-8 {
			s = 1e-8
		}
		localOrigin[i] /= s
		localDir[i] /= s
	}

	return slabTest(localOrigin, localDir, he)
}

// slabTest intersects a ray with the box [-he, he]. Degenerate direction
// components are clamped away from zero so axis-parallel rays do not divide
// by zero.
func slabTest(origin, dir, he mgl32.Vec3) (float32, bool) {
	tMin := float32(-3.4e38)
	tMax := float32(3.4e38)

	for i := 0; i < 3; i++ {
		d := dir[i]
		if d > -1e-9 && d < 1e-9 {
			if origin[i] < -he[i] || origin[i] > he[i] {
				return 0, false
			}
			continue
		}
		t1 := (-he[i] - origin[i]) / d
		t2 := (he[i] - origin[i]) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return tMax, true
	}
	return tMin, true
}

// Raycast intersects the ray against the candidate nodes and returns the
// nearest hit. An empty result is "no selection", not an error.
func Raycast(ray Ray, candidates []*Node) RaycastHit {
	best := RaycastHit{}
	for _, n := range candidates {
		t, ok := intersectNode(ray, n)
		if !ok {
			continue
		}
		if !best.Hit || t < best.T {
			best = RaycastHit{Hit: true, Node: n, T: t}
		}
	}
	return best
}
