package posekit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. Target is where it looks; the orbit
// controller keeps Position on a sphere around it.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FovDeg float32
	Near   float32
	Far    float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{2.2, 1.8, 2.2},
		Target:   mgl32.Vec3{0, 1, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		FovDeg:   50,
		Near:     0.1,
		Far:      100,
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	if height <= 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(mgl32.DegToRad(c.FovDeg), aspect, c.Near, c.Far)
}

// ScreenRay unprojects a viewport-local pixel position into a world-space
// ray through the camera. x/y are in pixels relative to the viewport's
// top-left corner.
func (c *Camera) ScreenRay(x, y float64, width, height int) Ray {
	if width <= 0 || height <= 0 {
		return Ray{Origin: c.Position, Dir: c.Target.Sub(c.Position).Normalize()}
	}

	// Pixel to normalized device coordinates, y flipped.
	ndcX := float32(2*x/float64(width) - 1)
	ndcY := float32(1 - 2*y/float64(height))

	inv := c.ProjectionMatrix(width, height).Mul4(c.ViewMatrix()).Inv()

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	nearP := near.Vec3().Mul(1 / near.W())
	farP := far.Vec3().Mul(1 / far.W())

	return Ray{Origin: nearP, Dir: farP.Sub(nearP).Normalize()}
}

// OrbitController moves the camera on a sphere around Target. Enabled is
// driven by the ModesController; a disabled controller ignores input but
// Update still syncs the camera to the current spherical coordinates.
type OrbitController struct {
	Enabled bool
	Target  mgl32.Vec3

	camera    *Camera
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	maxElevation float32
}

func NewOrbitController(camera *Camera) *OrbitController {
	oc := &OrbitController{
		Enabled:      true,
		Target:       camera.Target,
		camera:       camera,
		minRadius:    0.5,
		maxRadius:    30,
		maxElevation: mgl32.DegToRad(89),
	}
	oc.SyncFromCamera()
	return oc
}

// SyncFromCamera recomputes the spherical coordinates from the camera's
// current position, so external position writes (focus-selection) stick.
func (oc *OrbitController) SyncFromCamera() {
	offset := oc.camera.Position.Sub(oc.Target)
	oc.radius = offset.Len()
	if oc.radius < 1e-5 {
		oc.radius = oc.minRadius
	}
	oc.azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	oc.elevation = float32(math.Asin(float64(offset.Y() / oc.radius)))
}

// Rotate applies a pointer delta to the spherical angles. Ignored while
// disabled.
func (oc *OrbitController) Rotate(dx, dy float32) {
	if !oc.Enabled {
		return
	}
	const sensitivity = 0.008
	oc.azimuth -= dx * sensitivity
	oc.elevation += dy * sensitivity
	oc.elevation = mgl32.Clamp(oc.elevation, -oc.maxElevation, oc.maxElevation)
}

// Zoom scales the orbit radius; positive delta moves away from the target.
func (oc *OrbitController) Zoom(delta float32) {
	if !oc.Enabled {
		return
	}
	oc.radius = mgl32.Clamp(oc.radius*(1+delta*0.1), oc.minRadius, oc.maxRadius)
}

// Update writes the spherical coordinates back into the camera. Called once
// per frame.
func (oc *OrbitController) Update() {
	cosE := float32(math.Cos(float64(oc.elevation)))
	offset := mgl32.Vec3{
		float32(math.Sin(float64(oc.azimuth))) * cosE * oc.radius,
		float32(math.Sin(float64(oc.elevation))) * oc.radius,
		float32(math.Cos(float64(oc.azimuth))) * cosE * oc.radius,
	}
	oc.camera.Position = oc.Target.Add(offset)
	oc.camera.Target = oc.Target
}
