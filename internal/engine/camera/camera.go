// Package camera provides the orbit camera used to inspect a loaded model.
package camera

import (
	gomath "math"

	"github.com/Faultbox/roboview/pkg/math"
)

// OrbitCamera orbits around a center point with smoothed motion: drag and
// zoom input moves targets, Advance eases the camera toward them.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Input targets, eased toward by Advance
	targetDistance  float32
	targetRotationX float32
	targetRotationY float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FovY float32
	Near float32
	Far  float32
}

// NewOrbitCamera creates an orbit camera with model-viewer defaults.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:        3.0,
		RotationX:       0.45,
		RotationY:       0.6,
		MinDistance:     0.05,
		MaxDistance:     500.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            0.785398, // 45 degrees
		Near:            0.01,
		Far:             1000.0,
	}
	c.targetDistance = c.Distance
	c.targetRotationX = c.RotationX
	c.targetRotationY = c.RotationY
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for the given aspect.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation targets based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.targetRotationY -= deltaX * c.DragSensitivity
	c.targetRotationX += deltaY * c.DragSensitivity

	if c.targetRotationX < c.MinPitch {
		c.targetRotationX = c.MinPitch
	}
	if c.targetRotationX > c.MaxPitch {
		c.targetRotationX = c.MaxPitch
	}
}

// HandleZoom updates the distance target based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.targetDistance -= delta * c.targetDistance * c.ZoomSensitivity
	if c.targetDistance < c.MinDistance {
		c.targetDistance = c.MinDistance
	}
	if c.targetDistance > c.MaxDistance {
		c.targetDistance = c.MaxDistance
	}
}

// SetCenterY moves the orbit pivot vertically without disturbing the
// horizontal orbit position.
func (c *OrbitCamera) SetCenterY(y float32) {
	c.Center.Y = y
}

// FitSphere frames a bounding sphere: center on it and back off far
// enough that the whole sphere fits in the vertical field of view.
func (c *OrbitCamera) FitSphere(center math.Vec3, radius float32) {
	c.Center = center

	if radius <= 0 {
		radius = 1
	}
	dist := radius / float32(gomath.Sin(float64(c.FovY/2)))
	c.Distance = dist
	c.targetDistance = dist
}

// Advance eases the camera toward its input targets. Returns true while
// the camera is still moving, so the caller can keep redrawing.
func (c *OrbitCamera) Advance(dt float32) bool {
	const smoothing = 12.0 // higher = snappier
	const settled = 1e-4

	t := 1 - float32(gomath.Exp(float64(-smoothing*dt)))
	if t <= 0 || t > 1 {
		t = 1
	}

	dd := c.targetDistance - c.Distance
	dx := c.targetRotationX - c.RotationX
	dy := c.targetRotationY - c.RotationY

	if abs(dd) < settled && abs(dx) < settled && abs(dy) < settled {
		c.Distance = c.targetDistance
		c.RotationX = c.targetRotationX
		c.RotationY = c.targetRotationY
		return false
	}

	c.Distance += dd * t
	c.RotationX += dx * t
	c.RotationY += dy * t
	return true
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
