// Package camera provides a camera for driving culling passes.
package camera

import (
	gomath "math"

	"github.com/Faultbox/viscull/pkg/math"
)

// OrbitCamera orbits around a center point and carries the projection
// parameters a culling pass needs.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection
	FOV            float32 // Vertical field of view, radians
	Aspect         float32 // Width / height
	Near           float32
	Far            float32
	ViewportHeight float32 // Pixels
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:       200.0,
		RotationX:      0.5,
		RotationY:      0.0,
		MinDistance:    50.0,
		MaxDistance:    5000.0,
		MinPitch:       0.1,
		MaxPitch:       1.5,
		FOV:            float32(gomath.Pi / 3),
		Aspect:         16.0 / 9.0,
		Near:           1.0,
		Far:            5000.0,
		ViewportHeight: 720,
	}
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
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Orbit rotates the camera around its center.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.RotationY += deltaYaw
	c.RotationX += deltaPitch

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// Zoom changes the distance from the center, clamped to the constraints.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance -= delta * c.Distance * 0.1
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(center math.Vec3) {
	c.Center = center
}
