// Package controls moves a camera around a target point in response to pointer input.
package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/scene"
)

const epsilon = 1e-6

// OrbitControls keeps the camera on a sphere around Target. Input accumulates
// into pending deltas which Update applies once per frame; with damping only a
// fraction is applied each frame and the rest decays.
type OrbitControls struct {
	Camera *scene.PerspectiveCamera
	Target core.Vec3

	EnableDamping bool
	DampingFactor float64 // Fraction of the pending motion applied per Update
	EnableZoom    bool
	EnableRotate  bool
	EnablePan     bool
	RotateSpeed   float64
	ZoomSpeed     float64
	PanSpeed      float64

	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64 // Radians from +Y
	MaxPolarAngle float64

	deltaTheta float64
	deltaPhi   float64
	scale      float64
	panOffset  core.Vec3
}

// NewOrbitControls attaches controls to camera, orbiting the origin
func NewOrbitControls(camera *scene.PerspectiveCamera) *OrbitControls {
	c := &OrbitControls{
		Camera:        camera,
		DampingFactor: 0.05,
		EnableZoom:    true,
		EnableRotate:  true,
		EnablePan:     true,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		scale:         1,
	}
	camera.LookAt(c.Target)
	return c
}

// Rotate orbits by a pointer drag of (dx, dy) pixels on a viewport of the given height.
// A drag across the full height turns a full circle.
func (c *OrbitControls) Rotate(dx, dy float64, viewportHeight int) {
	if !c.EnableRotate || viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	c.deltaTheta -= 2 * math.Pi * dx / h * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / h * c.RotateSpeed
}

// Pan moves the target with a pointer drag of (dx, dy) pixels so the point under the
// pointer follows it at the target's depth
func (c *OrbitControls) Pan(dx, dy float64, viewportHeight int) {
	if !c.EnablePan || viewportHeight <= 0 {
		return
	}
	offset := c.Camera.Position.Subtract(c.Target)
	targetDistance := offset.Length() * math.Tan(mgl64.DegToRad(c.Camera.Fov)/2)

	// Camera axes are the first two columns of the inverse view matrix
	inverseView := c.Camera.ViewMatrix().Inv()
	right := core.Vec3FromMgl(inverseView.Col(0).Vec3())
	up := core.Vec3FromMgl(inverseView.Col(1).Vec3())

	h := float64(viewportHeight)
	left := right.Multiply(-2 * dx * targetDistance / h * c.PanSpeed)
	upward := up.Multiply(2 * dy * targetDistance / h * c.PanSpeed)
	c.panOffset = c.panOffset.Add(left).Add(upward)
}

// Zoom dollies toward the target for negative deltaY (wheel up) and away for positive.
// It does nothing when zoom is disabled.
func (c *OrbitControls) Zoom(deltaY float64) {
	if !c.EnableZoom || deltaY == 0 {
		return
	}
	step := math.Pow(0.95, c.ZoomSpeed)
	if deltaY < 0 {
		c.scale *= step
	} else {
		c.scale /= step
	}
}

// Update applies pending input to the camera and reports whether it moved
func (c *OrbitControls) Update() bool {
	offset := c.Camera.Position.Subtract(c.Target)

	radius := offset.Length()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(max(-1, min(1, offset.Y/radius)))
	}

	factor := 1.0
	if c.EnableDamping {
		factor = c.DampingFactor
	}
	theta += c.deltaTheta * factor
	phi += c.deltaPhi * factor

	phi = max(c.MinPolarAngle, min(c.MaxPolarAngle, phi))
	phi = max(epsilon, min(math.Pi-epsilon, phi))

	radius *= c.scale
	radius = max(c.MinDistance, min(c.MaxDistance, radius))

	c.Target = c.Target.Add(c.panOffset.Multiply(factor))

	sinPhi := math.Sin(phi)
	newOffset := core.NewVec3(
		radius*sinPhi*math.Sin(theta),
		radius*math.Cos(phi),
		radius*sinPhi*math.Cos(theta),
	)

	previous := c.Camera.Position
	c.Camera.Position = c.Target.Add(newOffset)
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Multiply(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = core.Vec3{}
	}
	c.scale = 1

	return c.Camera.Position.Subtract(previous).LengthSquared() > epsilon*epsilon
}

// Pending reports whether undamped motion is still queued
func (c *OrbitControls) Pending() bool {
	return math.Abs(c.deltaTheta) > epsilon || math.Abs(c.deltaPhi) > epsilon ||
		c.panOffset.LengthSquared() > epsilon*epsilon || c.scale != 1
}

// Distance returns the camera's distance to the target
func (c *OrbitControls) Distance() float64 {
	return c.Camera.Position.Subtract(c.Target).Length()
}
