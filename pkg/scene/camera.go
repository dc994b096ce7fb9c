package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-haunted-house/pkg/core"
)

// PerspectiveCamera is a pinhole camera looking from Position at Target
type PerspectiveCamera struct {
	Fov    float64 // Vertical field of view in degrees
	Aspect float64 // Width / height
	Near   float64
	Far    float64

	Position core.Vec3
	Target   core.Vec3
	Up       core.Vec3

	projection        mgl64.Mat4
	inverseProjection mgl64.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection after Fov, Aspect, Near or Far change
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.Fov), aspect, c.Near, c.Far)
	c.inverseProjection = c.projection.Inv()
}

// ProjectionMatrix returns the matrix computed by the last UpdateProjectionMatrix
func (c *PerspectiveCamera) ProjectionMatrix() mgl64.Mat4 {
	return c.projection
}

// LookAt points the camera at target
func (c *PerspectiveCamera) LookAt(target core.Vec3) {
	c.Target = target
}

// ViewMatrix returns the world-to-camera transform
func (c *PerspectiveCamera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position.Mgl(), c.Target.Mgl(), c.Up.Mgl())
}

// Forward returns the unit viewing direction
func (c *PerspectiveCamera) Forward() core.Vec3 {
	return c.Target.Subtract(c.Position).Normalize()
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1,
// (0,0) being the bottom-left corner
func (c *PerspectiveCamera) GetRay(s, t float64) core.Ray {
	return c.Basis().GetRay(s, t)
}

// RayBasis is a frozen copy of the camera pose for generating many rays
type RayBasis struct {
	Origin            core.Vec3
	Forward           core.Vec3
	inverseView       mgl64.Mat4
	inverseProjection mgl64.Mat4
}

// Basis captures the current pose and projection
func (c *PerspectiveCamera) Basis() RayBasis {
	return RayBasis{
		Origin:            c.Position,
		Forward:           c.Forward(),
		inverseView:       c.ViewMatrix().Inv(),
		inverseProjection: c.inverseProjection,
	}
}

// GetRay generates a ray for screen coordinates (s, t)
func (b RayBasis) GetRay(s, t float64) core.Ray {
	ndc := mgl64.Vec3{2*s - 1, 2*t - 1, 1}
	farPoint := mgl64.TransformCoordinate(ndc, b.inverseProjection)
	direction := core.TransformDirection(b.inverseView, core.Vec3FromMgl(farPoint)).Normalize()
	return core.NewRay(b.Origin, direction)
}

// ViewDepth returns the distance of p in front of the camera along the view axis
func (b RayBasis) ViewDepth(p core.Vec3) float64 {
	return p.Subtract(b.Origin).Dot(b.Forward)
}

// Project returns the normalized device coordinates of a world point
func (c *PerspectiveCamera) Project(p core.Vec3) core.Vec3 {
	vp := c.projection.Mul4(c.ViewMatrix())
	return core.Vec3FromMgl(mgl64.TransformCoordinate(p.Mgl(), vp))
}

// ViewDepth returns the distance of p in front of the camera along the view axis
func (c *PerspectiveCamera) ViewDepth(p core.Vec3) float64 {
	return p.Subtract(c.Position).Dot(c.Forward())
}
