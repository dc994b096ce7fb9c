package geometry

import (
	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/material"
)

// Surface holds the per-mesh state shared by all triangles of one scene node
type Surface struct {
	Name          string
	Material      *material.Standard
	CastShadow    bool
	ReceiveShadow bool
}

// HitRecord contains information about a ray-triangle intersection
type HitRecord struct {
	T               float64   // Ray parameter of the hit
	Point           core.Vec3 // World-space hit point
	Normal          core.Vec3 // Interpolated shading normal, facing against the ray
	GeometricNormal core.Vec3 // Flat triangle normal, facing against the ray
	FrontFace       bool      // Whether the ray hit the counter-clockwise side
	UV              core.Vec2
	UV2             core.Vec2
	Tangent         core.Vec3 // World-space direction of increasing U
	Bitangent       core.Vec3 // World-space direction of increasing V
	Surface         *Surface
}

// Triangle is a world-space triangle with per-vertex attributes
type Triangle struct {
	V0, V1, V2    core.Vec3
	N0, N1, N2    core.Vec3
	UV0, UV1, UV2 core.Vec2
	// Secondary texture coordinates; equal to the primary set when the mesh has none
	SecondUV0, SecondUV1, SecondUV2 core.Vec2
	Surface                         *Surface

	normal    core.Vec3 // Cached face normal
	tangent   core.Vec3
	bitangent core.Vec3
	bbox      core.AABB
}

// NewTriangle creates a triangle with flat normals and no texture coordinates
func NewTriangle(v0, v1, v2 core.Vec3, surface *Surface) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Surface: surface}
	t.computeNormal()
	t.N0, t.N1, t.N2 = t.normal, t.normal, t.normal
	t.computeTangents()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// computeNormal calculates and caches the triangle's face normal
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// computeTangents derives the tangent frame from the UV layout
func (t *Triangle) computeTangents() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	du1, dv1 := t.UV1.X-t.UV0.X, t.UV1.Y-t.UV0.Y
	du2, dv2 := t.UV2.X-t.UV0.X, t.UV2.Y-t.UV0.Y

	det := du1*dv2 - du2*dv1
	if det > -1e-12 && det < 1e-12 {
		// Degenerate UVs: any frame perpendicular to the normal
		t.tangent = perpendicular(t.normal)
		t.bitangent = t.normal.Cross(t.tangent)
		return
	}

	r := 1.0 / det
	t.tangent = edge1.Multiply(dv2).Subtract(edge2.Multiply(dv1)).Multiply(r).Normalize()
	t.bitangent = edge2.Multiply(du1).Subtract(edge1.Multiply(du2)).Multiply(r).Normalize()
}

func perpendicular(n core.Vec3) core.Vec3 {
	if n.X > 0.9 || n.X < -0.9 {
		return n.Cross(core.NewVec3(0, 1, 0)).Normalize()
	}
	return n.Cross(core.NewVec3(1, 0, 0)).Normalize()
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	const epsilon = 1e-10

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return false
	}

	w := 1 - u - v
	rec.T = tParam
	rec.Point = ray.At(tParam)
	rec.Surface = t.Surface
	rec.UV = interpolate2(t.UV0, t.UV1, t.UV2, w, u, v)
	rec.UV2 = interpolate2(t.SecondUV0, t.SecondUV1, t.SecondUV2, w, u, v)
	rec.Tangent = t.tangent
	rec.Bitangent = t.bitangent

	shading := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	if shading.LengthSquared() == 0 {
		shading = t.normal
	}

	rec.FrontFace = ray.Direction.Dot(t.normal) < 0
	if rec.FrontFace {
		rec.GeometricNormal = t.normal
		rec.Normal = shading
	} else {
		rec.GeometricNormal = t.normal.Negate()
		rec.Normal = shading.Negate()
	}
	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// GetNormal returns the triangle's face normal
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}

func interpolate2(a, b, c core.Vec2, wa, wb, wc float64) core.Vec2 {
	return core.NewVec2(
		a.X*wa+b.X*wb+c.X*wc,
		a.Y*wa+b.Y*wb+c.Y*wc,
	)
}
