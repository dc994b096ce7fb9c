package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/material"
)

func TestTriangleHit(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
		&Surface{Name: "test"},
	)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
		frontFace bool
	}{
		{"front hit", core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1)), true, 2, true},
		{"back hit", core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1)), true, 3, false},
		{"miss outside", core.NewRay(core.NewVec3(2, 2, 2), core.NewVec3(0, 0, -1)), false, 0, false},
		{"parallel", core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0)), false, 0, false},
		{"behind origin", core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1)), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec HitRecord
			hit := tri.Hit(tt.ray, 0.001, 100, &rec)
			if hit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, hit)
			}
			if !hit {
				return
			}
			if math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.frontFace {
				t.Errorf("Expected frontFace=%v, got %v", tt.frontFace, rec.FrontFace)
			}
			if rec.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Error("Expected normal to face against the ray")
			}
			if rec.Surface == nil || rec.Surface.Name != "test" {
				t.Error("Expected surface to be carried into the hit record")
			}
		})
	}
}

func TestWorldTrianglesTransformAndUV(t *testing.T) {
	g := NewPlaneGeometry(2, 2, 1, 1)
	g.SetUV2FromUV()
	g.UV2[0] = core.NewVec2(0.25, 0.25)

	// Lay the plane flat like the floor and lift it
	world := mgl64.Translate3D(0, 1, 0).Mul4(mgl64.HomogRotate3DX(-math.Pi / 2))
	tris := g.WorldTriangles(world, &Surface{Name: "floor"})
	if len(tris) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(tris))
	}

	for _, tri := range tris {
		for _, n := range []core.Vec3{tri.N0, tri.N1, tri.N2, tri.GetNormal()} {
			if math.Abs(n.Y-1) > 1e-9 {
				t.Errorf("Expected +Y normal after rotation, got %v", n)
			}
		}
	}

	var rec HitRecord
	ray := core.NewRay(core.NewVec3(0.5, 5, 0.5), core.NewVec3(0, -1, 0))
	bvh := NewBVH(tris)
	if !bvh.Hit(ray, 0.001, 100, &rec) {
		t.Fatal("Expected ray to hit the floor")
	}
	if math.Abs(rec.T-4) > 1e-9 {
		t.Errorf("Expected t=4, got %f", rec.T)
	}
	// x=0.5 maps to u=0.75; world z=+0.5 was object y=-0.5, so v=0.25
	if math.Abs(rec.UV.X-0.75) > 1e-9 || math.Abs(rec.UV.Y-0.25) > 1e-9 {
		t.Errorf("Expected UV (0.75, 0.25), got %v", rec.UV)
	}
}

func TestWorldTrianglesDisplacement(t *testing.T) {
	m := material.NewStandard("door", core.NewVec3(1, 1, 1))
	m.DisplacementMap = material.NewImageTexture(1, 1, []core.Vec3{core.NewVec3(1, 0, 0)})
	m.DisplacementScale = 0.1

	g := NewPlaneGeometry(1, 1, 1, 1)
	tris := g.WorldTriangles(mgl64.Ident4(), &Surface{Material: m})
	for _, tri := range tris {
		if math.Abs(tri.V0.Z-0.1) > 1e-12 {
			t.Errorf("Expected vertex displaced to z=0.1, got %f", tri.V0.Z)
		}
	}

	// Not yet loaded: no displacement
	m.DisplacementMap = material.NewTexture("door/height.jpg")
	tris = g.WorldTriangles(mgl64.Ident4(), &Surface{Material: m})
	if tris[0].V0.Z != 0 {
		t.Errorf("Expected undisplaced vertex while loading, got z=%f", tris[0].V0.Z)
	}
}

func TestBVHHitMatchesLinear(t *testing.T) {
	var tris []*Triangle
	for i := 0; i < 40; i++ {
		g := NewBoxGeometry(0.5, 0.5, 0.5)
		world := mgl64.Translate3D(float64(i%8)-4, 0, float64(i/8)*2)
		tris = append(tris, g.WorldTriangles(world, &Surface{})...)
	}
	bvh := NewBVH(tris)
	if bvh.Count != len(tris) {
		t.Fatalf("Expected %d triangles in BVH, got %d", len(tris), bvh.Count)
	}

	for i := 0; i < 20; i++ {
		ray := core.NewRay(core.NewVec3(float64(i)*0.4-4, 3, float64(i%5)*2), core.NewVec3(0.05, -1, 0.02).Normalize())

		var linear HitRecord
		linearHit := false
		closest := math.Inf(1)
		for _, tri := range tris {
			if tri.Hit(ray, 0.001, closest, &linear) {
				linearHit = true
				closest = linear.T
			}
		}

		var rec HitRecord
		bvhHit := bvh.Hit(ray, 0.001, math.Inf(1), &rec)
		if bvhHit != linearHit {
			t.Fatalf("Ray %d: BVH hit=%v, linear hit=%v", i, bvhHit, linearHit)
		}
		if bvhHit && math.Abs(rec.T-closest) > 1e-9 {
			t.Errorf("Ray %d: BVH t=%f, linear t=%f", i, rec.T, closest)
		}
	}
}

func TestBVHOccludedFilter(t *testing.T) {
	caster := &Surface{Name: "wall", CastShadow: true}
	ghost := &Surface{Name: "glass"}
	tris := append(
		NewPlaneGeometry(1, 1, 1, 1).WorldTriangles(mgl64.Translate3D(0, 0, 1), ghost),
		NewPlaneGeometry(1, 1, 1, 1).WorldTriangles(mgl64.Translate3D(0, 0, 2), caster)...,
	)
	bvh := NewBVH(tris)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	castersOnly := func(rec *HitRecord) bool { return rec.Surface.CastShadow }

	if !bvh.Occluded(ray, 0.001, 10, nil) {
		t.Error("Expected unfiltered occlusion")
	}
	if !bvh.Occluded(ray, 0.001, 10, castersOnly) {
		t.Error("Expected the casting wall to occlude")
	}
	if bvh.Occluded(ray, 0.001, 1.5, castersOnly) {
		t.Error("Expected non-casting surface to be ignored")
	}
	if NewBVH(nil).Occluded(ray, 0, 10, nil) {
		t.Error("Expected empty BVH never to occlude")
	}
}
