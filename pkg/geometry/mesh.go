package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-haunted-house/pkg/core"
)

// WorldTriangles transforms the geometry by world and returns one triangle per
// index triple. When the surface material carries a loaded displacement map,
// each vertex is first pushed along its object-space normal.
func (g *BufferGeometry) WorldTriangles(world mgl64.Mat4, surface *Surface) []*Triangle {
	normalMatrix := world.Mat3().Inv().Transpose()
	hasUV2 := g.HasUV2()

	positions := make([]core.Vec3, len(g.Positions))
	normals := make([]core.Vec3, len(g.Normals))
	for i, p := range g.Positions {
		n := g.Normals[i]
		if surface != nil && surface.Material != nil {
			if d, ok := surface.Material.Displacement(g.UVs[i]); ok {
				p = p.Add(n.Multiply(d))
			}
		}
		positions[i] = core.TransformPoint(world, p)
		normals[i] = core.Vec3FromMgl(normalMatrix.Mul3x1(n.Mgl())).Normalize()
	}

	triangles := make([]*Triangle, 0, g.TriangleCount())
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]

		t := &Triangle{
			V0: positions[a], V1: positions[b], V2: positions[c],
			N0: normals[a], N1: normals[b], N2: normals[c],
			UV0: g.UVs[a], UV1: g.UVs[b], UV2: g.UVs[c],
			Surface: surface,
		}
		if hasUV2 {
			t.SecondUV0, t.SecondUV1, t.SecondUV2 = g.UV2[a], g.UV2[b], g.UV2[c]
		} else {
			t.SecondUV0, t.SecondUV1, t.SecondUV2 = t.UV0, t.UV1, t.UV2
		}

		t.computeNormal()
		// Zero-area triangles (sphere poles, collapsed cone apex) never hit
		if t.normal.LengthSquared() == 0 {
			continue
		}
		t.computeTangents()
		t.bbox = core.NewAABBFromPoints(t.V0, t.V1, t.V2)
		triangles = append(triangles, t)
	}
	return triangles
}
