package geometry

import (
	"github.com/df07/go-haunted-house/pkg/core"
)

// BufferGeometry is an indexed triangle list in object space with per-vertex
// normals and up to two texture coordinate sets
type BufferGeometry struct {
	Name      string
	Positions []core.Vec3
	Normals   []core.Vec3
	UVs       []core.Vec2 // Primary texture coordinates
	UV2       []core.Vec2 // Secondary coordinates, sampled by ambient occlusion maps
	Indices   []int       // Three indices per triangle
}

// VertexCount returns the number of vertices
func (g *BufferGeometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles
func (g *BufferGeometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// SetUV2FromUV duplicates the primary UV set into the secondary set
func (g *BufferGeometry) SetUV2FromUV() {
	g.UV2 = make([]core.Vec2, len(g.UVs))
	copy(g.UV2, g.UVs)
}

// HasUV2 reports whether a complete secondary UV set is present
func (g *BufferGeometry) HasUV2() bool {
	return len(g.UV2) > 0 && len(g.UV2) == len(g.Positions)
}

// BoundingBox returns the object-space bounds of all vertices
func (g *BufferGeometry) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(g.Positions...)
}

// Translate moves every vertex by offset
func (g *BufferGeometry) Translate(offset core.Vec3) {
	for i := range g.Positions {
		g.Positions[i] = g.Positions[i].Add(offset)
	}
}

// Merge appends other's vertices and triangles, offset by the given translation
func (g *BufferGeometry) Merge(other *BufferGeometry, offset core.Vec3) {
	base := len(g.Positions)
	for i, p := range other.Positions {
		g.Positions = append(g.Positions, p.Add(offset))
		g.Normals = append(g.Normals, other.Normals[i])
		g.UVs = append(g.UVs, other.UVs[i])
	}
	if other.HasUV2() {
		g.UV2 = append(g.UV2, other.UV2...)
	}
	for _, idx := range other.Indices {
		g.Indices = append(g.Indices, base+idx)
	}
}

// addVertex appends a vertex and returns its index
func (g *BufferGeometry) addVertex(p, n core.Vec3, uv core.Vec2) int {
	g.Positions = append(g.Positions, p)
	g.Normals = append(g.Normals, n)
	g.UVs = append(g.UVs, uv)
	return len(g.Positions) - 1
}

// addTriangle appends one triangle
func (g *BufferGeometry) addTriangle(a, b, c int) {
	g.Indices = append(g.Indices, a, b, c)
}
