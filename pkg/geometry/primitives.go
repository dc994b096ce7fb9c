package geometry

import (
	"math"

	"github.com/df07/go-haunted-house/pkg/core"
)

// NewBoxGeometry creates a box centered at the origin with the given full
// width (X), height (Y) and depth (Z). Each face carries its own [0,1] UVs.
func NewBoxGeometry(width, height, depth float64) *BufferGeometry {
	g := &BufferGeometry{Name: "box"}
	half := core.NewVec3(width/2, height/2, depth/2)

	// normal, right, up: right × up == normal keeps triangles counter-clockwise from outside
	faces := [6][3]core.Vec3{
		{core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)},  // +X
		{core.NewVec3(-1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)},  // -X
		{core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1)},  // +Y
		{core.NewVec3(0, -1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1)},  // -Y
		{core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},   // +Z
		{core.NewVec3(0, 0, -1), core.NewVec3(-1, 0, 0), core.NewVec3(0, 1, 0)}, // -Z
	}

	for _, f := range faces {
		normal, right, up := f[0], f[1], f[2]
		center := normal.MultiplyVec(half)
		g.addGrid(center, right, up, normal, extent(right, half), extent(up, half), 1, 1)
	}
	return g
}

// NewPlaneGeometry creates a plane in the XY plane facing +Z, subdivided into
// widthSegments × heightSegments quads
func NewPlaneGeometry(width, height float64, widthSegments, heightSegments int) *BufferGeometry {
	g := &BufferGeometry{Name: "plane"}
	g.addGrid(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1),
		width/2, height/2, max(1, widthSegments), max(1, heightSegments))
	return g
}

// NewConeGeometry creates a cone with its base at y=-height/2 and apex at
// y=+height/2. The first radial vertex sits on +Z, so four segments produce
// a square pyramid whose corners lie on the axes.
func NewConeGeometry(radius, height float64, radialSegments int) *BufferGeometry {
	g := &BufferGeometry{Name: "cone"}
	radialSegments = max(3, radialSegments)
	halfHeight := height / 2
	slope := radius / height

	// Side: apex ring (radius 0) and base ring
	apex := make([]int, radialSegments+1)
	base := make([]int, radialSegments+1)
	for x := 0; x <= radialSegments; x++ {
		u := float64(x) / float64(radialSegments)
		theta := u * 2 * math.Pi
		sin, cos := math.Sincos(theta)
		normal := core.NewVec3(sin, slope, cos).Normalize()

		apex[x] = g.addVertex(core.NewVec3(0, halfHeight, 0), normal, core.NewVec2(u, 1))
		base[x] = g.addVertex(core.NewVec3(radius*sin, -halfHeight, radius*cos), normal, core.NewVec2(u, 0))
	}
	for x := 0; x < radialSegments; x++ {
		g.addTriangle(base[x], base[x+1], apex[x+1])
	}

	// Base cap facing -Y
	down := core.NewVec3(0, -1, 0)
	ring := make([]int, radialSegments+1)
	for x := 0; x <= radialSegments; x++ {
		theta := float64(x) / float64(radialSegments) * 2 * math.Pi
		sin, cos := math.Sincos(theta)
		ring[x] = g.addVertex(core.NewVec3(radius*sin, -halfHeight, radius*cos), down,
			core.NewVec2(cos*0.5+0.5, sin*0.5+0.5))
	}
	for x := 0; x < radialSegments; x++ {
		center := g.addVertex(core.NewVec3(0, -halfHeight, 0), down, core.NewVec2(0.5, 0.5))
		g.addTriangle(ring[x+1], ring[x], center)
	}

	return g
}

// NewSphereGeometry creates a UV sphere centered at the origin
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *BufferGeometry {
	g := &BufferGeometry{Name: "sphere"}
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	grid := make([][]int, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		grid[iy] = make([]int, widthSegments+1)

		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi

			p := core.NewVec3(
				-radius*math.Cos(phi)*math.Sin(theta),
				radius*math.Cos(theta),
				radius*math.Sin(phi)*math.Sin(theta),
			)
			normal := p.Normalize()
			if normal == (core.Vec3{}) {
				normal = core.NewVec3(0, math.Copysign(1, p.Y), 0)
			}
			grid[iy][ix] = g.addVertex(p, normal, core.NewVec2(u, 1-v))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.addTriangle(a, b, d)
			}
			if iy != heightSegments-1 {
				g.addTriangle(b, c, d)
			}
		}
	}
	return g
}

// addGrid adds a subdivided rectangle spanning ±halfW along right and ±halfH along up
func (g *BufferGeometry) addGrid(center, right, up, normal core.Vec3, halfW, halfH float64, segW, segH int) {
	start := len(g.Positions)
	for iy := 0; iy <= segH; iy++ {
		v := float64(iy) / float64(segH)
		for ix := 0; ix <= segW; ix++ {
			u := float64(ix) / float64(segW)
			p := center.
				Add(right.Multiply((u*2 - 1) * halfW)).
				Add(up.Multiply((v*2 - 1) * halfH))
			g.addVertex(p, normal, core.NewVec2(u, v))
		}
	}

	row := segW + 1
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := start + iy*row + ix
			b := a + 1
			c := a + row + 1
			d := a + row
			g.addTriangle(a, b, c)
			g.addTriangle(a, c, d)
		}
	}
}

// extent returns the half size of a box along a unit axis
func extent(axis, half core.Vec3) float64 {
	return math.Abs(axis.X)*half.X + math.Abs(axis.Y)*half.Y + math.Abs(axis.Z)*half.Z
}
