package haunted

import (
	"math"

	"github.com/df07/go-haunted-house/pkg/core"
)

const (
	GraveCount       = 50
	GraveInnerRadius = 3.5 // Graves start just outside the lawn around the house
	GraveHeight      = 0.3 // Centers sit low so stones look sunk into the ground
	GraveJitter      = 0.4 // Full width of the random Y and Z tilt, in radians
)

// GravePlacement is the transform of one grave
type GravePlacement struct {
	Angle    float64 // Around the Y axis, in [0, 2π)
	Radius   float64 // Planar distance from the origin
	Position core.Vec3
	Rotation core.Vec3
}

// PlaceGraves samples n placements in a ring from GraveInnerRadius to
// GraveInnerRadius+spread. Each grave draws four values from r, in order:
// angle, radius, Y tilt, Z tilt.
func PlaceGraves(r core.Random, spread float64, n int) []GravePlacement {
	placements := make([]GravePlacement, n)
	for i := range placements {
		angle := r.Float64() * math.Pi * 2
		radius := GraveInnerRadius + r.Float64()*spread
		x := math.Cos(angle) * radius
		z := math.Sin(angle) * radius

		placements[i] = GravePlacement{
			Angle:    angle,
			Radius:   radius,
			Position: core.NewVec3(x, GraveHeight, z),
			Rotation: core.NewVec3(0, (r.Float64()-0.5)*GraveJitter, (r.Float64()-0.5)*GraveJitter),
		}
	}
	return placements
}
