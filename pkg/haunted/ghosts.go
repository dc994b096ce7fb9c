package haunted

import (
	"math"

	"github.com/df07/go-haunted-house/pkg/core"
)

// Ghost light parameters
const (
	GhostIntensity = 2
	GhostDistance  = 3
)

// GhostColors are the colors of the three ghost lights
var GhostColors = [3]string{"#ff00ff", "#00ffff", "#ffff00"}

// Ghost1Position circles at radius 4, bobbing once every ~2 seconds
func Ghost1Position(t float64) core.Vec3 {
	angle := t * 0.5
	return core.NewVec3(math.Cos(angle)*4, math.Sin(t*3), math.Sin(angle)*4)
}

// Ghost2Position circles backwards at radius 5
func Ghost2Position(t float64) core.Vec3 {
	angle := -t * 0.32
	return core.NewVec3(math.Cos(angle)*5, math.Sin(t*4)+math.Sin(t*2.5), math.Sin(angle)*5)
}

// Ghost3Position circles backwards with a radius wobbling between 6 and 8
func Ghost3Position(t float64) core.Vec3 {
	angle := -t * 0.18
	return core.NewVec3(
		math.Cos(angle)*(7+math.Sin(t*0.32)),
		math.Sin(t*5)+math.Sin(t*2),
		math.Sin(angle)*(7+math.Sin(t*0.5)),
	)
}

// GhostPositions returns all three ghost positions at elapsed time t
func GhostPositions(t float64) [3]core.Vec3 {
	return [3]core.Vec3{Ghost1Position(t), Ghost2Position(t), Ghost3Position(t)}
}
