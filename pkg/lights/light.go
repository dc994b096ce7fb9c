package lights

import (
	"math"

	"github.com/df07/go-haunted-house/pkg/core"
)

// LightType identifies how a light illuminates a surface
type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
)

// DefaultDecay is the exponent of the point light falloff curve
const DefaultDecay = 2.0

// ShadowConfig describes how a light's shadow is resolved
type ShadowConfig struct {
	MapSize int     // Shadow map resolution; the ray caster uses it to size its depth bias
	Near    float64 // Occluders closer than this to the light are ignored
	Far     float64 // Occluders farther than this from the light are ignored
	Bias    float64 // Offset applied along the surface normal before casting shadow rays
}

// DefaultShadowConfig returns the shadow settings a light starts with
func DefaultShadowConfig() ShadowConfig {
	return ShadowConfig{MapSize: 512, Near: 0.5, Far: 500, Bias: 0}
}

// Light is a light source; its position comes from the scene node that owns it
type Light struct {
	Type       LightType
	Color      core.Vec3
	Intensity  float64
	Distance   float64 // Point lights: range after which contribution is zero (0 = infinite)
	Decay      float64 // Point lights: falloff exponent
	CastShadow bool
	Shadow     ShadowConfig
}

// NewAmbientLight creates a light that adds uniformly to every surface
func NewAmbientLight(color core.Vec3, intensity float64) *Light {
	return &Light{Type: LightTypeAmbient, Color: color, Intensity: intensity, Shadow: DefaultShadowConfig()}
}

// NewDirectionalLight creates a light shining from its node position toward the origin
func NewDirectionalLight(color core.Vec3, intensity float64) *Light {
	return &Light{Type: LightTypeDirectional, Color: color, Intensity: intensity, Shadow: DefaultShadowConfig()}
}

// NewPointLight creates an omnidirectional light with limited range
func NewPointLight(color core.Vec3, intensity, distance float64) *Light {
	return &Light{
		Type:      LightTypePoint,
		Color:     color,
		Intensity: intensity,
		Distance:  distance,
		Decay:     DefaultDecay,
		Shadow:    DefaultShadowConfig(),
	}
}

// Radiance returns color × intensity
func (l *Light) Radiance() core.Vec3 {
	return l.Color.Multiply(l.Intensity)
}

// Attenuation returns the point light falloff at distance d: (1 - d/Distance)^Decay,
// clamped to [0,1]. Lights with no range never fall off.
func (l *Light) Attenuation(d float64) float64 {
	if l.Type != LightTypePoint || l.Distance <= 0 || l.Decay <= 0 {
		return 1
	}
	base := 1 - d/l.Distance
	if base <= 0 {
		return 0
	}
	return math.Pow(min(base, 1), l.Decay)
}

// Sample describes the light arriving at a surface point
type Sample struct {
	Direction core.Vec3 // Unit direction from the surface toward the light
	Distance  float64   // Distance to the light; +Inf for directional lights
	Radiance  core.Vec3 // Incoming light after falloff, before shadowing
}

// SampleAt returns the light reaching point from a light placed at position.
// Ambient lights return false since they have no direction.
func (l *Light) SampleAt(position, point core.Vec3) (Sample, bool) {
	switch l.Type {
	case LightTypeDirectional:
		dir := position.Normalize()
		if dir.LengthSquared() == 0 {
			return Sample{}, false
		}
		return Sample{Direction: dir, Distance: math.Inf(1), Radiance: l.Radiance()}, true

	case LightTypePoint:
		toLight := position.Subtract(point)
		d := toLight.Length()
		if d == 0 {
			return Sample{}, false
		}
		att := l.Attenuation(d)
		if att == 0 {
			return Sample{}, false
		}
		return Sample{Direction: toLight.Multiply(1 / d), Distance: d, Radiance: l.Radiance().Multiply(att)}, true
	}
	return Sample{}, false
}
