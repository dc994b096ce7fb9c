package material

import (
	"github.com/df07/go-haunted-house/pkg/core"
)

// Standard describes a surface's response to light: a base color modulated by
// optional texture channels, roughness/metalness and ambient occlusion.
// Fields are set at construction and not modified afterwards; only the pixel
// contents of the textures arrive asynchronously.
type Standard struct {
	Name  string
	Color core.Vec3 // Base color, multiplied by Map

	Map             *Texture // Color channel (UV)
	AlphaMap        *Texture // Opacity from the green channel (UV)
	AOMap           *Texture // Ambient occlusion from the red channel (UV2)
	NormalMap       *Texture // Tangent-space normal (UV)
	DisplacementMap *Texture // Height from the red channel (UV), applied to vertices
	RoughnessMap    *Texture // Roughness from the green channel (UV)
	MetalnessMap    *Texture // Metalness from the blue channel (UV)

	Roughness         float64 // Scalar roughness, multiplied by RoughnessMap
	Metalness         float64 // Scalar metalness, multiplied by MetalnessMap
	AOMapIntensity    float64
	DisplacementScale float64
	Transparent       bool // Alpha below 1 lets rays continue through the surface
}

// NewStandard creates a material with a flat base color and default channels
func NewStandard(name string, color core.Vec3) *Standard {
	return &Standard{
		Name:           name,
		Color:          color,
		Roughness:      1,
		Metalness:      0,
		AOMapIntensity: 1,
	}
}

// BaseColor returns the diffuse color at uv
func (m *Standard) BaseColor(uv core.Vec2) core.Vec3 {
	if m.Map != nil {
		if texel, ok := m.Map.Sample(uv); ok {
			return m.Color.MultiplyVec(texel)
		}
	}
	return m.Color
}

// Alpha returns opacity at uv; opaque materials always return 1
func (m *Standard) Alpha(uv core.Vec2) float64 {
	if !m.Transparent || m.AlphaMap == nil {
		return 1
	}
	if texel, ok := m.AlphaMap.Sample(uv); ok {
		return texel.Y
	}
	return 1
}

// Occlusion returns the ambient occlusion factor at uv2 (1 = unoccluded)
func (m *Standard) Occlusion(uv2 core.Vec2) float64 {
	if m.AOMap == nil {
		return 1
	}
	if texel, ok := m.AOMap.Sample(uv2); ok {
		return (texel.X-1)*m.AOMapIntensity + 1
	}
	return 1
}

// RoughnessAt returns roughness at uv
func (m *Standard) RoughnessAt(uv core.Vec2) float64 {
	if m.RoughnessMap != nil {
		if texel, ok := m.RoughnessMap.Sample(uv); ok {
			return m.Roughness * texel.Y
		}
	}
	return m.Roughness
}

// MetalnessAt returns metalness at uv
func (m *Standard) MetalnessAt(uv core.Vec2) float64 {
	if m.MetalnessMap != nil {
		if texel, ok := m.MetalnessMap.Sample(uv); ok {
			return m.Metalness * texel.Z
		}
	}
	return m.Metalness
}

// TangentNormal returns the tangent-space normal at uv in [-1,1]^3
func (m *Standard) TangentNormal(uv core.Vec2) (core.Vec3, bool) {
	if m.NormalMap == nil {
		return core.Vec3{}, false
	}
	texel, ok := m.NormalMap.Sample(uv)
	if !ok {
		return core.Vec3{}, false
	}
	return texel.Multiply(2).Subtract(core.Splat(1)), true
}

// Displacement returns the vertex offset along the normal at uv
func (m *Standard) Displacement(uv core.Vec2) (float64, bool) {
	if m.DisplacementMap == nil || m.DisplacementScale == 0 {
		return 0, false
	}
	texel, ok := m.DisplacementMap.Sample(uv)
	if !ok {
		return 0, false
	}
	return texel.X * m.DisplacementScale, true
}

// HasAOMap reports whether the material declares an ambient occlusion channel.
// Geometry carrying such a material needs a second UV set.
func (m *Standard) HasAOMap() bool {
	return m.AOMap != nil
}

// Textures returns every declared texture channel
func (m *Standard) Textures() []*Texture {
	var out []*Texture
	for _, t := range []*Texture{m.Map, m.AlphaMap, m.AOMap, m.NormalMap, m.DisplacementMap, m.RoughnessMap, m.MetalnessMap} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// GeometryRevision sums the revisions of channels that change vertex positions
func (m *Standard) GeometryRevision() uint64 {
	if m.DisplacementMap == nil {
		return 0
	}
	return m.DisplacementMap.Revision()
}
