package material

import (
	"math"
	"testing"

	"github.com/df07/go-haunted-house/pkg/core"
)

func solid(c core.Vec3) *Texture {
	return NewImageTexture(1, 1, []core.Vec3{c})
}

func TestStandard_FlatColor(t *testing.T) {
	m := NewStandard("walls", core.MustHexColor("#ac8e82"))
	uv := core.NewVec2(0.5, 0.5)

	if m.BaseColor(uv) != m.Color {
		t.Errorf("Expected flat color %v, got %v", m.Color, m.BaseColor(uv))
	}
	if m.Alpha(uv) != 1 || m.Occlusion(uv) != 1 {
		t.Error("Expected opaque, unoccluded surface without maps")
	}
	if m.RoughnessAt(uv) != 1 || m.MetalnessAt(uv) != 0 {
		t.Error("Expected default roughness 1 and metalness 0")
	}
	if m.HasAOMap() || len(m.Textures()) != 0 {
		t.Error("Expected no texture channels")
	}
}

func TestStandard_Channels(t *testing.T) {
	m := NewStandard("door", core.NewVec3(1, 1, 1))
	m.Map = solid(core.NewVec3(0.5, 0.25, 1))
	m.AlphaMap = solid(core.NewVec3(0, 0.3, 0))
	m.AOMap = solid(core.NewVec3(0.5, 0, 0))
	m.AOMapIntensity = 0.5
	m.RoughnessMap = solid(core.NewVec3(0, 0.4, 0))
	m.MetalnessMap = solid(core.NewVec3(0, 0, 1))
	m.Metalness = 0.8
	m.DisplacementMap = solid(core.NewVec3(1, 0, 0))
	m.DisplacementScale = 0.1
	m.NormalMap = solid(core.NewVec3(0.5, 0.5, 1))
	uv := core.NewVec2(0.2, 0.7)

	if got := m.BaseColor(uv); got != core.NewVec3(0.5, 0.25, 1) {
		t.Errorf("Unexpected base color %v", got)
	}
	if got := m.Alpha(uv); got != 1 {
		t.Errorf("Expected alpha map to be ignored on opaque material, got %f", got)
	}
	m.Transparent = true
	if got := m.Alpha(uv); got != 0.3 {
		t.Errorf("Expected alpha 0.3, got %f", got)
	}
	if got := m.Occlusion(uv); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Expected occlusion 0.75, got %f", got)
	}
	if got := m.RoughnessAt(uv); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("Expected roughness 0.4, got %f", got)
	}
	if got := m.MetalnessAt(uv); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("Expected metalness 0.8, got %f", got)
	}
	if d, ok := m.Displacement(uv); !ok || math.Abs(d-0.1) > 1e-12 {
		t.Errorf("Expected displacement 0.1, got %f (%v)", d, ok)
	}
	if n, ok := m.TangentNormal(uv); !ok || n != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected flat tangent normal, got %v", n)
	}
	if !m.HasAOMap() || len(m.Textures()) != 7 {
		t.Errorf("Expected 7 channels, got %d", len(m.Textures()))
	}
}

func TestStandard_UnloadedChannelsFallBack(t *testing.T) {
	m := NewStandard("bricks", core.NewVec3(0.2, 0.3, 0.4))
	m.Map = NewTexture("bricks/color.jpg")
	m.AOMap = NewTexture("bricks/ambientOcclusion.jpg")
	uv := core.NewVec2(0.5, 0.5)

	if m.BaseColor(uv) != m.Color {
		t.Error("Expected base color fallback while texture is loading")
	}
	if m.Occlusion(uv) != 1 {
		t.Error("Expected no occlusion while texture is loading")
	}
	if !m.HasAOMap() {
		t.Error("Expected declared AO channel even when not loaded")
	}
}
