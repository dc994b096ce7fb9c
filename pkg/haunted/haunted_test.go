package haunted

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/loaders"
)

// constRandom always returns the same sample
type constRandom float64

func (c constRandom) Float64() float64 { return float64(c) }

func planarRadius(p core.Vec3) float64 {
	return math.Hypot(p.X, p.Z)
}

func buildMinimal(t *testing.T, random core.Random) *House {
	t.Helper()
	h, err := Build(MinimalConfig(), BuildDeps{Random: random})
	require.NoError(t, err)
	return h
}

func buildEnhanced(t *testing.T) *House {
	t.Helper()
	loader := loaders.NewTextureLoader(t.TempDir(), nil)
	t.Cleanup(loader.Wait)

	cfg := EnhancedConfig()
	cfg.Seed = 7
	h, err := Build(cfg, BuildDeps{Textures: loader})
	require.NoError(t, err)
	return h
}

func TestGhostPlanarRadii(t *testing.T) {
	for i := 0; i <= 400; i++ {
		tm := float64(i) * 0.37
		assert.InDelta(t, 4, planarRadius(Ghost1Position(tm)), 1e-9, "ghost1 at t=%g", tm)
		assert.InDelta(t, 5, planarRadius(Ghost2Position(tm)), 1e-9, "ghost2 at t=%g", tm)

		r3 := planarRadius(Ghost3Position(tm))
		assert.GreaterOrEqual(t, r3, 6-1e-9, "ghost3 at t=%g", tm)
		assert.LessOrEqual(t, r3, 8+1e-9, "ghost3 at t=%g", tm)
	}
}

func TestGhost3RadiusOnAxis(t *testing.T) {
	// Where the orbit angle is a multiple of π only the x term contributes
	for k := 0; k < 6; k++ {
		tm := float64(k) * math.Pi / 0.18
		assert.InDelta(t, 7+math.Sin(0.32*tm), planarRadius(Ghost3Position(tm)), 1e-9, "t=%g", tm)
	}
}

func TestGhostHeights(t *testing.T) {
	tm := 1.3
	assert.InDelta(t, math.Sin(3*tm), Ghost1Position(tm).Y, 1e-12)
	assert.InDelta(t, math.Sin(4*tm)+math.Sin(2.5*tm), Ghost2Position(tm).Y, 1e-12)
	assert.InDelta(t, math.Sin(5*tm)+math.Sin(2*tm), Ghost3Position(tm).Y, 1e-12)
}

func TestAnimateMovesGhosts(t *testing.T) {
	h := buildMinimal(t, constRandom(0.5))
	for _, tm := range []float64{0, 0.016, 2.5, 100} {
		h.Animate(tm)
		want := GhostPositions(tm)
		for i, g := range h.Ghosts {
			assert.Equal(t, want[i], g.Position, "ghost%d at t=%g", i+1, tm)
		}
	}
}

func TestGraveLayout(t *testing.T) {
	tests := []struct {
		name   string
		spread float64
	}{
		{"minimal", 5},
		{"enhanced", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements := PlaceGraves(core.NewRandom(99), tt.spread, GraveCount)
			require.Len(t, placements, 50)
			for i, p := range placements {
				r := planarRadius(p.Position)
				assert.GreaterOrEqual(t, r, GraveInnerRadius-1e-9, "grave %d", i)
				assert.LessOrEqual(t, r, GraveInnerRadius+tt.spread+1e-9, "grave %d", i)
				assert.Equal(t, GraveHeight, p.Position.Y)
				assert.Equal(t, 0.0, p.Rotation.X)
				assert.LessOrEqual(t, math.Abs(p.Rotation.Y), 0.2)
				assert.LessOrEqual(t, math.Abs(p.Rotation.Z), 0.2)
				assert.GreaterOrEqual(t, p.Angle, 0.0)
				assert.Less(t, p.Angle, 2*math.Pi)
			}
		})
	}
}

func TestGraveFromConstantRandom(t *testing.T) {
	h := buildMinimal(t, constRandom(0.5))
	require.Len(t, h.Graves, GraveCount)
	require.Len(t, h.GraveGroup.Children, GraveCount)

	first := h.Graves[0].Position
	assert.InDelta(t, -6, first.X, 1e-9)
	assert.InDelta(t, 0, first.Z, 1e-9)
	assert.InDelta(t, 0.3, first.Y, 1e-12)
	assert.Equal(t, core.Vec3{}, h.Graves[0].Rotation)
}

func TestSeedReproducesLayout(t *testing.T) {
	cfg := MinimalConfig()
	cfg.Seed = 1234
	a, err := Build(cfg, BuildDeps{})
	require.NoError(t, err)
	b, err := Build(cfg, BuildDeps{})
	require.NoError(t, err)
	assert.Equal(t, a.GravePlacements, b.GravePlacements)
}

func TestHouseLayout(t *testing.T) {
	h := buildMinimal(t, constRandom(0.5))

	assert.Equal(t, core.NewVec3(0, 1.25, 0), h.Walls.Position)
	assert.Equal(t, core.NewVec3(0, 3, 0), h.Roof.Position)
	assert.InDelta(t, math.Pi/4, h.Roof.Rotation.Y, 1e-12)
	assert.Equal(t, core.NewVec3(0, 3, -1.5), h.Chimney.Position)
	assert.Equal(t, 1.0, h.Door.Position.Y)
	assert.InDelta(t, 2.01, h.Door.Position.Z, 1e-12)
	assert.InDelta(t, -math.Pi/2, h.Floor.Rotation.X, 1e-12)
	require.Len(t, h.Bushes, 4)
	assert.Equal(t, core.Splat(0.15), h.Bushes[3].Scale)
	assert.Equal(t, core.NewVec3(-1, 0.05, 2.6), h.Bushes[3].Position)

	// Door light belongs to the house group
	assert.Same(t, h.Group, h.DoorLight.Parent())
	assert.Equal(t, DoorLightPosition, h.DoorLight.WorldPosition())

	bb := h.Walls.Geometry.BoundingBox()
	assert.InDelta(t, 4, bb.Max.X-bb.Min.X, 1e-9)
	assert.InDelta(t, 2.5, bb.Max.Y-bb.Min.Y, 1e-9)

	assert.Equal(t, CameraPosition, h.Camera.Position)
	assert.Equal(t, 75.0, h.Camera.Fov)
	require.NotNil(t, h.Scene.Fog)
	assert.Equal(t, 1.0, h.Scene.Fog.Near)
	assert.Equal(t, 15.0, h.Scene.Fog.Far)
	assert.Equal(t, core.MustHexColor("#262837"), h.Scene.Background)

	assert.Len(t, h.Scene.Lights(), 6)
	assert.Nil(t, h.Title)
}

func TestShadowFlags(t *testing.T) {
	minimal := buildMinimal(t, constRandom(0.25))
	assert.Zero(t, minimal.ShadowFlagCount())

	h := buildEnhanced(t)
	assert.Positive(t, h.ShadowFlagCount())
	assert.True(t, h.Walls.CastShadow)
	assert.True(t, h.Floor.ReceiveShadow)
	assert.False(t, h.Floor.CastShadow)
	assert.False(t, h.Roof.CastShadow)
	for _, g := range h.Graves {
		assert.True(t, g.CastShadow)
	}
	for _, b := range h.Bushes {
		assert.True(t, b.CastShadow)
	}

	assert.True(t, h.Moon.Light.CastShadow)
	assert.Equal(t, 15.0, h.Moon.Light.Shadow.Far)
	assert.Equal(t, 256, h.DoorLight.Light.Shadow.MapSize)
	assert.Equal(t, 7.0, h.Ghosts[2].Light.Shadow.Far)
	assert.False(t, h.Ambient.Light.CastShadow)
}

func TestEnhancedWithoutShadows(t *testing.T) {
	loader := loaders.NewTextureLoader(t.TempDir(), nil)
	t.Cleanup(loader.Wait)

	cfg := EnhancedConfig()
	cfg.Seed = 7
	cfg.ShadowsEnabled = false
	h, err := Build(cfg, BuildDeps{Textures: loader})
	require.NoError(t, err)

	// Title and textures stay, only the shadow flags are dropped
	require.NotNil(t, h.Title)
	assert.NotEmpty(t, h.MaterialsWithTextures())
	assert.Zero(t, h.ShadowFlagCount())
	assert.False(t, h.Ambient.Light.CastShadow)
	assert.False(t, h.Moon.Light.CastShadow)
	assert.False(t, h.DoorLight.Light.CastShadow)
	for i, g := range h.Ghosts {
		assert.False(t, g.Light.CastShadow, "ghost%d", i+1)
	}
}

func TestEnhancedMaterialsAndUV2(t *testing.T) {
	h := buildEnhanced(t)

	assert.Empty(t, h.MeshesMissingUV2())
	assert.True(t, h.Walls.Geometry.HasUV2())
	assert.True(t, h.Door.Geometry.HasUV2())
	assert.True(t, h.Floor.Geometry.HasUV2())
	assert.True(t, h.Graves[0].Geometry.HasUV2())
	assert.True(t, h.Bushes[0].Geometry.HasUV2())
	assert.False(t, h.Roof.Geometry.HasUV2(), "roof has no occlusion map")

	door := h.Materials.Door
	assert.True(t, door.Transparent)
	assert.Equal(t, 0.1, door.DisplacementScale)
	assert.Len(t, door.Textures(), 7)
	assert.Empty(t, h.Materials.Roof.Textures())
	assert.Same(t, h.Materials.Walls.Map, h.Materials.Chimney.Map)
	assert.Same(t, h.Materials.Grave.Map, h.Materials.Title.Map)
	for _, tex := range h.Materials.Floor.Textures() {
		assert.Equal(t, float64(GrassRepeat), tex.RepeatU)
		assert.Equal(t, float64(GrassRepeat), tex.RepeatV)
	}
	assert.Len(t, h.MaterialsWithTextures(), 7)
	assert.Len(t, h.Textures.Textures(), 23)

	require.NotNil(t, h.Title)
	assert.Positive(t, h.Title.Geometry.TriangleCount())
	assert.True(t, h.Title.Geometry.HasUV2())
	assert.Equal(t, TitleY, h.Title.Position.Y)
}

func TestConcurrentBuildsShareTextures(t *testing.T) {
	loader := loaders.NewTextureLoader(t.TempDir(), nil)
	t.Cleanup(loader.Wait)
	cfg := EnhancedConfig()
	cfg.Seed = 3

	first, err := Build(cfg, BuildDeps{Textures: loader})
	require.NoError(t, err)
	floor := first.Materials.Floor.Map

	// One session samples the floor while others are built on the same loader
	houses := make([]*House, 4)
	var wg sync.WaitGroup
	wg.Add(len(houses) + 1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			floor.Sample(core.NewVec2(float64(i)/200, 0.5))
		}
	}()
	for i := range houses {
		go func(i int) {
			defer wg.Done()
			h, err := Build(cfg, BuildDeps{Textures: loader})
			assert.NoError(t, err)
			houses[i] = h
		}(i)
	}
	wg.Wait()

	for _, h := range houses {
		require.NotNil(t, h)
		assert.Same(t, floor, h.Materials.Floor.Map)
		for _, tex := range h.Materials.Floor.Textures() {
			assert.Equal(t, float64(GrassRepeat), tex.RepeatU)
			assert.Equal(t, float64(GrassRepeat), tex.RepeatV)
		}
	}
}

func TestMissingTexturesFallBackToColor(t *testing.T) {
	loader := loaders.NewTextureLoader(t.TempDir(), nil)
	cfg := EnhancedConfig()
	cfg.TitleText = ""
	h, err := Build(cfg, BuildDeps{Textures: loader, Random: constRandom(0.1)})
	require.NoError(t, err)

	loader.Wait()
	assert.Equal(t, 23, loader.Failures())
	// Unloaded channels fall back to the scalar color
	assert.Equal(t, core.Splat(1), h.Materials.Walls.BaseColor(core.NewVec2(0.5, 0.5)))
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := MinimalConfig()
	cfg.GraveRadiusSpread = -1
	_, err := Build(cfg, BuildDeps{})
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"enhanced", "minimal"}, PresetNames())

	minimal, err := Preset("minimal")
	require.NoError(t, err)
	assert.False(t, minimal.Textured)
	assert.False(t, minimal.ShadowsEnabled)
	assert.Empty(t, minimal.TitleText)
	assert.Equal(t, 5.0, minimal.GraveRadiusSpread)
	assert.True(t, minimal.CameraZoomEnabled)
	assert.False(t, minimal.DebugPanelHidden)

	enhanced, err := Preset("enhanced")
	require.NoError(t, err)
	assert.True(t, enhanced.Textured)
	assert.True(t, enhanced.ShadowsEnabled)
	assert.Equal(t, "Haunted House", enhanced.TitleText)
	assert.Equal(t, 6.0, enhanced.GraveRadiusSpread)
	assert.False(t, enhanced.CameraZoomEnabled)
	assert.True(t, enhanced.DebugPanelHidden)

	_, err = Preset("spooky")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("title = \"Boo\"\ngrave_radius_spread = 2.5\nseed = 42\n"), 0o644))

	cfg, err := LoadConfig(path, MinimalConfig())
	require.NoError(t, err)
	assert.Equal(t, "minimal", cfg.Name)
	assert.Equal(t, "Boo", cfg.TitleText)
	assert.Equal(t, 2.5, cfg.GraveRadiusSpread)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.True(t, cfg.CameraZoomEnabled, "keys absent from the file keep the base value")

	require.NoError(t, os.WriteFile(path, []byte("grave_radius_spread = -3\n"), 0o644))
	_, err = LoadConfig(path, MinimalConfig())
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), MinimalConfig())
	assert.Error(t, err)
}

func TestEncodeTOMLLoadsBack(t *testing.T) {
	want := EnhancedConfig()
	want.Seed = 5
	data, err := want.EncodeTOML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "enhanced.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	got, err := LoadConfig(path, MinimalConfig())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDebugPanel(t *testing.T) {
	h := buildMinimal(t, constRandom(0.5))
	panel := h.NewDebugPanel()

	assert.False(t, panel.Hidden())
	assert.Equal(t, []string{SliderAmbientIntensity, SliderMoonIntensity, SliderMoonX, SliderMoonY, SliderMoonZ}, panel.Names())

	v, err := panel.Set(SliderMoonX, 12)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, 5.0, h.Moon.Position.X)

	v, err = panel.Set(SliderAmbientIntensity, 0.12345)
	require.NoError(t, err)
	assert.InDelta(t, 0.123, v, 1e-12)
	assert.InDelta(t, 0.123, h.Ambient.Light.Intensity, 1e-12)

	hidden := buildEnhanced(t).NewDebugPanel()
	assert.True(t, hidden.Hidden())
}
