// Package haunted builds and animates the haunted house diorama: a house with
// a door light, a field of graves, a lawn, and three ghost lights circling it.
package haunted

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownPreset is returned when a preset name is not defined
var ErrUnknownPreset = errors.New("unknown preset")

// Config selects between the variants of the scene
type Config struct {
	Name              string  `toml:"name"`
	Textured          bool    `toml:"textured"`            // Texture sets instead of flat colors
	ShadowsEnabled    bool    `toml:"shadows"`             // Shadow flags on meshes and lights
	TitleText         string  `toml:"title"`               // Extruded title; empty for none
	GraveRadiusSpread float64 `toml:"grave_radius_spread"` // Width of the grave ring beyond the inner radius
	CameraZoomEnabled bool    `toml:"camera_zoom"`
	DebugPanelHidden  bool    `toml:"debug_panel_hidden"`
	TextureDir        string  `toml:"texture_dir"` // Root of <family>/<channel>.jpg files
	FontPath          string  `toml:"font_path"`   // TrueType/OpenType file; empty for the embedded face
	Seed              int64   `toml:"seed"`        // Grave placement seed; 0 picks one from the clock
}

// DefaultTextureDir is where texture families are looked up unless configured
const DefaultTextureDir = "textures"

// MinimalConfig returns the flat-colored variant
func MinimalConfig() Config {
	return Config{
		Name:              "minimal",
		Textured:          false,
		ShadowsEnabled:    false,
		TitleText:         "",
		GraveRadiusSpread: 5,
		CameraZoomEnabled: true,
		DebugPanelHidden:  false,
		TextureDir:        DefaultTextureDir,
	}
}

// EnhancedConfig returns the textured, shadowed variant with a title
func EnhancedConfig() Config {
	return Config{
		Name:              "enhanced",
		Textured:          true,
		ShadowsEnabled:    true,
		TitleText:         "Haunted House",
		GraveRadiusSpread: 6,
		CameraZoomEnabled: false,
		DebugPanelHidden:  true,
		TextureDir:        DefaultTextureDir,
	}
}

var presets = map[string]func() Config{
	"minimal":  MinimalConfig,
	"enhanced": EnhancedConfig,
}

// Preset returns the named preset
func Preset(name string) (Config, error) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadConfig overlays the TOML file at path onto base. Keys absent from the
// file keep base's values.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration values the builder cannot use
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("config name must not be empty")
	}
	if c.GraveRadiusSpread < 0 {
		return fmt.Errorf("grave radius spread must not be negative, got %g", c.GraveRadiusSpread)
	}
	return nil
}

// EncodeTOML encodes the config in the format LoadConfig reads
func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}
