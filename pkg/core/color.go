package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" or "#rgb" into a linear [0,1] color
func ParseHexColor(s string) (Vec3, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Vec3{}, fmt.Errorf("invalid hex color %q", s)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Vec3{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	return Vec3{
		X: float64((value>>16)&0xff) / 255.0,
		Y: float64((value>>8)&0xff) / 255.0,
		Z: float64(value&0xff) / 255.0,
	}, nil
}

// MustHexColor is ParseHexColor for compile-time constants; it panics on malformed input
func MustHexColor(s string) Vec3 {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ToRGBA converts a [0,1] color to an 8-bit opaque color
func (v Vec3) ToRGBA() color.RGBA {
	c := v.Clamp(0, 1)
	return color.RGBA{
		R: uint8(c.X*255 + 0.5),
		G: uint8(c.Y*255 + 0.5),
		B: uint8(c.Z*255 + 0.5),
		A: 255,
	}
}

// Hex formats a [0,1] color as "#rrggbb"
func (v Vec3) Hex() string {
	c := v.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
