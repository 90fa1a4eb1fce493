// Package colorutil provides shared color utilities for the input mapper.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Colors used by the label chrome and the defaults of a new document.
var (
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	LabelFill  = color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 255} // #1e293b
	LabelEdge  = color.NRGBA{R: 255, G: 255, B: 255, A: 51}    // rgba(255,255,255,0.2)
	MarkerDot  = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 255} // #3b82f6
	Background = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 255}
)

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as lowercase "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// NormalizeHex returns s in canonical "#rrggbb" form, or fallback when s does
// not parse.
func NormalizeHex(s, fallback string) string {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return Hex(c)
}

// EqualHex reports whether two hex strings denote the same color.
func EqualHex(a, b string) bool {
	ca, errA := ParseHex(a)
	cb, errB := ParseHex(b)
	return errA == nil && errB == nil && ca == cb
}

// HSLToHex converts hue (degrees), saturation and lightness (percent) to a
// "#rrggbb" string.
func HSLToHex(h, s, l float64) string {
	l /= 100
	a := s * math.Min(l, 1-l) / 100
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		c := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return uint8(math.Round(255 * c))
	}
	return Hex(color.RGBA{R: f(0), G: f(8), B: f(4), A: 255})
}

// HSL returns the hue (degrees), saturation and lightness (percent) of c.
func HSL(c color.Color) (h, s, l float64) {
	r8, g8, b8, _ := c.RGBA()
	r, g, b := float64(r8>>8)/255, float64(g8>>8)/255, float64(b8>>8)/255
	hi, lo := math.Max(r, math.Max(g, b)), math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	d := hi - lo
	if d == 0 {
		return 0, 0, l * 100
	}
	s = d / (1 - math.Abs(2*l-1))
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s * 100, l * 100
}

// RotateHue returns hex with its hue turned by deg, keeping saturation and
// lightness.
func RotateHue(hex string, deg float64) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	h, s, l := HSL(c)
	return HSLToHex(math.Mod(h+deg+360, 360), s, l), nil
}
