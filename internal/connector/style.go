package connector

import (
	"fmt"
	"strconv"
	"strings"

	"input-mapper/pkg/colorutil"
)

// Dash is the stroke pattern of a connector.
type Dash string

const (
	DashSolid  Dash = "solid"
	DashDashed Dash = "dashed"
	DashDotted Dash = "dotted"
)

// Shape is the path geometry between a label and its anchor.
type Shape string

const (
	ShapeStraight Shape = "straight"
	ShapeCurved   Shape = "curved"
	ShapeAngle    Shape = "angle"
)

// End is the terminal marker drawn at the anchor end.
type End string

const (
	EndNone   End = "none"
	EndArrow  End = "arrow"
	EndBall   End = "ball"
	EndSquare End = "square"
)

// Dashes, Shapes and Ends list the accepted values in menu order.
var (
	Dashes = []Dash{DashSolid, DashDashed, DashDotted}
	Shapes = []Shape{ShapeStraight, ShapeCurved, ShapeAngle}
	Ends   = []End{EndNone, EndArrow, EndBall, EndSquare}
)

// Style is the line configuration shared by every connector of a document.
type Style struct {
	Dash  Dash    `json:"style" msgpack:"style" yaml:"style"`
	Width float64 `json:"width" msgpack:"width" yaml:"width"`
	Color string  `json:"color" msgpack:"color" yaml:"color"`
	Shape Shape   `json:"type" msgpack:"type" yaml:"type"`
	End   End     `json:"end" msgpack:"end" yaml:"end"`
}

// DefaultStyle returns the style of a new document.
func DefaultStyle() Style {
	return Style{
		Dash:  DashDashed,
		Width: 2,
		Color: "#cebbbb",
		Shape: ShapeStraight,
		End:   EndBall,
	}
}

// Normalized replaces unknown or unusable fields with their defaults.
func (s Style) Normalized() Style {
	def := DefaultStyle()
	if !contains(Dashes, s.Dash) {
		s.Dash = def.Dash
	}
	if !contains(Shapes, s.Shape) {
		s.Shape = def.Shape
	}
	if !contains(Ends, s.End) {
		s.End = def.End
	}
	if !(s.Width > 0) {
		s.Width = def.Width
	}
	s.Color = colorutil.NormalizeHex(s.Color, def.Color)
	return s
}

// DashArray returns the SVG stroke-dasharray for the style, or "" for solid.
func (s Style) DashArray() string {
	switch s.Dash {
	case DashDashed:
		return "8 4"
	case DashDotted:
		return "2 4"
	}
	return ""
}

// DashPattern returns the dash array as numbers.
func (s Style) DashPattern() []float64 {
	var out []float64
	for _, f := range strings.Fields(s.DashArray()) {
		v, _ := strconv.ParseFloat(f, 64)
		out = append(out, v)
	}
	return out
}

// StrokeCSS renders the stroke as an inline SVG style.
func (s Style) StrokeCSS() string {
	css := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", s.Color, strconv.FormatFloat(s.Width, 'f', -1, 64))
	if da := s.DashArray(); da != "" {
		css += ";stroke-dasharray:" + da
	}
	return css
}

// ParseDash, ParseShape and ParseEnd validate user input.
func ParseDash(s string) (Dash, error) { return parse(Dashes, s, "dash style") }

func ParseShape(s string) (Shape, error) { return parse(Shapes, s, "line type") }

func ParseEnd(s string) (End, error) { return parse(Ends, s, "line end") }

func parse[T ~string](values []T, s, what string) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !contains(values, v) {
		return "", fmt.Errorf("unknown %s %q", what, s)
	}
	return v, nil
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
