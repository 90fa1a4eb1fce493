package connector

import (
	"fmt"

	"input-mapper/pkg/geometry"
)

// Marker geometry is defined in a 10x10 box drawn 6 stroke widths wide.
const (
	markerBox  = 10.0
	markerSize = 6.0
)

// Marker is a terminal marker baked as a literal shape. Its local geometry
// has the reference point at the origin and points along +x.
type Marker struct {
	End   End
	At    geometry.Point2D
	Angle float64
	Scale float64
	Color string
}

// NewMarker places the marker for style at the end of path. It returns nil
// when the style has no end marker.
func NewMarker(path Path, style Style) *Marker {
	if style.End == EndNone || style.End == "" {
		return nil
	}
	return &Marker{
		End:   style.End,
		At:    path.End,
		Angle: path.MarkerAngle(),
		Scale: markerSize / markerBox * style.Width,
		Color: style.Color,
	}
}

// Transform maps local marker coordinates to render space.
func (m *Marker) Transform() geometry.AffineTransform {
	return geometry.Translation(m.At.X, m.At.Y).
		Compose(geometry.Rotation(m.Angle)).
		Compose(geometry.Scale(m.Scale, m.Scale))
}

// SVGTransform renders Transform as an SVG transform attribute.
func (m *Marker) SVGTransform() string {
	return fmt.Sprintf("translate(%s,%s) rotate(%s) scale(%s)", f(m.At.X), f(m.At.Y), f(m.Angle), f4(m.Scale))
}

func f4(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// Outline returns the marker polygon in local coordinates. The ball is
// approximated as a 24-gon; use Radius for exact drawing.
func (m *Marker) Outline() []geometry.Point2D {
	switch m.End {
	case EndArrow:
		// The tip sits on the reference point.
		return []geometry.Point2D{{X: -10, Y: -5}, {X: 0, Y: 0}, {X: -10, Y: 5}}
	case EndSquare:
		return []geometry.Point2D{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}
	case EndBall:
		pts := make([]geometry.Point2D, 24)
		for i := range pts {
			pts[i] = geometry.Rotation(float64(i) * 15).Apply(geometry.NewPoint2D(5, 0))
		}
		return pts
	}
	return nil
}

// Radius is the ball radius in local coordinates.
func (m *Marker) Radius() float64 {
	return markerBox / 2
}

// Polygon returns Outline mapped to render space.
func (m *Marker) Polygon() []geometry.Point2D {
	t := m.Transform()
	local := m.Outline()
	out := make([]geometry.Point2D, len(local))
	for i, p := range local {
		out[i] = t.Apply(p)
	}
	return out
}

// SVG returns the marker's local shape as SVG markup, to be wrapped in a
// group carrying SVGTransform.
func (m *Marker) SVG() string {
	switch m.End {
	case EndArrow:
		return fmt.Sprintf(`<path d="M -10 -5 L 0 0 L -10 5 z" fill="%s"/>`, m.Color)
	case EndBall:
		return fmt.Sprintf(`<circle cx="0" cy="0" r="5" fill="%s"/>`, m.Color)
	case EndSquare:
		return fmt.Sprintf(`<rect x="-5" y="-5" width="10" height="10" fill="%s"/>`, m.Color)
	}
	return ""
}
