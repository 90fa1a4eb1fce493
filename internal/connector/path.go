// Package connector computes the lines joining labels to their anchors: the
// path geometry for each line shape, the end tangent, and the terminal
// marker baked as plain shapes.
package connector

import (
	"fmt"
	"strconv"
	"strings"

	"input-mapper/pkg/geometry"
)

// TangentSample is the arc length before the endpoint at which the end
// tangent is sampled.
const TangentSample = 2.0

// curveSegments is the flattening resolution of the quadratic curve.
const curveSegments = 32

// Path is the line from a label (Start) to its anchor marker (End).
type Path struct {
	Start geometry.Point2D
	End   geometry.Point2D
	Shape Shape
}

// NewPath builds the path for shape. Unknown shapes draw straight.
func NewPath(start, end geometry.Point2D, shape Shape) Path {
	if shape != ShapeCurved && shape != ShapeAngle {
		shape = ShapeStraight
	}
	return Path{Start: start, End: end, Shape: shape}
}

// corner is the control point of the curve and the bend of the angle.
func (p Path) corner() geometry.Point2D {
	return geometry.NewPoint2D(p.Start.X, p.End.Y)
}

// D returns the SVG path data.
func (p Path) D() string {
	s, e := p.Start, p.End
	switch p.Shape {
	case ShapeCurved:
		c := p.corner()
		return fmt.Sprintf("M %s %s Q %s %s %s %s", f(s.X), f(s.Y), f(c.X), f(c.Y), f(e.X), f(e.Y))
	case ShapeAngle:
		c := p.corner()
		return fmt.Sprintf("M %s %s L %s %s L %s %s", f(s.X), f(s.Y), f(c.X), f(c.Y), f(e.X), f(e.Y))
	default:
		return fmt.Sprintf("M %s %s L %s %s", f(s.X), f(s.Y), f(e.X), f(e.Y))
	}
}

func f(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// Flatten returns the path as a polyline from Start to End.
func (p Path) Flatten() []geometry.Point2D {
	switch p.Shape {
	case ShapeAngle:
		return []geometry.Point2D{p.Start, p.corner(), p.End}
	case ShapeCurved:
		c := p.corner()
		pts := make([]geometry.Point2D, 0, curveSegments+1)
		for i := 0; i <= curveSegments; i++ {
			t := float64(i) / curveSegments
			u := 1 - t
			pts = append(pts, geometry.Point2D{
				X: u*u*p.Start.X + 2*u*t*c.X + t*t*p.End.X,
				Y: u*u*p.Start.Y + 2*u*t*c.Y + t*t*p.End.Y,
			})
		}
		return pts
	default:
		return []geometry.Point2D{p.Start, p.End}
	}
}

// Length returns the arc length of the flattened path.
func (p Path) Length() float64 {
	pts := p.Flatten()
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Distance(pts[i-1])
	}
	return total
}

// EndTangent returns the direction the path arrives at End with, measured
// from the point TangentSample back along the path. A zero-length path
// returns the zero vector.
func (p Path) EndTangent() geometry.Point2D {
	pts := p.Flatten()
	remaining := TangentSample
	for i := len(pts) - 1; i > 0; i-- {
		a, b := pts[i-1], pts[i]
		seg := a.Distance(b)
		if seg == 0 {
			continue
		}
		if seg >= remaining {
			sample := b.Add(a.Sub(b).Scale(remaining / seg))
			return p.End.Sub(sample)
		}
		remaining -= seg
	}
	// Shorter than the sample distance: use the whole path.
	return p.End.Sub(p.Start)
}

// MarkerAngle returns the orientation of the terminal marker in degrees.
func (p Path) MarkerAngle() float64 {
	return geometry.AngleDegrees(p.EndTangent())
}
