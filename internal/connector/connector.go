package connector

import "input-mapper/pkg/geometry"

// Connector is one rendered line with its baked marker.
type Connector struct {
	LabelID string
	Path    Path
	Style   Style
	Marker  *Marker
}

// Build computes the connector for a label whose box centre is start and
// whose visual anchor marker is at end.
func Build(labelID string, start, end geometry.Point2D, style Style) Connector {
	p := NewPath(start, end, style.Shape)
	return Connector{
		LabelID: labelID,
		Path:    p,
		Style:   style,
		Marker:  NewMarker(p, style),
	}
}

// HitTest reports whether pt lies within tolerance of the connector line.
func (c Connector) HitTest(pt geometry.Point2D, tolerance float64) bool {
	pts := c.Path.Flatten()
	for i := 1; i < len(pts); i++ {
		if distToSegment(pt, pts[i-1], pts[i]) <= tolerance {
			return true
		}
	}
	return false
}

func distToSegment(p, a, b geometry.Point2D) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = geometry.Clamp01(t)
	return p.Distance(a.Add(ab.Scale(t)))
}
