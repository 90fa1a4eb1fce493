package scene

import (
	"input-mapper/pkg/geometry"
)

// HitKind classifies what lies under a pointer.
type HitKind int

const (
	HitNone HitKind = iota
	HitLabel
	HitText
	HitAnchor
)

func (k HitKind) String() string {
	switch k {
	case HitLabel:
		return "label"
	case HitText:
		return "text"
	case HitAnchor:
		return "anchor"
	default:
		return "none"
	}
}

// Hit is the result of a hit test.
type Hit struct {
	Kind    HitKind
	LabelID string
}

// TextRegion returns the text entry area of a label in render space.
func (s *Scene) TextRegion(v LabelView) geometry.Rect {
	lm := s.Layout.Metrics
	x := lm.TextX
	if !v.HasIcon() {
		x = lm.TextXNoIcon
	}
	local := geometry.NewRect(x, lm.PadY/2, v.Local.Width-x-lm.PadRight/2, v.Local.Height-lm.PadY)
	return local.Transform(geometry.Scale(s.Zoom, s.Zoom)).
		Transform(geometry.Translation(v.Box.X, v.Box.Y))
}

// HitTest finds what p (render space) is over. Anchor markers win over
// label bodies, and later labels are on top of earlier ones.
func (s *Scene) HitTest(p geometry.Point2D) Hit {
	r := s.Layout.MarkerRadius * s.Zoom
	for i := len(s.Labels) - 1; i >= 0; i-- {
		v := s.Labels[i]
		if p.Distance(v.Marker) <= r {
			return Hit{Kind: HitAnchor, LabelID: v.Label.ID}
		}
	}
	for i := len(s.Labels) - 1; i >= 0; i-- {
		v := s.Labels[i]
		if !v.Box.Contains(p) {
			continue
		}
		if s.TextRegion(v).Contains(p) {
			return Hit{Kind: HitText, LabelID: v.Label.ID}
		}
		return Hit{Kind: HitLabel, LabelID: v.Label.ID}
	}
	return Hit{}
}
