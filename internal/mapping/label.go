// Package mapping holds the label/anchor model of a mapping document: the
// labels placed on the workspace, the anchor each one points at on the device
// illustration, and the document format they are saved in.
package mapping

import (
	"input-mapper/pkg/geometry"
)

// PlaceholderText is shown (and measured) in place of empty label text.
const PlaceholderText = "Action..."

// Label is one annotation on the workspace. X, Y is the top-left of the label
// box in workspace space; TargetX, TargetY is the anchor in normalized device
// space. Each label owns exactly one anchor marker, derived from these fields.
type Label struct {
	ID         string  `json:"id"`
	Key        string  `json:"key"`
	DeviceType string  `json:"deviceType"`
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	TargetX    float64 `json:"targetX"`
	TargetY    float64 `json:"targetY"`
}

// Position returns the top-left of the label box.
func (l Label) Position() geometry.Point2D {
	return geometry.NewPoint2D(l.X, l.Y)
}

// Anchor returns the normalized anchor.
func (l Label) Anchor() (tx, ty float64) {
	return l.TargetX, l.TargetY
}

// DisplayText returns the text to lay out, substituting the placeholder for
// empty text.
func (l Label) DisplayText() string {
	if l.Text == "" {
		return PlaceholderText
	}
	return l.Text
}

// SafeArea is the inset of the workspace region new labels are placed in,
// keeping them clear of the surrounding panels.
type SafeArea struct {
	Left, Right, Top, Bottom float64
}

// DefaultSafeArea matches the editor's panel layout.
var DefaultSafeArea = SafeArea{Left: 40, Right: 360, Top: 100, Bottom: 120}

// Clamp moves p into the safe region of a workspace of the given size. When
// the region collapses on an axis the lower bound wins.
func (a SafeArea) Clamp(p geometry.Point2D, workspace geometry.Size) geometry.Point2D {
	return geometry.Point2D{
		X: clampLow(p.X, a.Left, workspace.Width-a.Right),
		Y: clampLow(p.Y, a.Top, workspace.Height-a.Bottom),
	}
}

func clampLow(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo || v != v {
		v = lo
	}
	return v
}
