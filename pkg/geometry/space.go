package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zoom limits for the stage transform.
const (
	MinZoom = 0.2
	MaxZoom = 3.0
)

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampZoom limits a requested zoom factor to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ToNormalized converts a point to normalized coordinates over box, clamped
// to [0,1] on both axes. A degenerate axis yields 0.
func ToNormalized(p Point2D, box Rect) (tx, ty float64) {
	if box.Width > 0 {
		tx = Clamp01((p.X - box.X) / box.Width)
	}
	if box.Height > 0 {
		ty = Clamp01((p.Y - box.Y) / box.Height)
	}
	return tx, ty
}

// FromNormalized converts normalized coordinates back to a point in the
// space box is expressed in.
func FromNormalized(tx, ty float64, box Rect) Point2D {
	return Point2D{
		X: box.X + box.Width*tx,
		Y: box.Y + box.Height*ty,
	}
}

// Direction returns the unit vector from -> to. Coincident points return the
// unit x vector.
func Direction(from, to Point2D) Point2D {
	d := r2.Sub(to.vec(), from.vec())
	if r2.Norm(d) == 0 {
		return Point2D{X: 1}
	}
	return fromVec(r2.Unit(d))
}

// OffsetAlongDirection pushes to further away from from by distance.
func OffsetAlongDirection(from, to Point2D, distance float64) Point2D {
	return to.Add(Direction(from, to).Scale(distance))
}

// InverseOffset solves OffsetAlongDirection for its "to" argument given the
// offset point: the result r satisfies OffsetAlongDirection(from, r, d) == p
// whenever p is at least d away from from.
func InverseOffset(from, p Point2D, distance float64) Point2D {
	return p.Sub(Direction(from, p).Scale(distance))
}

// StageTransform maps workspace space to stage space: a uniform scale by zoom
// about the centre of the workspace.
func StageTransform(zoom float64, workspace Size) AffineTransform {
	cx, cy := workspace.Width/2, workspace.Height/2
	return Translation(cx, cy).
		Compose(Scale(zoom, zoom)).
		Compose(Translation(-cx, -cy))
}

// StageToWorkspace converts a stage-space point back to workspace space.
func StageToWorkspace(p Point2D, zoom float64, workspace Size) Point2D {
	inv, ok := StageTransform(zoom, workspace).Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// FitRect returns the largest rectangle with content's aspect ratio that fits
// inside area, centred in it.
func FitRect(content Size, area Rect) Rect {
	if content.Width <= 0 || content.Height <= 0 || area.Empty() {
		return area
	}
	s := math.Min(area.Width/content.Width, area.Height/content.Height)
	w, h := content.Width*s, content.Height*s
	return Rect{
		X:      area.X + (area.Width-w)/2,
		Y:      area.Y + (area.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// AngleDegrees returns the angle of vector v measured from the positive x
// axis, in degrees, with y pointing down as in screen space.
func AngleDegrees(v Point2D) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}
