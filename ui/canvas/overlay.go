package canvas

import (
	"input-mapper/internal/drag"
	"input-mapper/internal/scene"
	"input-mapper/pkg/geometry"
)

// Dot is an anchor marker handle in stage space.
type Dot struct {
	Center geometry.Point2D
	Radius float64
	Active bool
}

// Overlay is the editor chrome drawn over the scene: anchor handles, the
// selection outline and the coordinate readout of a drag. None of it is
// exported.
type Overlay struct {
	Dots      []Dot
	Selection *geometry.Rect
	Preview   string
	PreviewAt geometry.Point2D
}

// previewGap separates the readout from the pointer.
var previewGap = geometry.NewPoint2D(14, 18)

// BuildOverlay derives the chrome for sc. selected is the label whose text
// is being edited, pointer the last stage-space pointer position.
func BuildOverlay(sc *scene.Scene, selected string, ctl *drag.Controller, pointer geometry.Point2D) Overlay {
	var ov Overlay
	if sc == nil {
		return ov
	}
	active := ""
	if ctl != nil && ctl.State() == drag.DraggingAnchor {
		active = ctl.LabelID()
	}
	r := sc.Layout.MarkerRadius * sc.Zoom
	for _, v := range sc.Labels {
		ov.Dots = append(ov.Dots, Dot{Center: v.Marker, Radius: r, Active: v.Label.ID == active})
	}
	if v, ok := sc.Label(selected); ok {
		box := v.Box
		ov.Selection = &box
	}
	if ctl != nil && ctl.Preview() != "" {
		ov.Preview = ctl.Preview()
		ov.PreviewAt = pointer.Add(previewGap)
	}
	return ov
}
