// Package scene projects the label/anchor model into render space. A Scene
// is a pure function of the model state, the line style and the zoom; the
// live view and the exporters draw from it and never read geometry back.
package scene

import (
	"math"

	"input-mapper/internal/connector"
	"input-mapper/internal/illustration"
	"input-mapper/internal/mapping"
	"input-mapper/pkg/geometry"
)

// IconLocator resolves the icon of a key.
type IconLocator interface {
	IconPath(deviceType, key string) string
}

// Layout is the fixed arrangement of the workspace.
type Layout struct {
	Workspace    geometry.Size
	DeviceArea   geometry.Rect
	MarkerOffset float64
	MarkerRadius float64
	Metrics      LabelMetrics
}

// DefaultLayout returns the editor layout for a workspace size: the device
// is centred in the region between the side panels.
func DefaultLayout(workspace geometry.Size) Layout {
	return Layout{
		Workspace:    workspace,
		DeviceArea:   geometry.NewRect(40, 100, math.Max(0, workspace.Width-80), math.Max(0, workspace.Height-200)),
		MarkerOffset: 25,
		MarkerRadius: 8,
		Metrics:      DefaultMetrics,
	}
}

// DeviceBox places an illustration of intrinsic size in the device area,
// centred at its natural size, shrunk to fit when larger.
func (l Layout) DeviceBox(size geometry.Size) geometry.Rect {
	area := l.DeviceArea
	if size.Width <= area.Width && size.Height <= area.Height {
		return geometry.NewRect(
			area.X+(area.Width-size.Width)/2,
			area.Y+(area.Height-size.Height)/2,
			size.Width, size.Height)
	}
	return geometry.FitRect(size, area)
}

// Input is everything a scene is projected from.
type Input struct {
	Labels       []mapping.Label
	Style        connector.Style
	Zoom         float64
	Illustration *illustration.Illustration
	Palette      illustration.Palette
	Layout       Layout
	Measurer     Measurer
	Icons        IconLocator
}

// Scene is one render pass worth of geometry, in render (stage) space.
type Scene struct {
	Zoom      float64
	Workspace geometry.Size
	Layout    Layout

	// Transform maps workspace space to render space.
	Transform geometry.AffineTransform

	// Device is the illustration's box in workspace space; DeviceRender
	// is the same box in render space.
	Device       geometry.Rect
	DeviceRender geometry.Rect

	Illustration *illustration.Illustration
	Palette      illustration.Palette

	Style      connector.Style
	Labels     []LabelView
	Connectors []connector.Connector

	index map[string]int
}

// Build projects in into a scene. Connectors are rebuilt in full.
func Build(in Input) *Scene {
	zoom := geometry.ClampZoom(in.Zoom)
	if in.Zoom == 0 {
		zoom = 1
	}
	lay := in.Layout
	if lay.Metrics == (LabelMetrics{}) {
		lay.Metrics = DefaultMetrics
	}
	meas := in.Measurer
	if meas == nil {
		meas = FixedMeasurer(lay.Metrics.FontSize * 0.55)
	}

	s := &Scene{
		Zoom:         zoom,
		Workspace:    lay.Workspace,
		Layout:       lay,
		Transform:    geometry.StageTransform(zoom, lay.Workspace),
		Illustration: in.Illustration,
		Palette:      in.Palette,
		Style:        in.Style,
		index:        make(map[string]int, len(in.Labels)),
	}

	if in.Illustration != nil {
		s.Device = lay.DeviceBox(in.Illustration.Size())
	} else {
		s.Device = lay.DeviceBox(geometry.NewSize(lay.DeviceArea.Width/2, lay.DeviceArea.Height/2))
	}
	s.DeviceRender = s.Device.Transform(s.Transform)

	for _, l := range in.Labels {
		v := s.project(l, meas, in.Icons)
		s.index[l.ID] = len(s.Labels)
		s.Labels = append(s.Labels, v)
		s.Connectors = append(s.Connectors, connector.Build(l.ID, v.Center(), v.Marker, in.Style))
	}
	return s
}

func (s *Scene) project(l mapping.Label, m Measurer, icons IconLocator) LabelView {
	lm := s.Layout.Metrics
	size := lm.BoxSize(l.Text, m)
	box := geometry.NewRect(l.X, l.Y, size.Width, size.Height)

	anchor := geometry.FromNormalized(l.TargetX, l.TargetY, s.Device)
	marker := geometry.OffsetAlongDirection(box.Center(), anchor, s.Layout.MarkerOffset)

	v := LabelView{
		Label:       l,
		Box:         box.Transform(s.Transform),
		Local:       size,
		Lines:       SplitLines(l.DisplayText()),
		Placeholder: l.Text == "",
		Anchor:      s.Transform.Apply(anchor),
		Marker:      s.Transform.Apply(marker),
	}
	if icons != nil {
		v.IconPath = icons.IconPath(l.DeviceType, l.Key)
	}
	return v
}

// Label returns the view of a label by id.
func (s *Scene) Label(id string) (LabelView, bool) {
	i, ok := s.index[id]
	if !ok {
		return LabelView{}, false
	}
	return s.Labels[i], true
}

// ToWorkspace maps a render-space point back to workspace space.
func (s *Scene) ToWorkspace(p geometry.Point2D) geometry.Point2D {
	inv, ok := s.Transform.Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}
