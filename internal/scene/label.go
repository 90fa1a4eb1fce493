package scene

import (
	"math"
	"strings"

	"input-mapper/internal/mapping"
	"input-mapper/pkg/geometry"
)

// LabelMetrics sizes the label box and places its contents, in workspace
// pixels.
type LabelMetrics struct {
	IconX        float64
	IconSize     float64
	TextX        float64
	TextXNoIcon  float64
	PadRight     float64
	MinTextWidth float64
	TextSlack    float64
	MinHeight    float64
	LineHeight   float64
	PadY         float64
	FontSize     float64
	CornerRadius float64
	BaselineDrop float64
}

// DefaultMetrics is the label chrome of the editor: 14px text with 1.4em
// lines, a 24px icon and 12px rounded corners.
var DefaultMetrics = LabelMetrics{
	IconX:        12,
	IconSize:     24,
	TextX:        44,
	TextXNoIcon:  16,
	PadRight:     16,
	MinTextWidth: 60,
	TextSlack:    10,
	MinHeight:    40,
	LineHeight:   19.6,
	PadY:         16,
	FontSize:     14,
	CornerRadius: 12,
	BaselineDrop: 5,
}

// SplitLines splits label text at embedded line breaks.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// BoxSize measures the label box for text. Empty text is measured as the
// placeholder.
func (lm LabelMetrics) BoxSize(text string, m Measurer) geometry.Size {
	if text == "" {
		text = mapping.PlaceholderText
	}
	lines := SplitLines(text)
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, m.TextWidth(line))
	}
	return geometry.Size{
		Width:  lm.TextX + math.Max(lm.MinTextWidth, widest+lm.TextSlack) + lm.PadRight,
		Height: math.Max(lm.MinHeight, float64(len(lines))*lm.LineHeight+lm.PadY),
	}
}

// Baselines returns the baseline of each of n lines in a box of the given
// height, centred on the line count.
func (lm LabelMetrics) Baselines(n int, height float64) []float64 {
	out := make([]float64, n)
	first := height/2 - float64(n-1)*lm.LineHeight/2 + lm.BaselineDrop
	for i := range out {
		out[i] = first + float64(i)*lm.LineHeight
	}
	return out
}

// LabelView is the projection of one label into render space.
type LabelView struct {
	Label mapping.Label

	// Box is the label rectangle; Local is its unzoomed size.
	Box   geometry.Rect
	Local geometry.Size

	Lines       []string
	Placeholder bool
	IconPath    string

	// Anchor is the logical anchor point; Marker is the offset point the
	// anchor marker is drawn at and the connector ends on.
	Anchor geometry.Point2D
	Marker geometry.Point2D
}

// HasIcon reports whether the label resolves an icon.
func (v LabelView) HasIcon() bool {
	return v.IconPath != ""
}

// Center returns the centre of the label box.
func (v LabelView) Center() geometry.Point2D {
	return v.Box.Center()
}
