// Package export writes a scene out as a standalone SVG document or as a
// PNG raster. Both formats are drawn from the same scene the editor shows,
// with markers baked as plain shapes so no renderer needs marker support.
package export

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"input-mapper/internal/scene"
)

// Label chrome shared by the SVG and PNG writers.
const (
	LabelFill       = "#1e293b"
	LabelStroke     = "rgba(255,255,255,0.2)"
	LabelTextColor  = "white"
	PlaceholderFill = "#94a3b8"
	LabelFont       = "sans-serif"
	LabelFontWeight = 500
)

// Options controls an export.
type Options struct {
	// Icons resolves label icons. Nil omits every icon.
	Icons IconSource

	// Title is written as the document title when set.
	Title string

	// Background fills the canvas before drawing; empty leaves it
	// transparent.
	Background string
}

// WriteSVG writes s as a standalone SVG document. Icons are embedded as data
// URIs; an icon that cannot be resolved is logged and left out.
func WriteSVG(ctx context.Context, w io.Writer, s *scene.Scene, opts Options) error {
	var buf bytes.Buffer
	width, height := pixels(s.Workspace.Width), pixels(s.Workspace.Height)

	canvas := svg.New(&buf)
	canvas.Startview(width, height, 0, 0, width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	if opts.Background != "" {
		canvas.Rect(0, 0, width, height, "fill:"+opts.Background)
	}
	writeBase(canvas, s)

	canvas.Gid("labels")
	for _, v := range s.Labels {
		if err := ctx.Err(); err != nil {
			return err
		}
		writeLabel(ctx, canvas, s, v, opts.Icons)
	}
	canvas.Gend()
	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

// writeBase draws the device illustration and the connectors.
func writeBase(canvas *svg.SVG, s *scene.Scene) {
	if s.Illustration != nil {
		canvas.Gtransform(s.Illustration.GroupTransform(s.DeviceRender))
		canvas.Writer.Write(s.Illustration.Inner(s.Palette))
		canvas.Gend()
	}

	canvas.Gid("connectors")
	for _, c := range s.Connectors {
		canvas.Path(c.Path.D(), c.Style.StrokeCSS())
		if c.Marker != nil {
			canvas.Gtransform(c.Marker.SVGTransform())
			io.WriteString(canvas.Writer, c.Marker.SVG())
			canvas.Gend()
		}
	}
	canvas.Gend()
}

func writeLabel(ctx context.Context, canvas *svg.SVG, s *scene.Scene, v scene.LabelView, icons IconSource) {
	lm := s.Layout.Metrics
	w, h := v.Local.Width, v.Local.Height

	transform := fmt.Sprintf("translate(%s,%s)", num(v.Box.X), num(v.Box.Y))
	if s.Zoom != 1 {
		transform += fmt.Sprintf(" scale(%s)", num(s.Zoom))
	}
	canvas.Gtransform(transform)
	fmt.Fprintf(canvas.Writer, `<rect width="%s" height="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		num(w), num(h), num(lm.CornerRadius), num(lm.CornerRadius), LabelFill, LabelStroke)

	textX := lm.TextXNoIcon
	if uri := iconURI(ctx, icons, v.IconPath); uri != "" {
		textX = lm.TextX
		fmt.Fprintf(canvas.Writer, `<image x="%s" y="%s" width="%s" height="%s" href="%s" xlink:href="%s"/>`+"\n",
			num(lm.IconX), num((h-lm.IconSize)/2), num(lm.IconSize), num(lm.IconSize), uri, uri)
	}

	fill := LabelTextColor
	if v.Placeholder {
		fill = PlaceholderFill
	}
	fmt.Fprintf(canvas.Writer, `<text x="%s" fill="%s" font-family="%s" font-size="%spx" font-weight="%d">`,
		num(textX), fill, LabelFont, num(lm.FontSize), LabelFontWeight)
	for i, y := range lm.Baselines(len(v.Lines), h) {
		fmt.Fprintf(canvas.Writer, `<tspan x="%s" y="%s">`, num(textX), num(y))
		xml.EscapeText(canvas.Writer, []byte(v.Lines[i]))
		io.WriteString(canvas.Writer, "</tspan>")
	}
	io.WriteString(canvas.Writer, "</text>\n")
	canvas.Gend()
}

// iconURI resolves ref to a data URI, or "" when it has none.
func iconURI(ctx context.Context, icons IconSource, ref string) string {
	if icons == nil || ref == "" {
		return ""
	}
	data, mt, err := icons.Icon(ctx, ref)
	if err != nil {
		log.Printf("Export: icon %s: %v", ref, err)
		return ""
	}
	return DataURI(data, mt)
}

func pixels(v float64) int {
	return int(math.Ceil(v))
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	for len(s) > 1 && (s[len(s)-1] == '0' || s[len(s)-1] == '.') {
		if s[len(s)-1] == '.' {
			s = s[:len(s)-1]
			break
		}
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
