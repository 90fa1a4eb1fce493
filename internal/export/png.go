package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"input-mapper/internal/scene"
	"input-mapper/pkg/colorutil"
)

// DefaultRasterScale is the pixel density of a PNG export.
const DefaultRasterScale = 2.0

// Rasterize draws s into an RGBA image at scale pixels per render unit.
// The device and connectors go through the SVG rasterizer; label chrome,
// icons and text are drawn directly.
func Rasterize(ctx context.Context, s *scene.Scene, scale float64, opts Options) (*image.RGBA, error) {
	if !(scale > 0) {
		scale = DefaultRasterScale
	}
	w := pixels(s.Workspace.Width * scale)
	h := pixels(s.Workspace.Height * scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	if opts.Background != "" {
		bg, err := colorutil.ParseHex(opts.Background)
		if err != nil {
			return nil, err
		}
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	if err := drawBase(img, s, scale); err != nil {
		return nil, err
	}

	r := &labelRasterizer{
		img:     img,
		scanner: rasterx.NewScannerGV(w, h, img, img.Bounds()),
		scale:   scale * s.Zoom,
		metrics: s.Layout.Metrics,
	}
	face, err := scene.NewFace(s.Layout.Metrics.FontSize * r.scale)
	if err != nil {
		return nil, err
	}
	r.face = face
	defer face.Close()

	for _, v := range s.Labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.draw(ctx, v, scale, opts.Icons)
	}
	return img, nil
}

// WritePNG rasterizes s and encodes it as PNG.
func WritePNG(ctx context.Context, w io.Writer, s *scene.Scene, scale float64, opts Options) error {
	img, err := Rasterize(ctx, s, scale, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawBase renders the device and connectors by round-tripping them through
// SVG.
func drawBase(img *image.RGBA, s *scene.Scene, scale float64) error {
	var buf bytes.Buffer
	width, height := pixels(s.Workspace.Width), pixels(s.Workspace.Height)
	canvas := svg.New(&buf)
	canvas.Startview(width, height, 0, 0, width, height)
	writeBase(canvas, s)
	canvas.End()

	icon, err := oksvg.ReadIconStream(&buf, oksvg.WarnErrorMode)
	if err != nil {
		return fmt.Errorf("failed to parse scene: %w", err)
	}
	b := img.Bounds()
	icon.SetTarget(0, 0, float64(width)*scale, float64(height)*scale)
	icon.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), img, b)), 1)
	return nil
}

type labelRasterizer struct {
	img     *image.RGBA
	scanner *rasterx.ScannerGV
	face    font.Face
	scale   float64 // pixels per label-local unit
	metrics scene.LabelMetrics
}

func (r *labelRasterizer) draw(ctx context.Context, v scene.LabelView, pxPerUnit float64, icons IconSource) {
	lm := r.metrics
	ox, oy := v.Box.X*pxPerUnit, v.Box.Y*pxPerUnit
	k := r.scale
	w, h := v.Local.Width, v.Local.Height
	b := r.img.Bounds()

	filler := rasterx.NewFiller(b.Dx(), b.Dy(), r.scanner)
	rasterx.AddRoundRect(ox, oy, ox+w*k, oy+h*k, lm.CornerRadius*k, lm.CornerRadius*k, 0, rasterx.RoundGap, filler)
	filler.SetColor(colorutil.LabelFill)
	filler.Draw()

	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), r.scanner)
	stroker.SetStroke(fixed.Int26_6(math.Max(1, k)*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Round)
	rasterx.AddRoundRect(ox, oy, ox+w*k, oy+h*k, lm.CornerRadius*k, lm.CornerRadius*k, 0, rasterx.RoundGap, stroker)
	stroker.SetColor(colorutil.LabelEdge)
	stroker.Draw()

	textX := lm.TextXNoIcon
	if icons != nil && v.IconPath != "" {
		rect := image.Rect(
			int(math.Round(ox+lm.IconX*k)), int(math.Round(oy+(h-lm.IconSize)/2*k)),
			int(math.Round(ox+(lm.IconX+lm.IconSize)*k)), int(math.Round(oy+(h+lm.IconSize)/2*k)))
		if err := r.icon(ctx, icons, v.IconPath, rect); err != nil {
			log.Printf("Export: icon %s: %v", v.IconPath, err)
		} else {
			textX = lm.TextX
		}
	}

	var fill color.Color = colorutil.White
	if v.Placeholder {
		fill = colorutil.MustParseHex(PlaceholderFill)
	}
	d := font.Drawer{Dst: r.img, Src: image.NewUniform(fill), Face: r.face}
	for i, y := range lm.Baselines(len(v.Lines), h) {
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6((ox + textX*k) * 64),
			Y: fixed.Int26_6((oy + y*k) * 64),
		}
		d.DrawString(v.Lines[i])
	}
}

func (r *labelRasterizer) icon(ctx context.Context, icons IconSource, ref string, rect image.Rectangle) error {
	data, mt, err := icons.Icon(ctx, ref)
	if err != nil {
		return err
	}
	if mt == "image/svg+xml" {
		ic, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
		if err != nil {
			return err
		}
		ic.SetTarget(float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()))
		b := r.img.Bounds()
		ic.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), r.scanner), 1)
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	draw.CatmullRom.Scale(r.img, rect, src, src.Bounds(), draw.Over, nil)
	return nil
}
