package canvas

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"input-mapper/pkg/colorutil"
	"input-mapper/pkg/geometry"
)

var (
	selectionColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	previewFill    = color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xe0}
)

// drawOverlay paints ov onto output. xf maps stage space to pixels and
// scale is its uniform scale factor.
func drawOverlay(output *image.RGBA, ov Overlay, xf geometry.AffineTransform, scale float64, face font.Face) {
	b := output.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), output, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), scanner)

	if ov.Selection != nil {
		r := ov.Selection.Transform(xf)
		stroker.Clear()
		stroker.SetStroke(fixed.Int26_6(2*scale*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Round)
		rasterx.AddRoundRect(r.X-2*scale, r.Y-2*scale, r.X+r.Width+2*scale, r.Y+r.Height+2*scale, 14*scale, 14*scale, 0, rasterx.RoundGap, stroker)
		stroker.SetColor(selectionColor)
		stroker.Draw()
	}

	for _, d := range ov.Dots {
		drawDot(filler, stroker, d, xf, scale)
	}

	if ov.Preview != "" && face != nil {
		drawPreview(output, filler, ov.Preview, xf.Apply(ov.PreviewAt), face)
	}
}

func drawDot(filler *rasterx.Filler, stroker *rasterx.Stroker, d Dot, xf geometry.AffineTransform, scale float64) {
	c := xf.Apply(d.Center)
	r := d.Radius * scale
	fill := colorutil.MarkerDot
	if d.Active {
		fill = colorutil.White
	}

	filler.Clear()
	rasterx.AddCircle(c.X, c.Y, r, filler)
	filler.SetColor(fill)
	filler.Draw()

	stroker.Clear()
	stroker.SetStroke(fixed.Int26_6(2*scale*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Round)
	rasterx.AddCircle(c.X, c.Y, r, stroker)
	stroker.SetColor(colorutil.White)
	stroker.Draw()
}

// drawPreview draws the coordinate readout as a badge with its top-left
// corner at at.
func drawPreview(output *image.RGBA, filler *rasterx.Filler, text string, at geometry.Point2D, face font.Face) {
	m := face.Metrics()
	pad := float64(m.Height) / 64 / 3
	w := float64(font.MeasureString(face, text))/64 + 2*pad
	h := float64(m.Height)/64 + 2*pad

	filler.Clear()
	rasterx.AddRoundRect(at.X, at.Y, at.X+w, at.Y+h, pad, pad, 0, rasterx.RoundGap, filler)
	filler.SetColor(previewFill)
	filler.Draw()

	d := font.Drawer{Dst: output, Src: image.NewUniform(colorutil.White), Face: face}
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6((at.X + pad) * 64),
		Y: fixed.Int26_6((at.Y+pad)*64) + m.Ascent,
	}
	d.DrawString(text)
}
