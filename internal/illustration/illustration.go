// Package illustration loads the vector drawing of a device and retargets its
// placeholder fills to the document colours.
package illustration

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"input-mapper/pkg/colorutil"
	"input-mapper/pkg/geometry"
)

// Placeholder fills used by the shipped illustrations.
var (
	BodyFills      = []string{"#242424", "#232323"}
	SecondaryFills = []string{"#3c3c3c"}
	AccentFills    = []string{"#5a5a5a"}
)

// ErrNotSVG is returned when the data has no <svg> root element.
var ErrNotSVG = errors.New("not an svg document")

// Palette is the set of colours applied to the placeholder regions. Empty
// fields leave the matching placeholders untouched.
type Palette struct {
	Body      string
	Secondary string
	Accent    string
}

// Illustration is a parsed device drawing.
type Illustration struct {
	Path string

	// Width and Height are the intrinsic rendered size. When the root
	// element has no width/height they come from the viewBox.
	Width, Height float64

	// ViewBox is the internal coordinate system, valid when HasViewBox.
	ViewBox    geometry.Rect
	HasViewBox bool

	source []byte
	inner  []byte
}

// Load reads and parses the illustration at path within fsys.
func Load(fsys fs.FS, path string) (*Illustration, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open illustration: %w", err)
	}
	ill, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse illustration %s: %w", path, err)
	}
	ill.Path = path
	return ill, nil
}

// Parse decodes the root element of an SVG document.
func Parse(data []byte) (*Illustration, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *xml.StartElement
	for root == nil {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, ErrNotSVG
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local != "svg" {
				return nil, ErrNotSVG
			}
			root = &se
		}
	}
	start := int(dec.InputOffset())
	end := bytes.LastIndex(data, []byte("</svg>"))
	if end < start {
		// Self-closing root.
		end = start
	}

	ill := &Illustration{
		source: data,
		inner:  bytes.TrimSpace(data[start:end]),
	}

	var w, h string
	for _, a := range root.Attr {
		switch a.Name.Local {
		case "width":
			w = a.Value
		case "height":
			h = a.Value
		case "viewBox":
			vb, err := parseViewBox(a.Value)
			if err != nil {
				return nil, err
			}
			ill.ViewBox = vb
			ill.HasViewBox = true
		}
	}
	ill.Width = parseLength(w, ill.ViewBox.Width)
	ill.Height = parseLength(h, ill.ViewBox.Height)
	if ill.Width <= 0 || ill.Height <= 0 {
		return nil, fmt.Errorf("illustration has no usable size (width=%q height=%q)", w, h)
	}
	return ill, nil
}

func parseViewBox(s string) (geometry.Rect, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid viewBox %q", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid viewBox %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geometry.Rect{}, fmt.Errorf("invalid viewBox %q: non-positive size", s)
	}
	return geometry.NewRect(v[0], v[1], v[2], v[3]), nil
}

// parseLength accepts unitless and px lengths; anything else (percentages,
// physical units) falls back.
func parseLength(s string, fallback float64) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// Size returns the intrinsic rendered size.
func (ill *Illustration) Size() geometry.Size {
	return geometry.NewSize(ill.Width, ill.Height)
}

// content is the coordinate box the markup is drawn in.
func (ill *Illustration) content() geometry.Rect {
	if ill.HasViewBox {
		return ill.ViewBox
	}
	return geometry.NewRect(0, 0, ill.Width, ill.Height)
}

// Transform maps the illustration's internal coordinates onto box.
func (ill *Illustration) Transform(box geometry.Rect) geometry.AffineTransform {
	c := ill.content()
	return geometry.Translation(box.X, box.Y).
		Compose(geometry.Scale(box.Width/c.Width, box.Height/c.Height)).
		Compose(geometry.Translation(-c.X, -c.Y))
}

// GroupTransform renders Transform(box) as an SVG transform attribute. The
// scale and inner translate are emitted only when the internal coordinate
// system differs from box.
func (ill *Illustration) GroupTransform(box geometry.Rect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "translate(%s,%s)", num(box.X), num(box.Y))
	c := ill.content()
	sx, sy := box.Width/c.Width, box.Height/c.Height
	if sx != 1 || sy != 1 || c.X != 0 || c.Y != 0 {
		fmt.Fprintf(&b, " scale(%s,%s) translate(%s,%s)", num(sx), num(sy), num(-c.X), num(-c.Y))
	}
	return b.String()
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fillAttr matches the fill attribute of the shape elements that can be body
// regions. Groups, text and gradients keep their fills.
var fillAttr = regexp.MustCompile(`(?i)(<(?:path|ellipse|circle|rect)\b[^>]*?\sfill\s*=\s*")(#[0-9a-f]{3,6})"`)

func recolor(markup []byte, p Palette) []byte {
	targets := make(map[string]string)
	add := func(placeholders []string, c string) {
		if c == "" {
			return
		}
		hex := colorutil.NormalizeHex(c, "")
		if hex == "" {
			return
		}
		for _, ph := range placeholders {
			targets[ph] = hex
		}
	}
	add(BodyFills, p.Body)
	add(SecondaryFills, p.Secondary)
	add(AccentFills, p.Accent)
	if len(targets) == 0 {
		return markup
	}

	return fillAttr.ReplaceAllFunc(markup, func(m []byte) []byte {
		sub := fillAttr.FindSubmatch(m)
		hex := colorutil.NormalizeHex(string(sub[2]), "")
		if to, ok := targets[hex]; ok {
			return []byte(string(sub[1]) + to + `"`)
		}
		return m
	})
}

// Inner returns the markup inside the root element with the palette applied.
func (ill *Illustration) Inner(p Palette) []byte {
	return recolor(ill.inner, p)
}

// Document returns the whole SVG document with the palette applied.
func (ill *Illustration) Document(p Palette) []byte {
	return recolor(ill.source, p)
}

// BodyRegions counts the elements carrying a body placeholder fill.
func (ill *Illustration) BodyRegions() int {
	n := 0
	for _, m := range fillAttr.FindAllSubmatch(ill.inner, -1) {
		hex := colorutil.NormalizeHex(string(m[2]), "")
		for _, b := range BodyFills {
			if hex == b {
				n++
			}
		}
	}
	return n
}
