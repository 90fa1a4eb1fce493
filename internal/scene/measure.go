package scene

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/opentype"
)

// Measurer reports the advance width of a single line of label text.
type Measurer interface {
	TextWidth(line string) float64
}

// NewFace returns the label font (medium weight sans) at size pixels.
func NewFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}
	return face, nil
}

// FontMeasurer measures text with a real font face.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

// NewFontMeasurer creates a measurer for the label font at size pixels.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	face, err := NewFace(size)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face}, nil
}

// TextWidth implements Measurer. Faces keep glyph caches, so calls are
// serialized.
func (m *FontMeasurer) TextWidth(line string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(font.MeasureString(m.face, line)) / 64
}

// FixedMeasurer assigns every rune the same advance. Used when no font is
// available and in tests.
type FixedMeasurer float64

// TextWidth implements Measurer.
func (m FixedMeasurer) TextWidth(line string) float64 {
	return float64(len([]rune(line))) * float64(m)
}
