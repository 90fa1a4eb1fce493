package illustration

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/assets"
	"input-mapper/pkg/geometry"
)

const sample = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="400px" height="200" viewBox="0 0 800 400">
  <path d="M0 0 L800 0 L800 400 Z" fill="#242424"/>
  <rect x="10" y="10" width="20" height="20" fill="#232323"/>
  <circle cx="50" cy="50" r="10" fill="#3C3C3C"/>
  <circle cx="90" cy="50" r="10" fill="#5a5a5a"/>
  <circle cx="90" cy="90" r="10" fill="#e03131"/>
</svg>`

func TestParse(t *testing.T) {
	ill, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 400.0, ill.Width)
	assert.Equal(t, 200.0, ill.Height)
	require.True(t, ill.HasViewBox)
	assert.Equal(t, geometry.NewRect(0, 0, 800, 400), ill.ViewBox)
	assert.Equal(t, 2, ill.BodyRegions())
	assert.True(t, strings.HasPrefix(string(ill.Inner(Palette{})), "<path"))
}

func TestParseSizeFromViewBox(t *testing.T) {
	ill, err := Parse([]byte(`<svg viewBox="10,20,300,150"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, 300.0, ill.Width)
	assert.Equal(t, 150.0, ill.Height)
	assert.Equal(t, geometry.NewRect(10, 20, 300, 150), ill.ViewBox)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"empty":     "",
		"not svg":   "<html></html>",
		"no size":   "<svg></svg>",
		"bad vbox":  `<svg viewBox="0 0 10"></svg>`,
		"zero vbox": `<svg viewBox="0 0 0 10"></svg>`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestRecolor(t *testing.T) {
	ill, err := Parse([]byte(sample))
	require.NoError(t, err)

	out := string(ill.Inner(Palette{Body: "#192752", Accent: "#fff"}))
	assert.Equal(t, 2, strings.Count(out, `fill="#192752"`))
	assert.NotContains(t, out, "#242424")
	assert.NotContains(t, out, "#232323")
	assert.Contains(t, out, `fill="#3C3C3C"`, "secondary left alone without a colour")
	assert.Contains(t, out, `fill="#ffffff"`)
	assert.Contains(t, out, `fill="#e03131"`)

	// Recolouring always starts from the pristine source.
	again := string(ill.Inner(Palette{Body: "#ff0000"}))
	assert.Equal(t, 2, strings.Count(again, `fill="#ff0000"`))

	doc := string(ill.Document(Palette{Body: "#192752"}))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))
	assert.Contains(t, doc, `viewBox="0 0 800 400"`)
}

func TestRecolorOnlyShapes(t *testing.T) {
	src := `<svg width="10" height="10">
  <g fill="#242424"><path d="M0 0" fill="#242424"/></g>
  <text x="1" fill="#242424">A</text>
  <ellipse rx="1" ry="1" fill="#232323"/>
  <rectangle fill="#242424"/>
</svg>`
	ill, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 2, ill.BodyRegions())

	out := string(ill.Inner(Palette{Body: "#192752"}))
	assert.Contains(t, out, `<g fill="#242424">`)
	assert.Contains(t, out, `<path d="M0 0" fill="#192752"/>`)
	assert.Contains(t, out, `<text x="1" fill="#242424">`)
	assert.Contains(t, out, `<ellipse rx="1" ry="1" fill="#192752"/>`)
	assert.Contains(t, out, `<rectangle fill="#242424"/>`)
}

func TestGroupTransform(t *testing.T) {
	ill, err := Parse([]byte(sample))
	require.NoError(t, err)

	box := geometry.NewRect(50, 60, 400, 200)
	assert.Equal(t, "translate(50,60) scale(0.5,0.5) translate(0,0)", ill.GroupTransform(box))

	p := ill.Transform(box).Apply(geometry.NewPoint2D(800, 400))
	assert.InDelta(t, 450, p.X, 1e-9)
	assert.InDelta(t, 260, p.Y, 1e-9)

	plain, err := Parse([]byte(`<svg width="100" height="50"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, "translate(5,5)", plain.GroupTransform(geometry.NewRect(5, 5, 100, 50)))
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{"pad.svg": {Data: []byte(sample)}}
	ill, err := Load(fsys, "pad.svg")
	require.NoError(t, err)
	assert.Equal(t, "pad.svg", ill.Path)

	_, err = Load(fsys, "missing.svg")
	assert.Error(t, err)
}

func TestShippedIllustrations(t *testing.T) {
	for _, name := range []string{"XBox", "PlayStation", "Switch", "Keyboard", "Mouse"} {
		ill, err := Load(assets.FS(), "controllers/"+name+".svg")
		require.NoError(t, err, name)
		assert.Positive(t, ill.BodyRegions(), name)
	}
}
