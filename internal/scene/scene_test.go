package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/internal/connector"
	"input-mapper/internal/illustration"
	"input-mapper/internal/mapping"
	"input-mapper/pkg/geometry"
)

type iconsByKey map[string]string

func (m iconsByKey) IconPath(_, key string) string { return m[key] }

func testIllustration(t *testing.T) *illustration.Illustration {
	t.Helper()
	ill, err := illustration.Parse([]byte(`<svg width="300" height="200" viewBox="0 0 600 400"></svg>`))
	require.NoError(t, err)
	return ill
}

func testLayout() Layout {
	lay := DefaultLayout(geometry.NewSize(1000, 600))
	lay.DeviceArea = geometry.NewRect(50, 50, 300, 200)
	return lay
}

func TestBoxSize(t *testing.T) {
	lm := DefaultMetrics
	m := FixedMeasurer(10)

	// "Action..." is 9 runes: 90 + 10 slack.
	assert.Equal(t, geometry.NewSize(44+100+16, 40), lm.BoxSize("", m))
	// Short text keeps the minimum text width.
	assert.Equal(t, geometry.NewSize(44+60+16, 40), lm.BoxSize("Go", m))

	two := lm.BoxSize("Jump\nDouble jump", m)
	assert.Equal(t, 44+120.0+16, two.Width)
	assert.InDelta(t, 2*19.6+16, two.Height, 1e-9)

	three := lm.BoxSize("a\nb\nc", m)
	assert.InDelta(t, 3*19.6+16, three.Height, 1e-9)
}

func TestBaselines(t *testing.T) {
	lm := DefaultMetrics
	assert.Equal(t, []float64{25}, lm.Baselines(1, 40))
	b := lm.Baselines(2, 2*19.6+16)
	require.Len(t, b, 2)
	assert.InDelta(t, 19.6, b[1]-b[0], 1e-9)
	assert.InDelta(t, (2*19.6+16)/2+5, (b[0]+b[1])/2, 1e-9)
}

func TestDeviceBox(t *testing.T) {
	lay := testLayout()
	assert.Equal(t, geometry.NewRect(50, 50, 300, 200), lay.DeviceBox(geometry.NewSize(300, 200)))
	assert.Equal(t, geometry.NewRect(100, 100, 200, 100), lay.DeviceBox(geometry.NewSize(200, 100)))
	assert.Equal(t, geometry.NewRect(50, 75, 300, 150), lay.DeviceBox(geometry.NewSize(600, 300)))
}

func TestBuildProjectsLabels(t *testing.T) {
	labels := []mapping.Label{
		{ID: "a", Key: "aButton", DeviceType: "xbox", Text: "Jump", X: 400, Y: 300, TargetX: 0.5, TargetY: 0.5},
		{ID: "b", Key: "bButton", DeviceType: "xbox", X: 600, Y: 100, TargetX: 0, TargetY: 0},
	}
	s := Build(Input{
		Labels:       labels,
		Style:        connector.DefaultStyle(),
		Zoom:         1,
		Illustration: testIllustration(t),
		Layout:       testLayout(),
		Measurer:     FixedMeasurer(10),
		Icons:        iconsByKey{"aButton": "keys/xbox/aButton.svg"},
	})

	assert.Equal(t, geometry.NewRect(50, 50, 300, 200), s.Device)
	require.Len(t, s.Labels, 2)
	require.Len(t, s.Connectors, 2)

	a, ok := s.Label("a")
	require.True(t, ok)
	assert.True(t, a.HasIcon())
	assert.Equal(t, geometry.NewPoint2D(200, 150), a.Anchor)
	// The marker is pushed 25px beyond the anchor, away from the label.
	assert.InDelta(t, 25, a.Marker.Distance(a.Anchor), 1e-9)
	assert.Less(t, a.Marker.Distance(a.Center()), a.Anchor.Distance(a.Center())+25+1e-9)
	assert.Greater(t, a.Center().Distance(a.Marker), a.Center().Distance(a.Anchor))

	b, _ := s.Label("b")
	assert.False(t, b.HasIcon())
	assert.True(t, b.Placeholder)
	assert.Equal(t, []string{mapping.PlaceholderText}, b.Lines)

	c := s.Connectors[0]
	assert.Equal(t, "a", c.LabelID)
	assert.Equal(t, a.Center(), c.Path.Start)
	assert.Equal(t, a.Marker, c.Path.End)
	require.NotNil(t, c.Marker)
}

func TestBuildAtZoom(t *testing.T) {
	labels := []mapping.Label{{ID: "a", Key: "k", X: 500, Y: 300, TargetX: 0.5, TargetY: 0.5}}
	in := Input{Labels: labels, Style: connector.DefaultStyle(), Layout: testLayout(), Measurer: FixedMeasurer(10)}

	in.Zoom = 1
	one := Build(in)
	in.Zoom = 2
	two := Build(in)

	assert.Equal(t, 2.0, two.Zoom)
	assert.InDelta(t, one.Labels[0].Box.Width*2, two.Labels[0].Box.Width, 1e-9)
	// The workspace centre (500,300) is fixed under zoom.
	assert.Equal(t, geometry.NewPoint2D(500, 300), two.Labels[0].Box.TopLeft())

	back := two.ToWorkspace(two.Labels[0].Marker)
	assert.InDelta(t, one.Labels[0].Marker.X, back.X, 1e-9)
	assert.InDelta(t, one.Labels[0].Marker.Y, back.Y, 1e-9)

	in.Zoom = 9
	assert.Equal(t, geometry.MaxZoom, Build(in).Zoom)
}

func TestHitTest(t *testing.T) {
	labels := []mapping.Label{{ID: "a", Key: "aButton", Text: "Jump", X: 400, Y: 300, TargetX: 0.5, TargetY: 0.5}}
	s := Build(Input{
		Labels:   labels,
		Zoom:     1,
		Layout:   testLayout(),
		Measurer: FixedMeasurer(10),
		Icons:    iconsByKey{"aButton": "x.svg"},
	})
	v := s.Labels[0]

	assert.Equal(t, Hit{Kind: HitAnchor, LabelID: "a"}, s.HitTest(v.Marker.Add(geometry.NewPoint2D(3, 3))))
	assert.Equal(t, Hit{Kind: HitLabel, LabelID: "a"}, s.HitTest(geometry.NewPoint2D(405, 320)))
	assert.Equal(t, Hit{Kind: HitText, LabelID: "a"}, s.HitTest(geometry.NewPoint2D(460, 320)))
	assert.Equal(t, HitNone, s.HitTest(geometry.NewPoint2D(5, 5)).Kind)
	assert.Equal(t, "anchor", HitAnchor.String())
}

func TestFontMeasurer(t *testing.T) {
	m, err := NewFontMeasurer(14)
	require.NoError(t, err)
	short := m.TextWidth("Jump")
	long := m.TextWidth("Jump higher")
	assert.Positive(t, short)
	assert.Greater(t, long, short)
	assert.Equal(t, 0.0, m.TextWidth(""))
}
