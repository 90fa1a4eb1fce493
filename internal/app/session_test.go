package app

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/assets"
	"input-mapper/internal/catalog"
	"input-mapper/internal/connector"
	"input-mapper/internal/drag"
	"input-mapper/internal/mapping"
	"input-mapper/internal/scene"
	"input-mapper/pkg/geometry"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T) (*Session, *clock) {
	t.Helper()
	cat, err := catalog.Load(assets.FS(), assets.CatalogFile)
	require.NoError(t, err)
	s, err := NewSession(DefaultConfig(), cat, assets.FS(), scene.FixedMeasurer(8))
	require.NoError(t, err)
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = c.now
	return s, c
}

func TestNewSession(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, "xbox", s.DeviceType())
	require.NotNil(t, s.Illustration())
	assert.Equal(t, 1.0, s.Zoom())
	assert.Equal(t, connector.DefaultStyle(), s.Style())
	assert.Equal(t, mapping.DefaultColor, s.Colors().Body)
}

func TestZoomClamp(t *testing.T) {
	s, _ := newTestSession(t)

	z, err := s.SetZoom(0.2)
	require.NoError(t, err)
	assert.Equal(t, 0.2, z)
	assert.Equal(t, 0.2, s.Zoom())

	z, err = s.SetZoom(5.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, z)
	assert.Equal(t, 3.0, s.Zoom())

	_, err = s.ResetZoom()
	require.NoError(t, err)
	z, err = s.ZoomIn()
	require.NoError(t, err)
	assert.Equal(t, 1.1, z)
	z, err = s.ZoomOut()
	require.NoError(t, err)
	assert.Equal(t, 1.0, z)
}

func TestFrameSchedulesRebuilds(t *testing.T) {
	s, c := newTestSession(t)

	_, redrawn := s.Frame(c.now())
	assert.True(t, redrawn, "first frame draws")
	_, redrawn = s.Frame(c.now())
	assert.False(t, redrawn, "nothing changed")

	l, err := s.CreateLabel("aButton", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	sc, redrawn := s.Frame(c.now())
	assert.True(t, redrawn)
	_, ok := sc.Label(l.ID)
	assert.True(t, ok, "scene reflects the mutation that triggered it")

	// Zoom opens a window during which every frame rebuilds, easing
	// towards the requested zoom.
	_, err = s.SetZoom(2)
	require.NoError(t, err)
	c.advance(100 * time.Millisecond)
	sc, redrawn = s.Frame(c.now())
	assert.True(t, redrawn)
	assert.Greater(t, sc.Zoom, 1.0)
	assert.Less(t, sc.Zoom, 2.0)
	assert.True(t, s.Animating(c.now()))

	c.advance(100 * time.Millisecond)
	_, redrawn = s.Frame(c.now())
	assert.True(t, redrawn)

	c.advance(200 * time.Millisecond)
	sc, redrawn = s.Frame(c.now())
	assert.True(t, redrawn, "first frame after the window settles")
	assert.Equal(t, 2.0, sc.Zoom)
	_, redrawn = s.Frame(c.now())
	assert.False(t, redrawn)
	assert.False(t, s.Animating(c.now()))

	// Text edits open the shorter reflow window.
	_, err = s.UpdateText(l.ID, "Jump")
	require.NoError(t, err)
	s.Frame(c.now())
	c.advance(200 * time.Millisecond)
	_, redrawn = s.Frame(c.now())
	assert.True(t, redrawn)
	c.advance(100 * time.Millisecond)
	s.Frame(c.now())
	_, redrawn = s.Frame(c.now())
	assert.False(t, redrawn)
}

func TestZoomTransitionSupersedes(t *testing.T) {
	s, c := newTestSession(t)
	_, err := s.SetZoom(3)
	require.NoError(t, err)
	c.advance(100 * time.Millisecond)
	mid, _ := s.Frame(c.now())

	// The second transition starts from where the first had got to.
	_, err = s.SetZoom(1)
	require.NoError(t, err)
	start, _ := s.Frame(c.now())
	assert.InDelta(t, mid.Zoom, start.Zoom, 1e-9)

	c.advance(350 * time.Millisecond)
	end, _ := s.Frame(c.now())
	assert.Equal(t, 1.0, end.Zoom)
}

func TestExportGuard(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.SetZoom(2)
	require.NoError(t, err)
	_, err = s.CreateLabel("aButton", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)

	err = s.Export(func(sc *scene.Scene) error {
		assert.Equal(t, 1.0, sc.Zoom)
		assert.Len(t, sc.Labels, 1)
		assert.True(t, s.Exporting())

		z, err := s.SetZoom(0.5)
		assert.ErrorIs(t, err, ErrExportInProgress)
		assert.Equal(t, 2.0, z)

		assert.ErrorIs(t, s.Export(func(*scene.Scene) error { return nil }), ErrExportInProgress)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, s.Exporting())
	assert.Equal(t, 2.0, s.Zoom(), "live zoom untouched")

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Export(func(*scene.Scene) error { return boom }), boom)
	assert.False(t, s.Exporting())
	_, err = s.SetZoom(1)
	assert.NoError(t, err)
}

func TestLabelLifecycle(t *testing.T) {
	s, _ := newTestSession(t)
	var events []EventType
	for _, ev := range []EventType{EventLabelsChanged, EventModified} {
		ev := ev
		s.On(ev, func(interface{}) { events = append(events, ev) })
	}

	l, err := s.DropKey("aButton", geometry.NewPoint2D(300, 300))
	require.NoError(t, err)
	assert.Equal(t, 250.0, l.X)
	assert.Equal(t, 280.0, l.Y)
	assert.True(t, s.Modified())
	assert.Contains(t, events, EventLabelsChanged)

	_, err = s.CreateLabel("crossButton", geometry.Point2D{})
	assert.ErrorIs(t, err, mapping.ErrUnknownKey)

	assert.True(t, s.RemoveLabel(l.ID))
	assert.False(t, s.RemoveLabel(l.ID))
	for _, c := range s.Scene().Connectors {
		assert.NotEqual(t, l.ID, c.LabelID)
	}
}

func TestDragThroughSession(t *testing.T) {
	s, _ := newTestSession(t)
	l, err := s.CreateLabel("aButton", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)

	c := drag.New(s)
	v, _ := s.Scene().Label(l.ID)
	require.Equal(t, scene.HitAnchor, c.Press(v.Marker).Kind)

	target := geometry.FromNormalized(0.25, 0.75, s.Scene().Device)
	require.NoError(t, c.Move(geometry.OffsetAlongDirection(v.Center(), target, 25)))
	c.Release()

	got, _ := s.Label(l.ID)
	assert.InDelta(t, 0.25, got.TargetX, 1e-3)
	assert.InDelta(t, 0.75, got.TargetY, 1e-3)
}

func TestDeviceSwitch(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.CreateLabel("aButton", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	_, err = s.CreateLabel("dpadUp", geometry.NewPoint2D(200, 300))
	require.NoError(t, err)

	require.NoError(t, s.SetDevice("playstation", true))
	assert.Equal(t, "playstation", s.DeviceType())
	stale := s.StaleLabels()
	require.Len(t, stale, 1)
	assert.Equal(t, "aButton", stale[0].Key)
	assert.Equal(t, "xbox", stale[0].DeviceType)

	require.NoError(t, s.SetDevice("mouse", false))
	assert.Empty(t, s.Labels())

	assert.ErrorIs(t, s.SetDevice("gamecube", false), catalog.ErrUnknownDevice)
}

func TestDeviceSwitchIllustrationFailure(t *testing.T) {
	cat, err := catalog.Parse([]byte(`
devices:
  - {type: xbox, illustration: controllers/XBox.svg, keys: [{key: aButton}]}
  - {type: broken, illustration: controllers/Broken.svg, keys: [{key: aButton}]}
`))
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"controllers/XBox.svg":   {Data: []byte(`<svg width="100" height="100"/>`)},
		"controllers/Broken.svg": {Data: []byte(`<html/>`)},
	}
	s, err := NewSession(DefaultConfig(), cat, fsys, nil)
	require.NoError(t, err)

	assert.Error(t, s.SetDevice("broken", true))
	assert.Equal(t, "broken", s.DeviceType())
	assert.Nil(t, s.Illustration(), "the previous illustration is not kept")
	assert.NotNil(t, s.Scene())
}

func TestImportExport(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetTitle("Racing Setup")
	l, err := s.CreateLabel("rightTrigger", geometry.NewPoint2D(900, 200))
	require.NoError(t, err)
	_, err = s.UpdateText(l.ID, "Accelerate")
	require.NoError(t, err)
	require.NoError(t, s.SetColors(Colors{Body: "#aa0000", Accent: "#00aa00"}))
	style := connector.DefaultStyle()
	style.Shape = connector.ShapeAngle
	s.SetStyle(style)

	data, err := s.EncodeDocument(mapping.FormatJSON)
	require.NoError(t, err)

	other, _ := newTestSession(t)
	require.NoError(t, other.SetDevice("mouse", false))
	require.NoError(t, other.ImportData(data, mapping.FormatJSON))
	assert.Equal(t, "Racing Setup", other.Title())
	assert.Equal(t, "xbox", other.DeviceType())
	assert.Equal(t, Colors{Body: "#aa0000", Accent: "#00aa00"}, other.Colors())
	assert.Equal(t, connector.ShapeAngle, other.Style().Shape)
	assert.False(t, other.Modified())

	got := other.Labels()
	require.Len(t, got, 1)
	assert.NotEqual(t, l.ID, got[0].ID)
	assert.Equal(t, "Accelerate", got[0].Text)
	assert.Equal(t, l.X, got[0].X)
	assert.Equal(t, l.TargetX, got[0].TargetX)
}

func TestImportFailureLeavesDocument(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.CreateLabel("aButton", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	before := s.Labels()

	assert.Error(t, s.ImportData([]byte(`{"title":`), mapping.FormatJSON))
	assert.Error(t, s.ImportData([]byte(`{"type":"gamecube","labels":[]}`), mapping.FormatJSON))
	assert.Equal(t, before, s.Labels())
	assert.Equal(t, "xbox", s.DeviceType())
}

func TestSaveAndOpen(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.CreateLabel("aButton", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)

	path := t.TempDir() + "/pad.mapk"
	require.NoError(t, s.Save(path))
	assert.False(t, s.Modified())
	assert.Equal(t, path, s.Path())

	other, _ := newTestSession(t)
	require.NoError(t, other.Open(path))
	assert.Len(t, other.Labels(), 1)
	assert.Equal(t, path, other.Path())
}

func TestDerivedColors(t *testing.T) {
	c, err := Colors{Body: "#ff0000"}.Derived()
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Body)
	assert.Equal(t, "#00ff80", c.Secondary)
	assert.Equal(t, "#0080ff", c.Accent)

	s, _ := newTestSession(t)
	require.NoError(t, s.SetColors(c))
	assert.Equal(t, c, s.Colors())

	_, err = Colors{}.Derived()
	assert.Error(t, err)
}
