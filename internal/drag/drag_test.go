package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/internal/connector"
	"input-mapper/internal/illustration"
	"input-mapper/internal/mapping"
	"input-mapper/internal/scene"
	"input-mapper/pkg/geometry"
)

type anyKey struct{}

func (anyKey) HasKey(_, _ string) bool                            { return true }
func (anyKey) DefaultAnchor(_, _ string) (float64, float64, bool) { return 0, 0, false }

// workspace projects a model the same way the session does, rebuilding the
// scene after every update.
type workspace struct {
	model *mapping.Model
	ill   *illustration.Illustration
	zoom  float64
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	ill, err := illustration.Parse([]byte(`<svg width="300" height="200"></svg>`))
	require.NoError(t, err)
	return &workspace{
		model: mapping.NewModel(anyKey{}, geometry.NewSize(1000, 600)),
		ill:   ill,
		zoom:  1,
	}
}

func (w *workspace) Scene() *scene.Scene {
	lay := scene.DefaultLayout(w.model.Workspace())
	lay.DeviceArea = geometry.NewRect(50, 50, 300, 200)
	return scene.Build(scene.Input{
		Labels:       w.model.Labels(),
		Style:        connector.DefaultStyle(),
		Zoom:         w.zoom,
		Illustration: w.ill,
		Layout:       lay,
		Measurer:     scene.FixedMeasurer(10),
	})
}

func (w *workspace) UpdatePosition(id string, x, y float64) (bool, error) {
	return w.model.UpdatePosition(id, x, y)
}

func (w *workspace) UpdateAnchor(id string, tx, ty float64) (bool, error) {
	return w.model.UpdateAnchor(id, tx, ty)
}

func TestDragAnchorScenario(t *testing.T) {
	w := newWorkspace(t)
	l, err := w.model.CreateLabel("aButton", "xbox", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	c := New(w)

	s := w.Scene()
	require.Equal(t, geometry.NewRect(50, 50, 300, 200), s.Device)
	v, _ := s.Label(l.ID)

	hit := c.Press(v.Marker)
	require.Equal(t, scene.HitAnchor, hit.Kind)
	require.Equal(t, DraggingAnchor, c.State())

	// The pointer sits where the marker for anchor (80,230) is drawn.
	pointer := geometry.OffsetAlongDirection(v.Center(), geometry.NewPoint2D(80, 230), 25)
	require.NoError(t, c.Move(pointer))

	got, _ := w.model.Get(l.ID)
	assert.InDelta(t, 0.1, got.TargetX, 1e-3)
	assert.InDelta(t, 0.9, got.TargetY, 1e-3)
	assert.Equal(t, "X: 10% Y: 90%", c.Preview())

	c.Release()
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Preview())
}

func TestDragAnchorClamps(t *testing.T) {
	w := newWorkspace(t)
	l, err := w.model.CreateLabel("aButton", "xbox", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	c := New(w)
	v, _ := w.Scene().Label(l.ID)
	c.Press(v.Marker)

	for _, p := range []geometry.Point2D{{X: -5000, Y: -5000}, {X: 9000, Y: 40}, {X: 10, Y: 1e7}} {
		require.NoError(t, c.Move(p))
		got, _ := w.model.Get(l.ID)
		assert.GreaterOrEqual(t, got.TargetX, 0.0)
		assert.LessOrEqual(t, got.TargetX, 1.0)
		assert.GreaterOrEqual(t, got.TargetY, 0.0)
		assert.LessOrEqual(t, got.TargetY, 1.0)
	}
}

func TestDragLabel(t *testing.T) {
	w := newWorkspace(t)
	l, err := w.model.CreateLabel("aButton", "xbox", geometry.NewPoint2D(400, 300))
	require.NoError(t, err)
	c := New(w)

	hit := c.Press(geometry.NewPoint2D(405, 310))
	require.Equal(t, scene.HitLabel, hit.Kind)
	require.Equal(t, DraggingLabel, c.State())
	assert.Equal(t, l.ID, c.LabelID())

	require.NoError(t, c.Move(geometry.NewPoint2D(505, 360)))
	got, _ := w.model.Get(l.ID)
	assert.Equal(t, 500.0, got.X)
	assert.Equal(t, 350.0, got.Y)
	assert.Equal(t, "X: 500 Y: 350", c.Preview())

	// The marker follows the new label centre.
	v, _ := w.Scene().Label(l.ID)
	assert.InDelta(t, 25, v.Marker.Distance(v.Anchor), 1e-9)

	// A second press while dragging is ignored.
	c.Press(geometry.NewPoint2D(0, 0))
	assert.Equal(t, DraggingLabel, c.State())

	c.Release()
	assert.Equal(t, Idle, c.State())
	require.NoError(t, c.Move(geometry.NewPoint2D(0, 0)))
	got, _ = w.model.Get(l.ID)
	assert.Equal(t, 500.0, got.X)
}

func TestDragLabelUnderZoom(t *testing.T) {
	w := newWorkspace(t)
	w.zoom = 2
	l, err := w.model.CreateLabel("aButton", "xbox", geometry.NewPoint2D(500, 300))
	require.NoError(t, err)
	c := New(w)

	// Workspace (505,305) is stage (510,310) at zoom 2 about (500,300).
	require.Equal(t, scene.HitLabel, c.Press(geometry.NewPoint2D(510, 310)).Kind)
	require.NoError(t, c.Move(geometry.NewPoint2D(610, 410)))
	got, _ := w.model.Get(l.ID)
	assert.InDelta(t, 550, got.X, 1e-9)
	assert.InDelta(t, 350, got.Y, 1e-9)
}

func TestPressOnTextDoesNotDrag(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.model.CreateLabel("aButton", "xbox", geometry.NewPoint2D(400, 300))
	require.NoError(t, err)
	c := New(w)

	// Without an icon the text region starts 16px in.
	hit := c.Press(geometry.NewPoint2D(430, 320))
	assert.Equal(t, scene.HitText, hit.Kind)
	assert.Equal(t, Idle, c.State())

	assert.Equal(t, scene.HitNone, c.Press(geometry.NewPoint2D(900, 20)).Kind)
	assert.Equal(t, Idle, c.State())
}

func TestMoveOnRemovedLabel(t *testing.T) {
	w := newWorkspace(t)
	l, err := w.model.CreateLabel("aButton", "xbox", geometry.NewPoint2D(400, 300))
	require.NoError(t, err)
	c := New(w)
	c.Press(geometry.NewPoint2D(405, 310))
	w.model.RemoveLabel(l.ID)

	assert.ErrorIs(t, c.Move(geometry.NewPoint2D(500, 300)), mapping.ErrNotFound)
	c.Cancel(l.ID)
	assert.Equal(t, Idle, c.State())
}
