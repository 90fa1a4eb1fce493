package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/pkg/geometry"
)

type fakeCatalog map[string]map[string]*[2]float64

func (c fakeCatalog) HasKey(deviceType, key string) bool {
	_, ok := c[deviceType][key]
	return ok
}

func (c fakeCatalog) DefaultAnchor(deviceType, key string) (float64, float64, bool) {
	a := c[deviceType][key]
	if a == nil {
		return 0, 0, false
	}
	return a[0], a[1], true
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"xbox": {
			"aButton":     nil,
			"leftTrigger": {0.25, 0.1},
		},
		"mouse": {"LeftClick": nil},
	}
}

func newTestModel() *Model {
	return NewModel(testCatalog(), geometry.NewSize(1280, 800))
}

func TestCreateLabel(t *testing.T) {
	m := newTestModel()

	l, err := m.CreateLabel("aButton", "xbox", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, 200.0, l.X)
	assert.Equal(t, 150.0, l.Y)
	assert.Equal(t, 0.5, l.TargetX)
	assert.Equal(t, 0.5, l.TargetY)
	assert.Equal(t, "xbox", l.DeviceType)

	l2, err := m.CreateLabel("leftTrigger", "xbox", geometry.NewPoint2D(0, 5000))
	require.NoError(t, err)
	assert.Equal(t, 0.25, l2.TargetX)
	assert.Equal(t, 0.1, l2.TargetY)
	assert.Equal(t, 40.0, l2.X)
	assert.Equal(t, 680.0, l2.Y)
	assert.NotEqual(t, l.ID, l2.ID)

	_, err = m.CreateLabel("crossButton", "xbox", geometry.Point2D{})
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, 2, m.Len())
}

func TestSafeAreaCollapse(t *testing.T) {
	m := NewModel(testCatalog(), geometry.NewSize(300, 150))
	l, err := m.CreateLabel("aButton", "xbox", geometry.NewPoint2D(500, 500))
	require.NoError(t, err)
	assert.Equal(t, 40.0, l.X)
	assert.Equal(t, 100.0, l.Y)
}

func TestIDCollisionRedraws(t *testing.T) {
	m := newTestModel()
	ids := []string{"same", "same", "same", "other"}
	m.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	a, err := m.CreateLabel("aButton", "xbox", geometry.Point2D{})
	require.NoError(t, err)
	b, err := m.CreateLabel("aButton", "xbox", geometry.Point2D{})
	require.NoError(t, err)
	assert.Equal(t, "same", a.ID)
	assert.Equal(t, "other", b.ID)
}

func TestUpdatesAreIdempotent(t *testing.T) {
	m := newTestModel()
	l, err := m.CreateLabel("aButton", "xbox", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)

	changed, err := m.UpdatePosition(l.ID, 300, 250)
	require.NoError(t, err)
	assert.True(t, changed)
	once := m.Labels()

	changed, err = m.UpdatePosition(l.ID, 300, 250)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, once, m.Labels())

	changed, err = m.UpdateText(l.ID, "Jump")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = m.UpdateText(l.ID, "Jump")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.UpdateAnchor(l.ID, -3, 7)
	require.NoError(t, err)
	assert.True(t, changed)
	got, _ := m.Get(l.ID)
	assert.Equal(t, 0.0, got.TargetX)
	assert.Equal(t, 1.0, got.TargetY)
	changed, err = m.UpdateAnchor(l.ID, 0, 1)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateUnknownID(t *testing.T) {
	m := newTestModel()
	_, err := m.UpdateText("nope", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.UpdatePosition("nope", 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.UpdateAnchor("nope", 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveLabel(t *testing.T) {
	m := newTestModel()
	var ids []string
	for i := 0; i < 3; i++ {
		l, err := m.CreateLabel("aButton", "xbox", geometry.NewPoint2D(float64(100+i), 200))
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}

	assert.True(t, m.RemoveLabel(ids[1]))
	assert.False(t, m.RemoveLabel(ids[1]))
	_, ok := m.Get(ids[1])
	assert.False(t, ok)

	labels := m.Labels()
	require.Len(t, labels, 2)
	assert.Equal(t, ids[0], labels[0].ID)
	assert.Equal(t, ids[2], labels[1].ID)

	m.ClearAll()
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.RemoveLabel(ids[0]))
}

func TestRestoreAssignsFreshIDs(t *testing.T) {
	m := newTestModel()
	in := []Label{
		{ID: "dup", Key: "aButton", Text: "Jump", X: 10, Y: 20, TargetX: 0.3, TargetY: 2},
		{ID: "dup", Key: "unknownKey", Text: "?", X: 30, Y: 40, TargetX: 0.1, TargetY: 0.2},
	}
	out := m.Restore(in, "xbox")
	require.Len(t, out, 2)
	assert.NotEqual(t, "dup", out[0].ID)
	assert.NotEqual(t, out[0].ID, out[1].ID)
	assert.Equal(t, "xbox", out[1].DeviceType)
	assert.Equal(t, 1.0, out[0].TargetY)
	assert.Equal(t, "unknownKey", out[1].Key)

	stale := m.Stale("xbox")
	require.Len(t, stale, 1)
	assert.Equal(t, "unknownKey", stale[0].Key)
	assert.Len(t, m.Stale("mouse"), 2)
}

func TestLabelDisplayText(t *testing.T) {
	assert.Equal(t, PlaceholderText, Label{}.DisplayText())
	assert.Equal(t, "Fire", Label{Text: "Fire"}.DisplayText())
}

func BenchmarkGet(b *testing.B) {
	m := newTestModel()
	var last string
	for i := 0; i < 100; i++ {
		l, err := m.CreateLabel("aButton", "xbox", geometry.NewPoint2D(float64(i), 0))
		if err != nil {
			b.Fatal(err)
		}
		last = l.ID
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := m.Get(last); !ok {
			b.Fatalf("missing %s", last)
		}
	}
}
