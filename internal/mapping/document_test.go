package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/internal/connector"
	"input-mapper/pkg/geometry"
)

func populated(t *testing.T) *Model {
	t.Helper()
	m := newTestModel()
	a, err := m.CreateLabel("aButton", "xbox", geometry.NewPoint2D(200, 150))
	require.NoError(t, err)
	_, err = m.UpdateText(a.ID, "Jump\nDouble jump")
	require.NoError(t, err)
	_, err = m.UpdateAnchor(a.ID, 0.1, 0.9)
	require.NoError(t, err)
	_, err = m.CreateLabel("leftTrigger", "xbox", geometry.NewPoint2D(400, 300))
	require.NoError(t, err)
	return m
}

func docLabels(labels []Label) []DocumentLabel {
	return NewDocument("", "", labels).Labels
}

func stripIDs(in []DocumentLabel) []DocumentLabel {
	out := make([]DocumentLabel, len(in))
	for i, l := range in {
		l.ID = ""
		out[i] = l
	}
	return out
}

func TestJSONRoundTrip(t *testing.T) {
	m := populated(t)
	doc := NewDocument("My Mapping", "xbox", m.Labels())
	style := connector.DefaultStyle()
	doc.Line = &style

	data, err := EncodeJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"targetX": 0.1`)

	back, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "My Mapping", back.Title)
	assert.Equal(t, DefaultColor, back.Color)
	require.NotNil(t, back.Line)
	assert.Equal(t, style, *back.Line)

	other := newTestModel()
	restored := other.Restore(back.ModelLabels(), back.Type)
	assert.Equal(t, stripIDs(docLabels(m.Labels())), stripIDs(docLabels(restored)))
	for i := range restored {
		assert.NotEqual(t, m.Labels()[i].ID, restored[i].ID)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	m := populated(t)
	doc := NewDocument("Bin", "xbox", m.Labels())
	doc.AccentColor = "#5a5a5a"

	data, err := Encode(doc, FormatBinary)
	require.NoError(t, err)
	back, err := Decode(data, FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestDecodeJSONDefaults(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"title":"t","type":"mouse","labels":[{"key":"LeftClick","text":"Shoot","x":1,"y":2,"targetX":0.5,"targetY":0.5}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultImportColor, doc.Color)
	assert.Nil(t, doc.Line)
	require.Len(t, doc.Labels, 1)
	assert.Equal(t, "mouse", doc.ModelLabels()[0].DeviceType)
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":  `{"title":`,
		"no type": `{"title":"t","labels":[]}`,
		"no key":  `{"type":"xbox","labels":[{"text":"x"}]}`,
		"types":   `{"type":"xbox","labels":[{"key":"a","x":"left"}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(data))
			assert.Error(t, err)
		})
	}
	_, err := DecodeJSON([]byte(`{"labels":[]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "My_Cool_Map.json", FileName("My  Cool \tMap", ".json"))
	assert.Equal(t, "Untitled.svg", FileName("  ", ".svg"))
	assert.Equal(t, FormatBinary, FormatForPath("x/y.MAPK"))
	assert.Equal(t, FormatJSON, FormatForPath("x/y.json"))
}
