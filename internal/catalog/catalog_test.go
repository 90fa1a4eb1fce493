package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"input-mapper/assets"
)

const testCatalog = `
devices:
  - type: xbox
    name: Xbox
    illustration: controllers/XBox.svg
    keys:
      - {key: aButton, anchor: [0.75, 0.45]}
      - {key: leftTrigger}
      - {key: startButton, icon: custom/start.svg}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)

	assert.Equal(t, []string{"xbox"}, c.Types())
	keys, err := c.Keys("xbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"aButton", "leftTrigger", "startButton"}, keys)

	x, y, ok := c.DefaultAnchor("xbox", "aButton")
	require.True(t, ok)
	assert.Equal(t, 0.75, x)
	assert.Equal(t, 0.45, y)

	_, _, ok = c.DefaultAnchor("xbox", "leftTrigger")
	assert.False(t, ok)

	assert.Equal(t, "keys/xbox/aButton.svg", c.IconPath("xbox", "aButton"))
	assert.Equal(t, "custom/start.svg", c.IconPath("xbox", "startButton"))
	assert.Equal(t, "keys/mouse/LeftClick.svg", c.IconPath("mouse", "LeftClick"))
}

func TestUnknownDevice(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)

	_, err = c.Device("gamecube")
	assert.ErrorIs(t, err, ErrUnknownDevice)
	_, err = c.Keys("gamecube")
	assert.ErrorIs(t, err, ErrUnknownDevice)
	assert.False(t, c.HasKey("gamecube", "aButton"))
	assert.True(t, c.HasKey("xbox", "aButton"))
	assert.False(t, c.HasKey("xbox", "crossButton"))
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	tests := map[string]string{
		"syntax":    "devices: [",
		"no type":   "devices:\n  - name: X\n",
		"duplicate": "devices:\n  - type: a\n  - type: a\n",
		"anchor":    "devices:\n  - type: a\n    keys:\n      - {key: k, anchor: [1.5, 0]}\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{"catalog.yaml": {Data: []byte(testCatalog)}}
	c, err := Load(fsys, "catalog.yaml")
	require.NoError(t, err)
	p, err := c.IllustrationPath("xbox")
	require.NoError(t, err)
	assert.Equal(t, "controllers/XBox.svg", p)

	_, err = Load(fsys, "missing.yaml")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	require.NoError(t, err)
	got := c.Search("xbox", "BUTTON")
	require.Len(t, got, 2)
	assert.Equal(t, "aButton", got[0].Key)
	assert.Equal(t, "startButton", got[1].Key)
}

func TestEmbeddedCatalog(t *testing.T) {
	c, err := Load(assets.FS(), assets.CatalogFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"xbox", "playstation", "switch", "keyboard", "mouse"}, c.Types())

	for _, typ := range c.Types() {
		keys, err := c.Keys(typ)
		require.NoError(t, err)
		require.NotEmpty(t, keys, typ)

		ill, err := c.IllustrationPath(typ)
		require.NoError(t, err)
		_, err = assets.FS().Open(ill)
		require.NoError(t, err, ill)

		for _, k := range keys {
			f, err := assets.FS().Open(c.IconPath(typ, k))
			require.NoError(t, err, "%s/%s", typ, k)
			f.Close()
		}
	}
	assert.True(t, c.HasKey("playstation", "crossButton"))
	assert.False(t, c.HasKey("xbox", "crossButton"))
}
