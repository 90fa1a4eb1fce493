// Package catalog describes the devices the editor can annotate: the ordered
// key set of each device type, an optional default anchor per key, and where
// the key icons and device illustrations live.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownDevice is returned for a device type the catalog does not list.
var ErrUnknownDevice = errors.New("unknown device type")

// DefaultIconPattern locates a key icon when neither the key nor the catalog
// names one.
const DefaultIconPattern = "keys/{type}/{key}.svg"

// Anchor is a normalized (x, y) pair over the device illustration.
type Anchor [2]float64

// KeyDef is a selectable input on a device.
type KeyDef struct {
	Key    string  `yaml:"key"`
	Label  string  `yaml:"label,omitempty"`
	Anchor *Anchor `yaml:"anchor,omitempty"`
	Icon   string  `yaml:"icon,omitempty"`
}

// DisplayName returns the key's label, or the key itself.
func (k KeyDef) DisplayName() string {
	if k.Label != "" {
		return k.Label
	}
	return k.Key
}

// Device is one device type and its keys, in palette order.
type Device struct {
	Type         string   `yaml:"type"`
	Name         string   `yaml:"name"`
	Illustration string   `yaml:"illustration"`
	Keys         []KeyDef `yaml:"keys"`

	index map[string]int
}

func (d *Device) buildIndex() {
	d.index = make(map[string]int, len(d.Keys))
	for i, k := range d.Keys {
		d.index[k.Key] = i
	}
}

// Key returns the definition of key, or false if the device does not have it.
func (d *Device) Key(key string) (KeyDef, bool) {
	i, ok := d.index[key]
	if !ok {
		return KeyDef{}, false
	}
	return d.Keys[i], true
}

// Catalog holds every known device.
type Catalog struct {
	IconPattern string    `yaml:"iconPattern"`
	Devices     []*Device `yaml:"devices"`

	byType map[string]*Device
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if c.IconPattern == "" {
		c.IconPattern = DefaultIconPattern
	}

	c.byType = make(map[string]*Device, len(c.Devices))
	for _, d := range c.Devices {
		if d.Type == "" {
			return nil, fmt.Errorf("catalog device %q has no type", d.Name)
		}
		if _, dup := c.byType[d.Type]; dup {
			return nil, fmt.Errorf("duplicate device type %q in catalog", d.Type)
		}
		if d.Name == "" {
			d.Name = d.Type
		}
		for _, k := range d.Keys {
			if k.Anchor != nil && (k.Anchor[0] < 0 || k.Anchor[0] > 1 || k.Anchor[1] < 0 || k.Anchor[1] > 1) {
				return nil, fmt.Errorf("device %s key %s: anchor %v outside [0,1]", d.Type, k.Key, *k.Anchor)
			}
		}
		d.buildIndex()
		c.byType[d.Type] = d
	}
	return &c, nil
}

// Load reads and parses the catalog at path within fsys.
func Load(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Device returns the device of the given type.
func (c *Catalog) Device(deviceType string) (*Device, error) {
	d, ok := c.byType[deviceType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, deviceType)
	}
	return d, nil
}

// Types returns the device types in catalog order.
func (c *Catalog) Types() []string {
	types := make([]string, len(c.Devices))
	for i, d := range c.Devices {
		types[i] = d.Type
	}
	return types
}

// Keys returns the selectable keys of a device type in palette order.
func (c *Catalog) Keys(deviceType string) ([]string, error) {
	d, err := c.Device(deviceType)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(d.Keys))
	for i, k := range d.Keys {
		keys[i] = k.Key
	}
	return keys, nil
}

// HasKey reports whether key belongs to the device type's key set.
func (c *Catalog) HasKey(deviceType, key string) bool {
	d, ok := c.byType[deviceType]
	if !ok {
		return false
	}
	_, ok = d.Key(key)
	return ok
}

// DefaultAnchor returns the catalog's default anchor for a key, if any.
func (c *Catalog) DefaultAnchor(deviceType, key string) (x, y float64, ok bool) {
	d, found := c.byType[deviceType]
	if !found {
		return 0, 0, false
	}
	k, found := d.Key(key)
	if !found || k.Anchor == nil {
		return 0, 0, false
	}
	return k.Anchor[0], k.Anchor[1], true
}

// IconPath returns where the icon for key on deviceType can be resolved. Keys
// unknown to the device still get the conventional path so labels imported
// from another device keep their icon.
func (c *Catalog) IconPath(deviceType, key string) string {
	if d, ok := c.byType[deviceType]; ok {
		if k, ok := d.Key(key); ok && k.Icon != "" {
			return k.Icon
		}
	}
	r := strings.NewReplacer("{type}", deviceType, "{key}", key)
	return r.Replace(c.IconPattern)
}

// IllustrationPath returns the illustration asset for a device type.
func (c *Catalog) IllustrationPath(deviceType string) (string, error) {
	d, err := c.Device(deviceType)
	if err != nil {
		return "", err
	}
	return d.Illustration, nil
}

// Search returns the keys of a device whose key or display name contains
// query, case-insensitively, sorted by key.
func (c *Catalog) Search(deviceType, query string) []KeyDef {
	d, ok := c.byType[deviceType]
	if !ok {
		return nil
	}
	q := strings.ToLower(query)
	var out []KeyDef
	for _, k := range d.Keys {
		if strings.Contains(strings.ToLower(k.Key), q) || strings.Contains(strings.ToLower(k.DisplayName()), q) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
