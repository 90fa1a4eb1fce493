// Package prefs provides JSON-based editor preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"input-mapper/internal/app"
	"input-mapper/internal/connector"
)

const (
	appDir    = "input-mapper"
	prefsFile = "preferences.json"
)

// Preference keys.
const (
	KeyLastDirectory = "lastDirectory"
	KeyLastDocument  = "lastDocument"
	KeyDevice        = "deviceType"
	KeyZoom          = "zoom"
	KeyLineStyle     = "lineStyle"
	KeyLineWidth     = "lineWidth"
	KeyLineColor     = "lineColor"
	KeyLineType      = "lineType"
	KeyLineEnd       = "lineEnd"
	KeyWindowWidth   = "windowWidth"
	KeyWindowHeight  = "windowHeight"
)

// Prefs stores preferences as a key-value map.
type Prefs struct {
	mu      sync.RWMutex
	values  map[string]interface{}
	path    string
	changed bool
}

// Load reads preferences from ~/.config/input-mapper/preferences.json.
// Returns empty Prefs if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, appDir, prefsFile))
}

// LoadFrom reads preferences from path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the backing file.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.Lock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.changed = false
	p.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// SaveIfChanged writes preferences only when a setter ran since the last
// save.
func (p *Prefs) SaveIfChanged() error {
	p.mu.RLock()
	changed := p.changed
	p.mu.RUnlock()
	if !changed {
		return nil
	}
	return p.Save()
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	if p.values[key] != val {
		p.values[key] = val
		p.changed = true
	}
	p.mu.Unlock()
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// Float returns a float64 preference, or 0 if not set.
func (p *Prefs) Float(key string) float64 {
	return p.FloatWithFallback(key, 0)
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// StringWithFallback returns a string preference, or fallback if not set.
func (p *Prefs) StringWithFallback(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.values[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	return p.StringWithFallback(key, "")
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

// ApplyTo overrides the config defaults with the saved device and line
// style.
func (p *Prefs) ApplyTo(cfg *app.Config) {
	cfg.DefaultDevice = p.StringWithFallback(KeyDevice, cfg.DefaultDevice)
	st := cfg.Line
	st.Dash = connector.Dash(p.StringWithFallback(KeyLineStyle, string(st.Dash)))
	st.Shape = connector.Shape(p.StringWithFallback(KeyLineType, string(st.Shape)))
	st.End = connector.End(p.StringWithFallback(KeyLineEnd, string(st.End)))
	st.Color = p.StringWithFallback(KeyLineColor, st.Color)
	st.Width = p.FloatWithFallback(KeyLineWidth, st.Width)
	cfg.Line = st.Normalized()
}
