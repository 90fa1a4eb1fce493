// Package app holds the editing session: the current document, its line
// style and zoom, the export guard, and the frame scheduler that decides when
// the scene is rebuilt.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"
	"time"

	"input-mapper/internal/catalog"
	"input-mapper/internal/connector"
	"input-mapper/internal/export"
	"input-mapper/internal/illustration"
	"input-mapper/internal/mapping"
	"input-mapper/internal/scene"
	"input-mapper/pkg/colorutil"
)

// ErrExportInProgress is returned for zoom changes while an export holds
// the guard, and for a second concurrent export.
var ErrExportInProgress = errors.New("export in progress")

// EventType identifies session events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentSaved
	EventDeviceChanged
	EventLabelsChanged
	EventStyleChanged
	EventColorsChanged
	EventZoomChanged
	EventModified
	EventExportStarted
	EventExportFinished
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Colors are the document's body colours.
type Colors struct {
	Body      string
	Secondary string
	Accent    string
}

// Derived fills Secondary and Accent with split complements of Body.
func (c Colors) Derived() (Colors, error) {
	var err error
	if c.Secondary, err = colorutil.RotateHue(c.Body, 150); err != nil {
		return c, err
	}
	c.Accent, err = colorutil.RotateHue(c.Body, 210)
	return c, err
}

func (c Colors) palette() illustration.Palette {
	return illustration.Palette{Body: c.Body, Secondary: c.Secondary, Accent: c.Accent}
}

// Session is one open document. All methods are safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	cfg      Config
	catalog  *catalog.Catalog
	assets   fs.FS
	measurer scene.Measurer
	icons    *export.Icons
	now      func() time.Time

	model      *mapping.Model
	title      string
	deviceType string
	colors     Colors
	style      connector.Style
	ill        *illustration.Illustration

	// Path is the file the document was loaded from or saved to.
	path     string
	modified bool

	zoom      float64
	zoomAnim  transition
	textAnim  transition
	exporting bool

	dirty    bool
	settling bool
	scene    *scene.Scene

	listeners map[EventType][]EventListener
}

// NewSession opens an empty document on the configured default device.
func NewSession(cfg Config, cat *catalog.Catalog, assets fs.FS, measurer scene.Measurer) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model := mapping.NewModel(cat, cfg.Workspace)
	model.SetSafeArea(cfg.SafeArea)

	s := &Session{
		cfg:       cfg,
		catalog:   cat,
		assets:    assets,
		measurer:  measurer,
		now:       time.Now,
		model:     model,
		colors:    Colors{Body: colorutil.NormalizeHex(cfg.DefaultColor, mapping.DefaultColor)},
		style:     cfg.Line.Normalized(),
		zoom:      1,
		dirty:     true,
		listeners: make(map[EventType][]EventListener),
	}
	ill, err := s.loadIllustration(cfg.DefaultDevice)
	if err != nil {
		return nil, err
	}
	s.deviceType = cfg.DefaultDevice
	s.ill = ill
	return s, nil
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the session settings.
func (s *Session) Config() Config {
	return s.cfg
}

// Catalog returns the device catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// invalidate marks the scene stale. Callers hold mu.
func (s *Session) invalidate() {
	s.dirty = true
	s.modified = true
}

// changed emits the events for a mutation that happened.
func (s *Session) changed(event EventType, data interface{}) {
	s.Emit(event, data)
	s.Emit(EventModified, true)
}

func (s *Session) loadIllustration(deviceType string) (*illustration.Illustration, error) {
	path, err := s.catalog.IllustrationPath(deviceType)
	if err != nil {
		return nil, err
	}
	ill, err := illustration.Load(s.assets, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s illustration: %w", deviceType, err)
	}
	return ill, nil
}

// DeviceType returns the active device type.
func (s *Session) DeviceType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceType
}

// Illustration returns the active device illustration, nil after a failed
// device switch.
func (s *Session) Illustration() *illustration.Illustration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ill
}

// SetDevice switches the device type. Unless keepLabels is set every label
// is removed first. When the illustration cannot be loaded the switch still
// happens, the illustration pane is left empty, and the error is returned.
func (s *Session) SetDevice(deviceType string, keepLabels bool) error {
	if _, err := s.catalog.Device(deviceType); err != nil {
		return err
	}
	ill, loadErr := s.loadIllustration(deviceType)

	s.mu.Lock()
	if !keepLabels {
		s.model.ClearAll()
	}
	s.deviceType = deviceType
	s.ill = ill
	s.invalidate()
	stale := len(s.model.Stale(deviceType))
	s.mu.Unlock()

	if stale > 0 {
		log.Printf("Session: %d label(s) have keys not on %s", stale, deviceType)
	}
	s.changed(EventDeviceChanged, deviceType)
	return loadErr
}

// StaleLabels returns labels whose key is not on the active device. Such
// labels are kept as they are; their own device type still resolves their
// icon.
func (s *Session) StaleLabels() []mapping.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Stale(s.deviceType)
}

// Title returns the document title.
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// SetTitle renames the document.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	if s.title == title {
		s.mu.Unlock()
		return
	}
	s.title = title
	s.modified = true
	s.mu.Unlock()
	s.Emit(EventModified, true)
}

// Colors returns the document colours.
func (s *Session) Colors() Colors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors
}

// SetColors recolours the illustration. Invalid colours are rejected.
func (s *Session) SetColors(c Colors) error {
	for _, v := range []string{c.Body, c.Secondary, c.Accent} {
		if v == "" {
			continue
		}
		if _, err := colorutil.ParseHex(v); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.colors = c
	s.invalidate()
	s.mu.Unlock()
	s.changed(EventColorsChanged, c)
	return nil
}

// Style returns the line style.
func (s *Session) Style() connector.Style {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.style
}

// SetStyle replaces the line style of every connector.
func (s *Session) SetStyle(style connector.Style) {
	style = style.Normalized()
	s.mu.Lock()
	if s.style == style {
		s.mu.Unlock()
		return
	}
	s.style = style
	s.invalidate()
	s.mu.Unlock()
	s.changed(EventStyleChanged, style)
}

// Modified reports whether the document changed since it was loaded or
// saved.
func (s *Session) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the file the document is associated with.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}
