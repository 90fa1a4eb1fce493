package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"input-mapper/internal/connector"
	"input-mapper/internal/mapping"
	"input-mapper/internal/scene"
	"input-mapper/pkg/geometry"
)

// Config holds the editor layout and behaviour settings.
type Config struct {
	Workspace geometry.Size `yaml:"workspace"`

	// DeviceArea overrides the region the illustration is centred in.
	DeviceArea *geometry.Rect `yaml:"deviceArea,omitempty"`

	SafeArea     mapping.SafeArea `yaml:"safeArea"`
	MarkerOffset float64          `yaml:"markerOffset"`
	MarkerRadius float64          `yaml:"markerRadius"`
	FontSize     float64          `yaml:"fontSize"`

	// DropOffset is subtracted from the pointer when a key is dropped.
	DropOffset geometry.Point2D `yaml:"dropOffset"`

	TextTransition time.Duration `yaml:"textTransition"`
	ZoomTransition time.Duration `yaml:"zoomTransition"`
	ZoomStep       float64       `yaml:"zoomStep"`

	RasterScale float64 `yaml:"rasterScale"`

	DefaultDevice string          `yaml:"defaultDevice"`
	DefaultColor  string          `yaml:"defaultColor"`
	Line          connector.Style `yaml:"line"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Workspace:      geometry.NewSize(1280, 800),
		SafeArea:       mapping.DefaultSafeArea,
		MarkerOffset:   25,
		MarkerRadius:   8,
		FontSize:       14,
		DropOffset:     geometry.NewPoint2D(50, 20),
		TextTransition: 250 * time.Millisecond,
		ZoomTransition: 350 * time.Millisecond,
		ZoomStep:       0.1,
		RasterScale:    2,
		DefaultDevice:  "xbox",
		DefaultColor:   mapping.DefaultColor,
		Line:           connector.DefaultStyle(),
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Line = cfg.Line.Normalized()
	return cfg, nil
}

// Validate rejects settings the editor cannot work with.
func (c Config) Validate() error {
	if c.Workspace.Width <= 0 || c.Workspace.Height <= 0 {
		return fmt.Errorf("workspace size %vx%v must be positive", c.Workspace.Width, c.Workspace.Height)
	}
	if c.DeviceArea != nil && c.DeviceArea.Empty() {
		return fmt.Errorf("device area %+v is empty", *c.DeviceArea)
	}
	if c.MarkerOffset < 0 {
		return fmt.Errorf("marker offset %v is negative", c.MarkerOffset)
	}
	if c.RasterScale <= 0 {
		return fmt.Errorf("raster scale %v must be positive", c.RasterScale)
	}
	if c.ZoomStep <= 0 {
		return fmt.Errorf("zoom step %v must be positive", c.ZoomStep)
	}
	return nil
}

// Layout derives the scene layout from the settings.
func (c Config) Layout() scene.Layout {
	lay := scene.DefaultLayout(c.Workspace)
	if c.DeviceArea != nil {
		lay.DeviceArea = *c.DeviceArea
	}
	lay.MarkerOffset = c.MarkerOffset
	if c.MarkerRadius > 0 {
		lay.MarkerRadius = c.MarkerRadius
	}
	if c.FontSize > 0 {
		lay.Metrics.FontSize = c.FontSize
	}
	return lay
}
