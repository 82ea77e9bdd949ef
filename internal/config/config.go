// Package config handles airframe configuration loading and management.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/airframe/pkg/render"
)

// Config holds all airframe settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds model viewer settings.
type ViewerConfig struct {
	Mixer         int     `yaml:"mixer"`          // 1-based mixer type
	AssetDir      string  `yaml:"asset_dir"`      // root of the model assets
	ForceSoftware bool    `yaml:"force_software"` // skip the hardware probe
	MeshScale     float64 `yaml:"mesh_scale"`
	FPS           int     `yaml:"fps"`
	Background    string  `yaml:"background"` // #rrggbb, empty for none
}

// RenderConfig holds drawing context settings.
type RenderConfig struct {
	Alpha           bool   `yaml:"alpha"`
	Antialias       bool   `yaml:"antialias"`
	Precision       string `yaml:"precision"` // lowp, mediump or highp
	PowerPreference string `yaml:"power_preference"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the shipped defaults.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Mixer:         3,
			AssetDir:      "resources/models",
			ForceSoftware: true,
			MeshScale:     15,
			FPS:           30,
		},
		Render: RenderConfig{
			Alpha:           true,
			Antialias:       false,
			Precision:       "lowp",
			PowerPreference: "high-performance",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ContextOptions converts the render section to backend options.
func (r RenderConfig) ContextOptions() (render.ContextOptions, error) {
	opts := render.ContextOptions{
		Alpha:           r.Alpha,
		Antialias:       r.Antialias,
		PowerPreference: r.PowerPreference,
	}
	switch strings.ToLower(r.Precision) {
	case "", "lowp", "low":
		opts.Precision = render.PrecisionLow
	case "mediump", "medium":
		opts.Precision = render.PrecisionMedium
	case "highp", "high":
		opts.Precision = render.PrecisionHigh
	default:
		return opts, fmt.Errorf("unknown precision %q", r.Precision)
	}
	return opts, nil
}

// BackgroundColor parses Viewer.Background. ok is false when it is unset.
func (v ViewerConfig) BackgroundColor() (hex uint32, ok bool, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(v.Background), "#")
	if s == "" {
		return 0, false, nil
	}
	if len(s) != 6 {
		return 0, false, fmt.Errorf("background %q: want #rrggbb", v.Background)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false, fmt.Errorf("background %q: %w", v.Background, err)
	}
	return uint32(n), true, nil
}

// Validate checks values that would otherwise fail deep inside the viewer.
func (c *Config) Validate() error {
	if c.Viewer.MeshScale <= 0 {
		return fmt.Errorf("viewer.mesh_scale must be positive, got %v", c.Viewer.MeshScale)
	}
	if c.Viewer.FPS < 1 {
		return fmt.Errorf("viewer.fps must be at least 1, got %d", c.Viewer.FPS)
	}
	if _, _, err := c.Viewer.BackgroundColor(); err != nil {
		return err
	}
	if _, err := c.Render.ContextOptions(); err != nil {
		return err
	}
	return nil
}
