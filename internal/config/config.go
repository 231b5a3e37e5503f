// Package config loads viewer settings: built-in defaults, then an optional YAML file,
// then GEOSHAPE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"geoshape/internal/geometry"
	"geoshape/internal/shape"
)

// EnvPrefix prefixes every environment override, e.g. GEOSHAPE_BACKEND=retained.
const EnvPrefix = "GEOSHAPE"

var ErrInvalid = errors.New("invalid config")

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	Source bool   `yaml:"source" envconfig:"SOURCE"`
	File   string `yaml:"file" envconfig:"FILE"`
}

type Config struct {
	ShellResolution int     `yaml:"shell_resolution" envconfig:"SHELL_RESOLUTION"`
	StrokeWidth     float64 `yaml:"stroke_width" envconfig:"STROKE_WIDTH"`
	Backend         string  `yaml:"backend" envconfig:"BACKEND"`       // raster | retained
	Projection      string  `yaml:"projection" envconfig:"PROJECTION"` // mercator | planar
	Measurer        string  `yaml:"measurer" envconfig:"MEASURER"`     // sphere | planar
	// Zoom is the initial web zoom level on mercator maps and units per micro-pixel on
	// planar ones. Zero fits the view to the loaded shapes.
	Zoom    float64       `yaml:"zoom" envconfig:"ZOOM"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// Defaults returns the application defaults.
func Defaults() Config {
	return Config{
		ShellResolution: geometry.DefaultShellResolution,
		StrokeWidth:     1,
		Backend:         "raster",
		Projection:      "mercator",
		Measurer:        "sphere",
		Logging:         LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load applies path (skipped when empty) and the environment over Defaults and validates the
// result. A path that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ShellResolution < shape.MinResolution {
		errs = append(errs, fmt.Errorf("%w: shell_resolution %d < %d", ErrInvalid, c.ShellResolution, shape.MinResolution))
	}
	if c.StrokeWidth < 0 || math.IsNaN(c.StrokeWidth) || math.IsInf(c.StrokeWidth, 0) {
		errs = append(errs, fmt.Errorf("%w: stroke_width %v", ErrInvalid, c.StrokeWidth))
	}
	if c.Backend != "raster" && c.Backend != "retained" {
		errs = append(errs, fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend))
	}
	if c.Projection != "mercator" && c.Projection != "planar" {
		errs = append(errs, fmt.Errorf("%w: projection %q", ErrInvalid, c.Projection))
	}
	if c.Measurer != "sphere" && c.Measurer != "planar" {
		errs = append(errs, fmt.Errorf("%w: measurer %q", ErrInvalid, c.Measurer))
	}
	if c.Zoom < 0 || math.IsNaN(c.Zoom) {
		errs = append(errs, fmt.Errorf("%w: zoom %v", ErrInvalid, c.Zoom))
	}
	return errors.Join(errs...)
}

// GeometryOptions are the shape options this config describes.
func (c Config) GeometryOptions() geometry.Options {
	return geometry.Options{
		ShellResolution: c.ShellResolution,
		StrokeWidth:     c.StrokeWidth,
		Measurer:        shape.MeasurerByName(c.Measurer),
	}
}
