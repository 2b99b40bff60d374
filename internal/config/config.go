// Package config loads editor settings from YAML or TOML files.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/history"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
	"github.com/felixgeelhaar/flowcanvas/internal/layout"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/route"
	"github.com/felixgeelhaar/flowcanvas/internal/viewport"
)

// Config holds flowcanvas settings
type Config struct {
	Canvas CanvasConfig `yaml:"canvas" toml:"canvas"`
	Layout LayoutConfig `yaml:"layout" toml:"layout"`
	Node   NodeConfig   `yaml:"node" toml:"node"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// CanvasConfig controls history, zoom and pointer handling
type CanvasConfig struct {
	MaxHistory      int     `yaml:"max_history" toml:"max_history" validate:"min=1,max=10000"`
	MinZoom         float64 `yaml:"min_zoom" toml:"min_zoom" validate:"gt=0"`
	MaxZoom         float64 `yaml:"max_zoom" toml:"max_zoom" validate:"gtfield=MinZoom"`
	DragThrottleMS  int     `yaml:"drag_throttle_ms" toml:"drag_throttle_ms" validate:"min=0,max=1000"`
	DuplicateOffset float64 `yaml:"duplicate_offset" toml:"duplicate_offset" validate:"gt=0"`
	PanModifier     string  `yaml:"pan_modifier" toml:"pan_modifier" validate:"oneof=alt ctrl shift"`
}

// LayoutConfig controls auto-layout spacing
type LayoutConfig struct {
	SpacingX float64 `yaml:"spacing_x" toml:"spacing_x" validate:"gt=0"`
	SpacingY float64 `yaml:"spacing_y" toml:"spacing_y" validate:"gt=0"`
	OriginX  float64 `yaml:"origin_x" toml:"origin_x" validate:"min=0"`
	OriginY  float64 `yaml:"origin_y" toml:"origin_y" validate:"min=0"`
}

// NodeConfig controls node geometry in logical units
type NodeConfig struct {
	Width      float64 `yaml:"width" toml:"width" validate:"gt=0"`
	Height     float64 `yaml:"height" toml:"height" validate:"gt=0"`
	PortRadius float64 `yaml:"port_radius" toml:"port_radius" validate:"gt=0"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
	File   string `yaml:"file" toml:"file"`
}

// Default returns the built-in configuration
func Default() *Config {
	lay := layout.DefaultOptions()
	return &Config{
		Canvas: CanvasConfig{
			MaxHistory:      history.DefaultMaxHistory,
			MinZoom:         viewport.DefaultMinZoom,
			MaxZoom:         viewport.DefaultMaxZoom,
			DragThrottleMS:  80,
			DuplicateOffset: canvas.DefaultDuplicateShift,
			PanModifier:     "alt",
		},
		Layout: LayoutConfig{
			SpacingX: lay.SpacingX,
			SpacingY: lay.SpacingY,
			OriginX:  lay.Origin.X,
			OriginY:  lay.Origin.Y,
		},
		Node: NodeConfig{
			Width:      route.DefaultNodeWidth,
			Height:     route.DefaultNodeHeight,
			PortRadius: route.DefaultPortRadius,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Load reads path over the defaults. The format follows the extension;
// ${VAR} references are expanded from the environment first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, canvaserrors.NewConfigNotFoundError(path)
		}
		return nil, canvaserrors.Wrap(canvaserrors.ErrCodeFileReadFailed, fmt.Sprintf("read config file: %s", path), err)
	}
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, canvaserrors.Wrap(canvaserrors.ErrCodeConfigParse, fmt.Sprintf("parse YAML config: %s", path), err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, canvaserrors.Wrap(canvaserrors.ErrCodeConfigParse, fmt.Sprintf("parse TOML config: %s", path), err)
		}
	default:
		return nil, canvaserrors.New(canvaserrors.ErrCodeConfigParse, fmt.Sprintf("unsupported config format %q", ext)).
			WithSuggestion("Use a .yaml, .yml or .toml file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return canvaserrors.NewConfigInvalidError(formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// PanModifier converts the configured modifier name
func (c *Config) PanModifier() interaction.Modifiers {
	switch c.Canvas.PanModifier {
	case "ctrl":
		return interaction.ModCtrl
	case "shift":
		return interaction.ModShift
	default:
		return interaction.ModAlt
	}
}

// CanvasOptions converts the settings into canvas options. Hooks, clock and
// logger are left for the caller.
func (c *Config) CanvasOptions() canvas.Options {
	opts := canvas.DefaultOptions()
	opts.MaxHistory = c.Canvas.MaxHistory
	opts.MinZoom = c.Canvas.MinZoom
	opts.MaxZoom = c.Canvas.MaxZoom
	opts.DragThrottle = time.Duration(c.Canvas.DragThrottleMS) * time.Millisecond
	if opts.DragThrottle == 0 {
		opts.DragThrottle = canvas.NoThrottle
	}
	opts.DuplicateOffset = geom.Pt(c.Canvas.DuplicateOffset, c.Canvas.DuplicateOffset)
	opts.PanModifier = c.PanModifier()
	opts.Layout = layout.Options{
		SpacingX: c.Layout.SpacingX,
		SpacingY: c.Layout.SpacingY,
		Origin:   geom.Pt(c.Layout.OriginX, c.Layout.OriginY),
	}
	opts.Geometry = route.Geometry{
		NodeSize:   geom.Size{W: c.Node.Width, H: c.Node.Height},
		PortRadius: c.Node.PortRadius,
	}
	return opts
}

// LoggerConfig converts the log section into a logger configuration
func (c *Config) LoggerConfig() log.Config {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(c.Log.Level)
	lc.Format = log.ParseFormat(c.Log.Format)
	return lc
}
