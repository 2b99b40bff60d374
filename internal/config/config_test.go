package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultMatchesCanvasDefaults(t *testing.T) {
	opts := Default().CanvasOptions()

	assert.Equal(t, 50, opts.MaxHistory)
	assert.Equal(t, 80*time.Millisecond, opts.DragThrottle)
	assert.Equal(t, geom.Pt(50, 50), opts.DuplicateOffset)
	assert.Equal(t, interaction.ModAlt, opts.PanModifier)
	assert.Equal(t, geom.Size{W: 160, H: 60}, opts.Geometry.NodeSize)
	assert.Equal(t, geom.Pt(50, 50), opts.Layout.Origin)
	assert.Equal(t, 200.0, opts.Layout.SpacingX)
	assert.Equal(t, 140.0, opts.Layout.SpacingY)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "flowcanvas.yaml", `
canvas:
  max_history: 20
  drag_throttle_ms: 40
  pan_modifier: ctrl
layout:
  spacing_x: 240
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Canvas.MaxHistory)
	assert.Equal(t, 240.0, cfg.Layout.SpacingX)
	assert.Equal(t, 140.0, cfg.Layout.SpacingY, "unset fields keep defaults")

	opts := cfg.CanvasOptions()
	assert.Equal(t, 40*time.Millisecond, opts.DragThrottle)
	assert.Equal(t, interaction.ModCtrl, opts.PanModifier)

	lc := cfg.LoggerConfig()
	assert.Equal(t, log.LevelDebug, lc.Level)
	assert.Equal(t, log.FormatJSON, lc.Format)
}

func TestZeroDragThrottleDisablesThrottling(t *testing.T) {
	cfg, err := Load(writeConfig(t, "flowcanvas.yaml", "canvas:\n  drag_throttle_ms: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, canvas.NoThrottle, cfg.CanvasOptions().DragThrottle)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "flowcanvas.toml", `
[canvas]
max_history = 5
min_zoom = 0.5
max_zoom = 2.0

[node]
width = 120
height = 40
port_radius = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.CanvasOptions()
	assert.Equal(t, 5, opts.MaxHistory)
	assert.Equal(t, 0.5, opts.MinZoom)
	assert.Equal(t, 2.0, opts.MaxZoom)
	assert.Equal(t, geom.Size{W: 120, H: 40}, opts.Geometry.NodeSize)
	assert.Equal(t, 8.0, opts.Geometry.PortRadius)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("FLOWCANVAS_LOG_LEVEL", "warn")
	path := writeConfig(t, "flowcanvas.yaml", "log:\n  level: ${FLOWCANVAS_LOG_LEVEL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode canvaserrors.ErrorCode
		contains string
	}{
		{"bad yaml", "c.yaml", "canvas: [", canvaserrors.ErrCodeConfigParse, ""},
		{"bad toml", "c.toml", "[canvas\n", canvaserrors.ErrCodeConfigParse, ""},
		{"unknown extension", "c.ini", "x=1", canvaserrors.ErrCodeConfigParse, ""},
		{"history too small", "c.yaml", "canvas:\n  max_history: 0\n", canvaserrors.ErrCodeConfigInvalid, "Canvas.MaxHistory must be at least 1"},
		{"zoom bounds inverted", "c.yaml", "canvas:\n  min_zoom: 2\n  max_zoom: 1\n", canvaserrors.ErrCodeConfigInvalid, "Canvas.MaxZoom"},
		{"bad modifier", "c.yaml", "canvas:\n  pan_modifier: meta\n", canvaserrors.ErrCodeConfigInvalid, "must be one of"},
		{"bad log level", "c.toml", "[log]\nlevel = \"loud\"\n", canvaserrors.ErrCodeConfigInvalid, "Log.Level"},
		{"zero duplicate offset", "c.yaml", "canvas:\n  duplicate_offset: 0\n", canvaserrors.ErrCodeConfigInvalid, "Canvas.DuplicateOffset must be greater than 0"},
		{"zero node width", "c.yaml", "node:\n  width: 0\n", canvaserrors.ErrCodeConfigInvalid, "Node.Width must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, canvaserrors.CodeOf(err), "error: %v", err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, canvaserrors.ErrCodeConfigNotFound, canvaserrors.CodeOf(err))
}
