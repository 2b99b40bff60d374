package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowcanvas/internal/config"
)

func TestGetNestedValue(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.PanModifier = "ctrl"

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "integer", key: "canvas.max_history", want: "50"},
		{name: "float", key: "layout.spacing_x", want: "200"},
		{name: "string", key: "canvas.pan_modifier", want: "ctrl"},
		{name: "section", key: "node", want: "height: 60\nport_radius: 10\nwidth: 160"},
		{name: "unknown leaf", key: "canvas.nope", wantErr: true},
		{name: "too deep", key: "canvas.max_history.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getNestedValue(cfg, tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown config key")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigInitWritesLoadableFiles(t *testing.T) {
	for _, name := range []string{"flowcanvas.yaml", "flowcanvas.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			out, err := executeCommand(t, "config", "init", path)
			require.NoError(t, err)
			assert.Contains(t, out, "wrote "+path)

			cfg, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, config.Default(), cfg)
		})
	}
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcanvas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas:\n  max_history: 5\n"), 0600))

	_, err := executeCommand(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCommand(t, "config", "init", path, "--force")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_history: 50")
}

func TestConfigViewAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcanvas.toml")
	require.NoError(t, os.WriteFile(path, []byte("[layout]\nspacing_x = 300.0\n"), 0600))

	out, err := executeCommand(t, "config", "view", "--config", path, "--format", "toml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+path), out)
	assert.Contains(t, out, "spacing_x = 300.0")

	out, err = executeCommand(t, "config", "get", "layout.spacing_x", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "300\n", out)
}
