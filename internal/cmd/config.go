package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowcanvas/internal/config"
	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create flowcanvas configuration",
	Long: `Inspect the effective configuration or write a starter file.

The configuration is read from the file given with --config (YAML or TOML)
on top of the built-in defaults. It covers history depth, zoom limits, drag
throttling, layout spacing, node size and logging.

Examples:
  # View the effective configuration
  flowcanvas config view --config flowcanvas.toml

  # Get a specific value
  flowcanvas config get layout.spacing_x

  # Write the defaults to a new file
  flowcanvas config init flowcanvas.yaml
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	RunE:  runConfigView,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  `Retrieve the value of a configuration key using dot notation (e.g., canvas.max_history).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the default configuration to a file",
	Long:  `Write the built-in defaults to path. The format follows the extension (.yaml, .yml or .toml).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigInit,
}

var (
	configViewFormat string
	configInitForce  bool
)

func init() {
	configViewCmd.Flags().StringVarP(&configViewFormat, "format", "f", "yaml", "output format: yaml or toml")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}
	cfg, err := cmdCtx.LoadConfig()
	if err != nil {
		return err
	}

	data, err := encodeConfig(cfg, configViewFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := cmdCtx.ConfigPath
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(out, "%s\n\n", subtleColor.Sprintf("# %s", source))
	_, err = out.Write(data)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}
	cfg, err := cmdCtx.LoadConfig()
	if err != nil {
		return err
	}

	value, err := getNestedValue(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return canvaserrors.New(canvaserrors.ErrCodeFileWriteFailed, fmt.Sprintf("config file already exists: %s", path)).
			WithSuggestion("Pass --force to overwrite it")
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	data, err := encodeConfig(config.Default(), format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFileWriteFailed, fmt.Sprintf("write config file: %s", path), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", okIcon(), path)
	return nil
}

func encodeConfig(cfg *config.Config, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, canvaserrors.New(canvaserrors.ErrCodeConfigParse, fmt.Sprintf("unsupported config format %q", format)).
			WithSuggestion("Use yaml or toml")
	}
}

// getNestedValue resolves a dotted key against the YAML form of cfg
func getNestedValue(cfg *config.Config, key string) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}

	var current any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", fmt.Errorf("unknown config key: %s", key)
		}
		current, ok = m[part]
		if !ok {
			return "", fmt.Errorf("unknown config key: %s", key)
		}
	}

	if _, ok := current.(map[string]any); ok {
		out, err := yaml.Marshal(current)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(out), "\n"), nil
	}
	return fmt.Sprint(current), nil
}
