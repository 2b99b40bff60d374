package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowcanvas/internal/config"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/version"
)

// CommandContext holds the persistent flags shared by every command.
// Commands build one in RunE instead of reading package globals:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		cmdCtx, err := NewCommandContext(cmd)
//		if err != nil {
//			return err
//		}
//		cfg, err := cmdCtx.LoadConfig()
//		...
//	}
type CommandContext struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	NoColor    bool
}

// NewCommandContext extracts the persistent flags from cmd
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	if noColor {
		color.NoColor = true
	}

	return &CommandContext{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		NoColor:    noColor,
	}, nil
}

// LoadConfig reads the config file, or returns the defaults when none was
// given
func (c *CommandContext) LoadConfig() (*config.Config, error) {
	if c.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(c.ConfigPath)
}

// Logger builds the process logger from the config and flag overrides. Logs
// go to w; the caller owns it.
func (c *CommandContext) Logger(cfg *config.Config, w io.Writer) *log.Logger {
	lc := cfg.LoggerConfig()
	if c.LogLevel != "" {
		lc.Level = log.ParseLevel(c.LogLevel)
	}
	if c.LogFormat != "" {
		lc.Format = log.ParseFormat(c.LogFormat)
	}
	lc.Output = log.NewOutput(w)
	lc.ServiceVersion = version.GetInfo().Short()

	logger := log.New(lc)
	log.SetDefaultLogger(logger)
	return logger
}

// openLogFile opens path for appending. An empty path logs to fallback.
func openLogFile(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
