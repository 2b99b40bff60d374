package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowcanvas",
	Short: "Interactive editor for workflow graphs",
	Long: `flowcanvas edits directed workflow graphs in the terminal.

Plans are JSON or YAML files listing nodes, their dependencies and their
positions. The editor supports dragging, connecting, box selection, undo
and redo, and shows live execution status from a status feed.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json (overrides config)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}
