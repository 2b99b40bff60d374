package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/metrics"
	"github.com/felixgeelhaar/flowcanvas/internal/plan"
	"github.com/felixgeelhaar/flowcanvas/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [plan]",
	Short: "Open a plan in the interactive canvas editor",
	Long: `Open a plan in the terminal canvas editor.

Drag nodes with the mouse, drag from an output port to an input port to
connect, drag on empty space to box select, and hold alt (or use the
middle button) to pan. The wheel zooms. Press ? for all keys.

Without a plan argument the editor starts empty; use --out to choose where
it is saved.

Examples:
  flowcanvas edit plan.yaml

  # Show live status from a running execution
  flowcanvas edit plan.yaml --status-feed run/status.ndjson

  # Keep logs and expose canvas metrics while editing
  flowcanvas edit plan.yaml --log-file flowcanvas.log --metrics-addr localhost:9464
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

var (
	editOut         string
	editStatusFeed  string
	editLogFile     string
	editMetricsAddr string
)

func init() {
	editCmd.Flags().StringVarP(&editOut, "out", "o", "", "save to this file (defaults to the plan being edited)")
	editCmd.Flags().StringVar(&editStatusFeed, "status-feed", "", "NDJSON file of node status updates to follow")
	editCmd.Flags().StringVar(&editLogFile, "log-file", "", "write logs to this file")
	editCmd.Flags().StringVar(&editMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if !tui.IsInteractive() {
		return fmt.Errorf("edit needs an interactive terminal")
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}
	cfg, err := cmdCtx.LoadConfig()
	if err != nil {
		return err
	}

	// the editor owns the screen; logs go to a file or nowhere
	logFile := editLogFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	logOut, closeLog, err := openLogFile(logFile, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := cmdCtx.Logger(cfg, logOut)

	doc, target, err := editTarget(args, editOut)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reg, m := metrics.NewRegistry()
	if editMetricsAddr != "" {
		stop, _, err := serveMetrics(editMetricsAddr, metrics.HandlerFor(reg), logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	opts := cfg.CanvasOptions()
	opts.Logger = logger
	opts.Metrics = m

	result, err := tui.RunEditor(ctx, tui.EditorConfig{
		Options:  opts,
		Document: doc,
		Path:     target,
		Logger:   logger,
	}, editStatusFeed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case result.Dirty:
		fmt.Fprintf(out, "%s quit with unsaved changes\n", warnIcon())
	case result.Saved:
		fmt.Fprintf(out, "%s saved %s\n", okIcon(), target)
	}
	return nil
}

// editTarget loads the plan named in args, if any, and picks the save path
func editTarget(args []string, out string) (*plan.Document, string, error) {
	if len(args) == 0 {
		return &plan.Document{}, out, nil
	}
	doc, err := plan.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	if out == "" {
		out = args[0]
	}
	return doc, out, nil
}

// serveMetrics starts a metrics endpoint in the background. It returns a
// function that shuts it down and the address it listens on.
func serveMetrics(addr string, handler http.Handler, logger *log.Logger) (func(), string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server stopped")
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, ln.Addr().String(), nil
}
