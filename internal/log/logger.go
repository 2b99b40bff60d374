// Package log is a small structured logger over log/slog. Coded errors from
// internal/errors are expanded into fields.
package log

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/flowcanvas/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a logger from config
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == FormatText {
		handler = slog.NewTextHandler(config.Output.destination(), opts)
	} else {
		handler = slog.NewJSONHandler(config.Output.destination(), opts)
	}

	logger := slog.New(handler)
	if config.ServiceName != "" {
		logger = logger.With("service", config.ServiceName, "version", config.ServiceVersion)
	}
	return &Logger{slog: logger, config: config}
}

// Discard creates a logger that drops everything
func Discard() *Logger {
	return New(Config{Level: LevelError, Format: FormatText, Output: NewOutput(io.Discard)})
}

// Default creates a logger with DefaultConfig
func Default() *Logger {
	return New(DefaultConfig())
}

// With returns a logger that adds args to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// WithError returns a logger carrying err. A wrapped CanvasError adds its
// code, suggestions and cause as separate fields.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With(errorArgs(err)...)
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs at info level
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs at error level
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// LogError logs err at error level with its fields
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	l.Error("operation failed", errorArgs(err)...)
}

// Enabled reports whether records at level are written
func (l *Logger) Enabled(level Level) bool {
	return l.slog.Enabled(context.Background(), level.slogLevel())
}

// Config returns the configuration the logger was built with
func (l *Logger) Config() Config {
	return l.config
}

func errorArgs(err error) []any {
	var canvasErr *errors.CanvasError
	if !stderrors.As(err, &canvasErr) {
		return []any{"error", err.Error()}
	}

	args := []any{
		"error", canvasErr.Message,
		"error_code", string(canvasErr.Code),
	}
	if len(canvasErr.Suggestions) > 0 {
		args = append(args, "suggestions", canvasErr.Suggestions)
	}
	if canvasErr.DocsURL != "" {
		args = append(args, "docs_url", canvasErr.DocsURL)
	}
	if canvasErr.Cause != nil {
		args = append(args, "cause", canvasErr.Cause.Error())
	}
	return args
}
