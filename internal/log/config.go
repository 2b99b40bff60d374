package log

import (
	"io"
	"os"
	"strings"
)

// Format is the encoding of log records
type Format int

// Supported formats
const (
	FormatJSON Format = iota
	FormatText
)

// String returns the name used in config files
func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// ParseFormat reads a format name in any case. Unknown names mean JSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Output is where records are written
type Output struct {
	writer io.Writer
}

// NewOutput wraps w
func NewOutput(w io.Writer) Output {
	return Output{writer: w}
}

// OutputStderr writes to the process stderr
func OutputStderr() Output {
	return Output{writer: os.Stderr}
}

func (o Output) destination() io.Writer {
	if o.writer == nil {
		return os.Stderr
	}
	return o.writer
}

// Config holds logger settings
type Config struct {
	Level  Level
	Format Format
	Output Output

	// AddSource includes the caller's file and line
	AddSource bool

	// ServiceName and ServiceVersion are attached to every record when
	// ServiceName is set
	ServiceName    string
	ServiceVersion string
}

// DefaultConfig logs info and above as JSON on stderr, leaving stdout for
// command output
func DefaultConfig() Config {
	return Config{
		Level:          LevelInfo,
		Format:         FormatJSON,
		Output:         OutputStderr(),
		ServiceName:    "flowcanvas",
		ServiceVersion: "dev",
	}
}
