package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodePlanNotFound          ErrorCode = "PLAN-001"
	ErrCodePlanInvalid           ErrorCode = "PLAN-002"
	ErrCodePlanDuplicateNode     ErrorCode = "PLAN-003"
	ErrCodePlanUnsupportedFormat ErrorCode = "PLAN-004"
	ErrCodePlanInvalidStatus     ErrorCode = "PLAN-005"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"
	ErrCodeConfigParse    ErrorCode = "CONFIG-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"

	// Status feed errors (FEED-001 to FEED-099)
	ErrCodeFeedOpen    ErrorCode = "FEED-001"
	ErrCodeFeedWatch   ErrorCode = "FEED-002"
	ErrCodeFeedDecode  ErrorCode = "FEED-003"
	ErrCodeFeedUnknown ErrorCode = "FEED-004"
)

// CanvasError represents an enhanced error with code, suggestions, and documentation
type CanvasError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *CanvasError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CanvasError) Unwrap() error {
	return e.Cause
}

// New creates a new CanvasError
func New(code ErrorCode, message string) *CanvasError {
	return &CanvasError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CanvasError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CanvasError {
	return &CanvasError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CanvasError) WithSuggestion(suggestion string) *CanvasError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CanvasError) WithSuggestions(suggestions ...string) *CanvasError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *CanvasError) WithDocs(url string) *CanvasError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first CanvasError in err's chain, or ""
func CodeOf(err error) ErrorCode {
	var ce *CanvasError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// Common error constructors for frequently used errors

// NewPlanNotFoundError creates a plan file not found error
func NewPlanNotFoundError(path string) *CanvasError {
	return New(ErrCodePlanNotFound, fmt.Sprintf("plan file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Run 'flowcanvas edit <file>' on a new path to start an empty plan").
		WithDocs("https://github.com/felixgeelhaar/flowcanvas#plan-files")
}

// NewPlanInvalidError creates a plan validation error
func NewPlanInvalidError(details string) *CanvasError {
	return New(ErrCodePlanInvalid, fmt.Sprintf("invalid plan: %s", details)).
		WithSuggestion("Run 'flowcanvas validate <file>' to see every problem").
		WithDocs("https://github.com/felixgeelhaar/flowcanvas#plan-files")
}

// NewPlanDuplicateNodeError creates a duplicate node id error
func NewPlanDuplicateNodeError(id string) *CanvasError {
	return New(ErrCodePlanDuplicateNode, fmt.Sprintf("duplicate node id: %s", id)).
		WithSuggestion("Give every node a unique id")
}

// NewPlanUnsupportedFormatError creates an unknown plan extension error
func NewPlanUnsupportedFormatError(path string) *CanvasError {
	return New(ErrCodePlanUnsupportedFormat, fmt.Sprintf("unsupported plan format: %s", path)).
		WithSuggestion("Use a .json, .yaml or .yml file")
}

// NewConfigNotFoundError creates a config file not found error
func NewConfigNotFoundError(path string) *CanvasError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("config file not found: %s", path)).
		WithSuggestion("Check the --config path").
		WithSuggestion("Omit --config to use the built-in defaults")
}

// NewConfigInvalidError creates a config validation error
func NewConfigInvalidError(details string) *CanvasError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Check the value ranges in your config file").
		WithDocs("https://github.com/felixgeelhaar/flowcanvas#configuration")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *CanvasError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *CanvasError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

// NewFeedDecodeError creates a status feed line decode error
func NewFeedDecodeError(line int, cause error) *CanvasError {
	return Wrap(ErrCodeFeedDecode, fmt.Sprintf("invalid status feed line %d", line), cause).
		WithSuggestion(`Each line must be a JSON object like {"node":"id","status":"running","progress":40}`)
}
