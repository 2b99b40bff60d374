package exitcode

import (
	"os"
	"strings"

	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// InvalidPlan indicates a plan file that could not be loaded or validated
	InvalidPlan = 3

	// ConfigError indicates a missing or invalid configuration file
	ConfigError = 4

	// IOError indicates a file could not be read or written
	IOError = 5

	// FeedError indicates the status feed could not be opened or watched
	FeedError = 6

	// Interrupted indicates the command was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode maps an error to an exit code. Coded errors map by their
// code family; anything else falls back to the message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	code := string(canvaserrors.CodeOf(err))
	switch {
	case strings.HasPrefix(code, "PLAN-"):
		return InvalidPlan
	case strings.HasPrefix(code, "CONFIG-"):
		return ConfigError
	case strings.HasPrefix(code, "IO-"):
		return IOError
	case strings.HasPrefix(code, "FEED-"):
		return FeedError
	}

	errMsg := strings.ToLower(err.Error())

	// Usage errors as reported by cobra
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case InvalidPlan:
		return "Invalid plan file"
	case ConfigError:
		return "Configuration error"
	case IOError:
		return "File read or write error"
	case FeedError:
		return "Status feed error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
