package log

import "sync"

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// SetDefaultLogger replaces the process logger used by the CLI layer
func SetDefaultLogger(logger *Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// DefaultLogger returns the process logger, creating one from DefaultConfig
// on first use
func DefaultLogger() *Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = Default()
	}
	return defaultLogger
}
