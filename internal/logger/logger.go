// Package logger provides leveled logging for travelrag.
// Debug, Info and Warn messages are only printed when verbose mode is
// enabled via the --verbose flag. Error messages are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(false, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(true, "[ERROR] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(always bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
