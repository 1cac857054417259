// FILE: faultline/src/cmd/faultline/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// OutputHandler writes the service's own console messages, honoring quiet mode
type OutputHandler struct {
	quiet  bool
	mu     sync.RWMutex
	stdout io.Writer
	stderr io.Writer
}

// Global output handler instance
var output *OutputHandler

// InitOutputHandler initializes the global output handler
func InitOutputHandler(quiet bool) {
	output = &OutputHandler{
		quiet:  quiet,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Print writes to stdout if not in quiet mode
func (o *OutputHandler) Print(format string, args ...any) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.quiet {
		fmt.Fprintf(o.stdout, format, args...)
	}
}

// Error writes to stderr if not in quiet mode
func (o *OutputHandler) Error(format string, args ...any) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.quiet {
		fmt.Fprintf(o.stderr, format, args...)
	}
}

// IsQuiet returns the current quiet mode status
func (o *OutputHandler) IsQuiet() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.quiet
}

func Print(format string, args ...any) {
	if output != nil {
		output.Print(format, args...)
	}
}

func Error(format string, args ...any) {
	if output != nil {
		output.Error(format, args...)
	}
}

// FatalError writes to stderr and exits. Fatal errors are shown even in
// quiet mode.
func FatalError(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}
