// FILE: faultline/src/internal/format/raw.go
package format

import (
	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
)

// Outputs the event message as-is with a newline
type RawFormatter struct {
	logger *log.Logger
}

// Creates a new raw formatter
func NewRawFormatter(options map[string]any, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{
		logger: logger,
	}, nil
}

// Returns the message with a newline appended
func (f *RawFormatter) Format(event core.LogEvent) ([]byte, error) {
	return append([]byte(event.Message), '\n'), nil
}

// Returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
