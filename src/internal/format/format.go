// FILE: faultline/src/internal/format/format.go
package format

import (
	"fmt"
	"path/filepath"

	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for rendering a LogEvent into a byte slice.
type Formatter interface {
	// Format takes a LogEvent and returns one newline-terminated record.
	Format(event core.LogEvent) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a new Formatter based on the provided configuration.
func New(name string, options map[string]any, logger *log.Logger) (Formatter, error) {
	// Default to text if no format specified
	if name == "" {
		name = "text"
	}

	switch name {
	case "json":
		return NewJSONFormatter(options, logger)
	case "text", "txt":
		return NewTextFormatter(options, logger)
	case "tint":
		return NewTintFormatter(options, logger)
	case "raw":
		return NewRawFormatter(options, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}

// Option lookups tolerate missing maps and the numeric types TOML decoding
// produces.
func stringOption(options map[string]any, key, def string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolOption(options map[string]any, key string, def bool) bool {
	if v, ok := options[key].(bool); ok {
		return v
	}
	return def
}

func baseFile(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
