// FILE: faultline/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"
	"time"

	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
)

// Fixed keys of the structured record. Renaming or dropping any of them breaks
// downstream aggregation tooling.
const (
	KeyTimestamp = "timestamp"
	KeyLevel     = "level"
	KeyLogger    = "logger"
	KeyMessage   = "message"
	KeyFunction  = "function"
	KeyLine      = "line"
	KeyException = "exception"
)

// Keys of the nested exception block
const (
	KeyExceptionType    = "type"
	KeyExceptionMessage = "message"
	KeyExceptionTrace   = "trace"
)

var reservedKeys = map[string]struct{}{
	KeyTimestamp: {},
	KeyLevel:     {},
	KeyLogger:    {},
	KeyMessage:   {},
	KeyFunction:  {},
	KeyLine:      {},
	KeyException: {},
}

// JSONFormatter produces one flat JSON object per event.
//
// Extras are merged as top-level string keys. An extra that shares a name with
// a fixed key is dropped; fixed keys always win.
type JSONFormatter struct {
	pretty          bool
	timestampFormat string
	logger          *log.Logger
}

// NewJSONFormatter creates a new JSON formatter from configuration options.
func NewJSONFormatter(options map[string]any, logger *log.Logger) (*JSONFormatter, error) {
	f := &JSONFormatter{
		pretty:          boolOption(options, "pretty", false),
		timestampFormat: stringOption(options, "timestamp_format", time.RFC3339Nano),
		logger:          logger,
	}
	return f, nil
}

// Format transforms a single LogEvent into a JSON byte slice.
func (f *JSONFormatter) Format(event core.LogEvent) ([]byte, error) {
	output := make(map[string]any, len(reservedKeys)+len(event.Extra))

	for k, v := range event.Extra {
		if _, reserved := reservedKeys[k]; reserved {
			f.logger.Debug("msg", "Dropping extra field that collides with a fixed key",
				"component", "json_formatter",
				"key", k)
			continue
		}
		output[k] = v
	}

	output[KeyTimestamp] = event.Time.Format(f.timestampFormat)
	output[KeyLevel] = event.Severity.String()
	output[KeyLogger] = event.Logger
	output[KeyMessage] = event.Message
	output[KeyFunction] = event.Source.ShortFunction()
	output[KeyLine] = event.Source.Line

	if exc := event.Exception; exc != nil {
		output[KeyException] = map[string]string{
			KeyExceptionType:    exc.Type,
			KeyExceptionMessage: exc.Message,
			KeyExceptionTrace:   exc.Trace,
		}
	}

	var result []byte
	var err error
	if f.pretty {
		result, err = json.MarshalIndent(output, "", "  ")
	} else {
		result, err = json.Marshal(output)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
