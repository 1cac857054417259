// FILE: faultline/src/internal/format/text.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
)

// Template presets matching the standard sink topology
var presets = map[string]string{
	"detailed": "[{{FmtTime .Timestamp}}] [{{.Level}}] [{{.Logger}}] [{{.File}}:{{.Function}}:{{.Line}}] {{.Message}}",
	"brief":    "[{{FmtTime .Timestamp}}] [{{.Level}}] {{.Message}}",
	"critical": "[{{FmtTime .Timestamp}}] CRITICAL: {{.Message}} | {{.File}}:{{.Function}}:{{.Line}}",
	"console":  "[{{.Level}}] {{.Logger}} - {{.Message}}",
}

const defaultTimestampFormat = "2006-01-02 15:04:05"

// Produces human-readable text logs using templates
type TextFormatter struct {
	template        *template.Template
	timestampFormat string
	includeTrace    bool
	logger          *log.Logger
}

// Creates a new text formatter. The "template" option wins over "preset".
func NewTextFormatter(options map[string]any, logger *log.Logger) (*TextFormatter, error) {
	f := &TextFormatter{
		timestampFormat: stringOption(options, "timestamp_format", defaultTimestampFormat),
		includeTrace:    boolOption(options, "include_trace", true),
		logger:          logger,
	}

	preset := stringOption(options, "preset", "detailed")
	text, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown text preset: %s", preset)
	}
	text = stringOption(options, "template", text)

	// Create template with helper functions
	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.timestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("log").Funcs(funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

// Formats the log event using the template
func (f *TextFormatter) Format(event core.LogEvent) ([]byte, error) {
	data := map[string]any{
		"Timestamp": event.Time,
		"Level":     event.Severity.String(),
		"Logger":    event.Logger,
		"Message":   event.Message,
		"File":      baseFile(event.Source.File),
		"Function":  event.Source.ShortFunction(),
		"Line":      event.Source.Line,
		"Extra":     event.Extra,
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		// Fallback: return a basic formatted message
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		buf.Reset()
		fmt.Fprintf(&buf, "[%s] [%s] %s - %s",
			event.Time.Format(f.timestampFormat),
			event.Severity,
			event.Logger,
			event.Message)
	}

	// Exception trace follows the record line, one frame per line
	if f.includeTrace && event.Exception != nil && event.Exception.Trace != "" {
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.TrimRight(event.Exception.Trace, "\n"))
	}

	// Ensure newline at end
	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

// Returns the formatter name
func (f *TextFormatter) Name() string {
	return "text"
}
