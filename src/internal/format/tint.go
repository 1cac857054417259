// FILE: faultline/src/internal/format/tint.go
package format

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/lmittmann/tint"
)

// levelCritical sits above slog's highest named level
const levelCritical = slog.LevelError + 4

// TintFormatter renders events as colorized console lines through tint.
type TintFormatter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	handler slog.Handler
	logger  *log.Logger
}

// NewTintFormatter creates a console formatter. Options: "no_color" (bool)
// and "timestamp_format" (Go layout, default time.Kitchen).
func NewTintFormatter(options map[string]any, logger *log.Logger) (*TintFormatter, error) {
	f := &TintFormatter{logger: logger}
	f.handler = tint.NewHandler(&f.buf, &tint.Options{
		Level:       slog.LevelDebug,
		TimeFormat:  stringOption(options, "timestamp_format", time.Kitchen),
		NoColor:     boolOption(options, "no_color", false),
		ReplaceAttr: replaceCriticalLevel,
	})
	return f, nil
}

// Format writes the event through the tint handler into a private buffer.
func (f *TintFormatter) Format(event core.LogEvent) ([]byte, error) {
	rec := slog.NewRecord(event.Time, toSlogLevel(event.Severity), event.Message, 0)
	if event.Logger != "" {
		rec.AddAttrs(slog.String("logger", event.Logger))
	}

	keys := make([]string, 0, len(event.Extra))
	for k := range event.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec.AddAttrs(slog.String(k, event.Extra[k]))
	}

	if exc := event.Exception; exc != nil {
		rec.AddAttrs(slog.String("error", exc.Type+": "+exc.Message))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf.Reset()
	if err := f.handler.Handle(context.Background(), rec); err != nil {
		return nil, err
	}

	out := make([]byte, f.buf.Len())
	copy(out, f.buf.Bytes())
	return out, nil
}

// Returns the formatter name
func (f *TintFormatter) Name() string {
	return "tint"
}

func toSlogLevel(sev core.Severity) slog.Level {
	switch sev {
	case core.SeverityDebug:
		return slog.LevelDebug
	case core.SeverityInfo:
		return slog.LevelInfo
	case core.SeverityWarning:
		return slog.LevelWarn
	case core.SeverityError:
		return slog.LevelError
	default:
		return levelCritical
	}
}

func replaceCriticalLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= levelCritical {
			return slog.String(slog.LevelKey, "CRT")
		}
	}
	return a
}
