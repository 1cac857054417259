// FILE: faultline/src/internal/router/logger.go
package router

import (
	"errors"
	"fmt"
	"time"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"
)

// Logger is a named emitter bound to a router. Arguments after the message
// are key/value pairs stored as event extras; an "error" key holding an
// error attaches it as the event exception.
type Logger struct {
	name   string
	router *Router
	fields []any
}

// Logger returns a named emitter.
func (r *Router) Logger(name string) *Logger {
	if name == "" {
		name = core.DefaultLoggerName
	}
	return &Logger{name: name, router: r}
}

func (l *Logger) Name() string {
	return l.name
}

// With returns a logger that adds kv to every event.
func (l *Logger) With(kv ...any) *Logger {
	fields := make([]any, 0, len(l.fields)+len(kv))
	fields = append(fields, l.fields...)
	fields = append(fields, kv...)
	return &Logger{name: l.name, router: l.router, fields: fields}
}

func (l *Logger) Debug(msg string, kv ...any) {
	l.log(2, core.SeverityDebug, msg, kv)
}

func (l *Logger) Info(msg string, kv ...any) {
	l.log(2, core.SeverityInfo, msg, kv)
}

func (l *Logger) Warn(msg string, kv ...any) {
	l.log(2, core.SeverityWarning, msg, kv)
}

func (l *Logger) Error(msg string, kv ...any) {
	l.log(2, core.SeverityError, msg, kv)
}

func (l *Logger) Critical(msg string, kv ...any) {
	l.log(2, core.SeverityCritical, msg, kv)
}

// Log emits at an explicit severity.
func (l *Logger) Log(sev core.Severity, msg string, kv ...any) {
	l.log(2, sev, msg, kv)
}

// LogDepth emits with the source location taken depth frames above its
// caller.
func (l *Logger) LogDepth(depth int, sev core.Severity, msg string, kv ...any) {
	l.log(2+depth, sev, msg, kv)
}

// LogAt emits with an explicit source location, for helpers that resolve
// the user's call site themselves. A zero src falls back to LogAt's caller.
func (l *Logger) LogAt(src core.SourceLocation, sev core.Severity, msg string, kv ...any) {
	if src.IsZero() {
		src = core.Caller(1)
	}
	ev := core.NewEvent(sev, l.name, msg)
	ev.Source = src
	l.apply(&ev, l.fields)
	l.apply(&ev, kv)
	l.router.Emit(ev)
}

// LogError renders a typed error through its own message layout; other
// errors are logged by message. The error is attached as the exception.
func (l *Logger) LogError(sev core.Severity, err error, kv ...any) {
	var typed *fault.Error
	if errors.As(err, &typed) {
		ev := typed.Render(sev, l.name)
		ev.Source = core.Caller(1)
		ev.Exception = fault.Describe(err)
		l.apply(&ev, l.fields)
		l.apply(&ev, kv)
		l.router.Emit(ev)
		return
	}
	l.log(2, sev, fault.MessageOf(err), append([]any{"error", err}, kv...))
}

// Emit sends a prebuilt event under this logger's name.
func (l *Logger) Emit(ev core.LogEvent) {
	if ev.Logger == "" {
		ev.Logger = l.name
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.apply(&ev, l.fields)
	l.router.Emit(ev)
}

func (l *Logger) log(skip int, sev core.Severity, msg string, kv []any) {
	ev := core.NewEvent(sev, l.name, msg)
	ev.Source = core.Caller(skip)
	l.apply(&ev, l.fields)
	l.apply(&ev, kv)
	l.router.Emit(ev)
}

func (l *Logger) apply(ev *core.LogEvent, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if i+1 >= len(kv) {
			setExtra(ev, "!BADKEY", key)
			break
		}
		val := kv[i+1]
		if err, ok := val.(error); ok && key == "error" {
			if err != nil {
				ev.Exception = fault.Describe(err)
			}
			continue
		}
		setExtra(ev, key, stringify(val))
	}
}

func setExtra(ev *core.LogEvent, key, val string) {
	if ev.Extra == nil {
		ev.Extra = make(map[string]string)
	}
	ev.Extra[key] = val
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case time.Duration:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	default:
		return fmt.Sprint(val)
	}
}
