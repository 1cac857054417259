// FILE: faultline/src/internal/router/slog.go
package router

import (
	"context"
	"log/slog"
	"runtime"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"
)

// Handler feeds log/slog records into a router.
type Handler struct {
	router *Router
	name   string
	attrs  []slog.Attr
	prefix string
}

// NewHandler returns a slog handler emitting under logger name.
func NewHandler(r *Router, name string) *Handler {
	if name == "" {
		name = core.DefaultLoggerName
	}
	return &Handler{router: r, name: name}
}

// SeverityFromSlog maps slog levels onto the severity lattice. Levels at or
// above slog.LevelError+4 are CRITICAL.
func SeverityFromSlog(level slog.Level) core.Severity {
	switch {
	case level < slog.LevelInfo:
		return core.SeverityDebug
	case level < slog.LevelWarn:
		return core.SeverityInfo
	case level < slog.LevelError:
		return core.SeverityWarning
	case level < slog.LevelError+4:
		return core.SeverityError
	default:
		return core.SeverityCritical
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return SeverityFromSlog(level).AtLeast(h.router.MinSeverity())
}

func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	ev := core.NewEvent(SeverityFromSlog(rec.Level), h.name, rec.Message)
	if !rec.Time.IsZero() {
		ev.Time = rec.Time
	}
	if rec.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{rec.PC}).Next()
		ev.Source = core.SourceLocation{File: frame.File, Function: frame.Function, Line: frame.Line}
	}

	for _, a := range h.attrs {
		addAttr(&ev, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		addAttr(&ev, h.prefix, a)
		return true
	})

	h.router.Emit(ev)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func addAttr(ev *core.LogEvent, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(ev, group, ga)
		}
		return
	}

	if err, ok := a.Value.Any().(error); ok && err != nil && (a.Key == "error" || a.Key == "err") {
		ev.Exception = fault.Describe(err)
		return
	}
	setExtra(ev, prefix+a.Key, a.Value.String())
}
