// FILE: faultline/src/internal/core/event.go
package core

import (
	"runtime"
	"time"
)

// SourceLocation identifies the call site that produced an event.
type SourceLocation struct {
	File     string `json:"file"`
	Function string `json:"function"`
	Line     int    `json:"line"`
}

// Link is one step of an unwrapped error chain.
type Link struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Exception is the error block attached to an event.
type Exception struct {
	Type    string
	Message string
	Trace   string
	Chain   []Link
}

// LogEvent is a single emission. It is built per call, handed to each
// qualifying sink's formatter and then discarded.
type LogEvent struct {
	Time      time.Time
	Severity  Severity
	Logger    string
	Message   string
	Source    SourceLocation
	Exception *Exception
	Extra     map[string]string
}

// NewEvent stamps the current time on a bare event.
func NewEvent(sev Severity, logger, message string) LogEvent {
	return LogEvent{
		Time:     time.Now(),
		Severity: sev,
		Logger:   logger,
		Message:  message,
	}
}

// Caller resolves the source location skip frames above the caller of Caller.
func Caller(skip int) SourceLocation {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return SourceLocation{}
	}
	loc := SourceLocation{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	return loc
}

// IsZero reports whether the location was never resolved.
func (l SourceLocation) IsZero() bool {
	return l == SourceLocation{}
}

// ShortFunction trims the package path from a fully-qualified function name.
func (l SourceLocation) ShortFunction() string {
	name := l.Function
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			name = name[i+1:]
			break
		}
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
