// FILE: faultline/src/internal/aggregate/record.go
package aggregate

import (
	"time"

	"faultline/src/internal/core"
)

// ErrorRecord is one recorded failure. Records are never modified after
// creation.
type ErrorRecord struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Operation string            `json:"operation"`
	ErrorKind string            `json:"error_kind"`
	Message   string            `json:"message"`
	Severity  core.Severity     `json:"severity"`
	Context   map[string]string `json:"context,omitempty"`
	Trace     string            `json:"trace,omitempty"`
}

// Key is the count key "operation:kind".
func (r ErrorRecord) Key() string {
	return r.Operation + ":" + r.ErrorKind
}

// RecentError is the abbreviated record shown in a summary
type RecentError struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
}

// Summary is a point-in-time report of the aggregator
type Summary struct {
	TotalErrors  int            `json:"total_errors"`
	Critical     int            `json:"critical"`
	Errors       int            `json:"errors"`
	Warnings     int            `json:"warnings"`
	ErrorTypes   map[string]int `json:"error_types"`
	RecentErrors []RecentError  `json:"recent_errors"`
}
