// FILE: faultline/src/internal/pipeline/report.go
package pipeline

import (
	"fmt"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"
)

// ErrorSummary is the caller-facing description of a handled failure,
// suitable for an API response body.
type ErrorSummary struct {
	Error     bool   `json:"error"`
	Operation string `json:"operation"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

// ReportError logs err at ERROR with the operation and its details as
// extras, records it and returns the summary.
func (lc *LoggingContext) ReportError(operation string, err error, kv ...any) ErrorSummary {
	if err == nil {
		return ErrorSummary{Operation: operation, Message: "Unknown error", Type: "Unknown"}
	}

	summary := ErrorSummary{
		Error:     true,
		Operation: operation,
		Message:   err.Error(),
		Type:      fault.TypeName(err),
	}

	fields := append([]any{
		"operation", operation,
		"exception_type", summary.Type,
		"exception_message", summary.Message,
		"error", err,
	}, kv...)
	lc.logger.LogDepth(1, core.SeverityError, fmt.Sprintf("Error in %s: %v", operation, err), fields...)

	lc.aggregator.Record(operation, err, core.SeverityError, kv...)
	return summary
}
