// FILE: faultline/src/cmd/faultline/status.go
package main

import (
	"context"
	"time"

	"faultline/src/internal/aggregate"
	"faultline/src/internal/pipeline"
)

// statusReporter periodically logs the error report and sink statistics
func statusReporter(ctx context.Context, lc *pipeline.LoggingContext, interval time.Duration, reset bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("msg", "Panic in status reporter",
							"component", "status_reporter",
							"panic", r)
					}
				}()

				var summary aggregate.Summary
				if reset {
					summary = lc.Aggregator().Drain()
				} else {
					summary = lc.Report()
				}
				logSummary(summary)

				stats := lc.Stats()
				logger.Debug("msg", "Router status",
					"component", "status_reporter",
					"emitted", stats.TotalEmitted,
					"delivered", stats.TotalDelivered,
					"dropped", stats.TotalDropped,
					"fallback_reported", stats.Fallback.TotalReported,
					"fallback_suppressed", stats.Fallback.TotalSuppressed)
			}()
		}
	}
}

func logSummary(summary aggregate.Summary) {
	fields := []any{
		"msg", "Error report",
		"component", "status_reporter",
		"total_errors", summary.TotalErrors,
		"critical", summary.Critical,
		"errors", summary.Errors,
		"warnings", summary.Warnings,
	}
	for kind, count := range summary.ErrorTypes {
		fields = append(fields, "type."+kind, count)
	}

	if summary.Critical > 0 {
		logger.Warn(fields...)
		return
	}
	logger.Info(fields...)
}
