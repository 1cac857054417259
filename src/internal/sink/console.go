// FILE: faultline/src/internal/sink/console.go
package sink

import (
	"fmt"
	"io"
	"sync"

	"faultline/src/internal/core"
	"faultline/src/internal/filter"
	"faultline/src/internal/format"
	"faultline/src/internal/metrics"

	"github.com/lixenwraith/log"
)

// ConsoleSink writes formatted events to stdout or stderr
type ConsoleSink struct {
	base
	target string
	mu     sync.Mutex
	output io.Writer
}

// NewConsoleSink creates a console sink writing to output
func NewConsoleSink(name, target string, output io.Writer, minSeverity core.Severity, formatter format.Formatter, filters *filter.Chain, logger *log.Logger) *ConsoleSink {
	if logger == nil {
		logger = log.NewLogger()
	}
	s := &ConsoleSink{
		target: target,
		output: output,
	}
	s.initBase(name, minSeverity, formatter, filters, logger)
	logger.Info("msg", "Console sink started",
		"component", "console_sink",
		"sink", name,
		"target", target)
	return s
}

func (s *ConsoleSink) Write(event core.LogEvent) error {
	if !event.Severity.AtLeast(s.minSeverity) {
		return nil
	}

	formatted, err := s.formatter.Format(event)
	if err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("format for sink '%s': %w", s.name, err)
	}

	s.mu.Lock()
	_, err = s.output.Write(formatted)
	s.mu.Unlock()
	if err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("write to %s: %w", s.target, err)
	}

	s.markWritten()
	metrics.SinkWrites.WithLabelValues(s.name).Inc()
	return nil
}

// Close leaves the process streams open.
func (s *ConsoleSink) Close() error {
	s.logger.Info("msg", "Console sink stopped", "component", "console_sink", "sink", s.name)
	return nil
}

func (s *ConsoleSink) GetStats() SinkStats {
	return s.stats("console", map[string]any{
		"target": s.target,
	})
}
