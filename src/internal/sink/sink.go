// FILE: faultline/src/internal/sink/sink.go
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"faultline/src/internal/config"
	"faultline/src/internal/core"
	"faultline/src/internal/filter"
	"faultline/src/internal/format"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// Sink represents an output destination for log events
type Sink interface {
	// Name returns the configured sink identifier
	Name() string

	// MinSeverity returns the sink threshold
	MinSeverity() core.Severity

	// Accepts reports whether the event passes the threshold and filters
	Accepts(event core.LogEvent) bool

	// Write formats and persists one event
	Write(event core.LogEvent) error

	// Close flushes and releases the destination
	Close() error

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	MinLevel       string         `json:"min_level"`
	Format         string         `json:"format"`
	TotalProcessed uint64         `json:"total_processed"`
	TotalFailed    uint64         `json:"total_failed"`
	TotalFiltered  uint64         `json:"total_filtered"`
	StartTime      time.Time      `json:"start_time"`
	LastProcessed  time.Time      `json:"last_processed"`
	Details        map[string]any `json:"details,omitempty"`
}

// New builds a sink from configuration. Relative file paths resolve against
// logDir. A nil logger disables diagnostics.
func New(cfg config.SinkConfig, logDir string, logger *log.Logger) (Sink, error) {
	if logger == nil {
		logger = log.NewLogger()
	}
	options := make(map[string]any, len(cfg.FormatOptions)+1)
	for k, v := range cfg.FormatOptions {
		options[k] = v
	}

	switch cfg.Type {
	case config.SinkTypeConsole:
		target := cfg.Target
		if target == "" {
			target = "stderr"
		}
		out := os.Stderr
		if target == "stdout" {
			out = os.Stdout
		}
		if _, set := options["no_color"]; !set {
			options["no_color"] = !term.IsTerminal(int(out.Fd()))
		}
		formatter, err := format.New(cfg.Format, options, logger)
		if err != nil {
			return nil, fmt.Errorf("sink '%s': %w", cfg.Name, err)
		}
		chain, err := filter.NewChain(cfg.Filters, logger)
		if err != nil {
			return nil, fmt.Errorf("sink '%s': %w", cfg.Name, err)
		}
		return NewConsoleSink(cfg.Name, target, out, cfg.Severity(), formatter, chain, logger), nil

	case config.SinkTypeFile, "":
		formatter, err := format.New(cfg.Format, options, logger)
		if err != nil {
			return nil, fmt.Errorf("sink '%s': %w", cfg.Name, err)
		}
		chain, err := filter.NewChain(cfg.Filters, logger)
		if err != nil {
			return nil, fmt.Errorf("sink '%s': %w", cfg.Name, err)
		}
		path := cfg.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(logDir, path)
		}
		return NewFileSink(FileConfig{
			Name:        cfg.Name,
			Path:        path,
			MinSeverity: cfg.Severity(),
			MaxBytes:    cfg.MaxBytes,
			BackupCount: cfg.BackupCount,
		}, formatter, chain, logger)

	default:
		return nil, fmt.Errorf("sink '%s': unknown sink type '%s'", cfg.Name, cfg.Type)
	}
}

// base carries the threshold, filters and counters shared by every sink.
type base struct {
	name        string
	minSeverity core.Severity
	formatter   format.Formatter
	filters     *filter.Chain
	startTime   time.Time
	logger      *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	totalFiltered  atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// initBase fills b in place; base holds atomics and must not be copied.
func (b *base) initBase(name string, minSeverity core.Severity, formatter format.Formatter, filters *filter.Chain, logger *log.Logger) {
	b.name = name
	b.minSeverity = minSeverity
	b.formatter = formatter
	b.filters = filters
	b.startTime = time.Now()
	b.logger = logger
	b.lastProcessed.Store(time.Time{})
}

func (b *base) Name() string {
	return b.name
}

func (b *base) MinSeverity() core.Severity {
	return b.minSeverity
}

func (b *base) Accepts(event core.LogEvent) bool {
	if !event.Severity.AtLeast(b.minSeverity) {
		return false
	}
	if !b.filters.Apply(event) {
		b.totalFiltered.Add(1)
		return false
	}
	return true
}

func (b *base) stats(sinkType string, details map[string]any) SinkStats {
	lastProc, _ := b.lastProcessed.Load().(time.Time)
	return SinkStats{
		Name:           b.name,
		Type:           sinkType,
		MinLevel:       b.minSeverity.String(),
		Format:         b.formatter.Name(),
		TotalProcessed: b.totalProcessed.Load(),
		TotalFailed:    b.totalFailed.Load(),
		TotalFiltered:  b.totalFiltered.Load(),
		StartTime:      b.startTime,
		LastProcessed:  lastProc,
		Details:        details,
	}
}

func (b *base) markWritten() {
	b.totalProcessed.Add(1)
	b.lastProcessed.Store(time.Now())
}
