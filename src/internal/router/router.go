// FILE: faultline/src/internal/router/router.go
package router

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"faultline/src/internal/core"
	"faultline/src/internal/metrics"
	"faultline/src/internal/sink"

	"github.com/lixenwraith/log"
)

// ErrClosed is returned when sinks are added to a closed router.
var ErrClosed = errors.New("router is closed")

// Router delivers each event to every sink whose threshold it meets.
// Sink failures go to the fallback reporter and never reach the caller.
type Router struct {
	mu       sync.RWMutex
	sinks    []sink.Sink
	closed   bool
	fallback *Fallback
	logger   *log.Logger

	// Statistics
	totalEmitted   atomic.Uint64
	totalDelivered atomic.Uint64
	totalDropped   atomic.Uint64
}

// RouterStats summarizes routing activity
type RouterStats struct {
	TotalEmitted   uint64           `json:"total_emitted"`
	TotalDelivered uint64           `json:"total_delivered"`
	TotalDropped   uint64           `json:"total_dropped"`
	Sinks          []sink.SinkStats `json:"sinks"`
	Fallback       FallbackStats    `json:"fallback"`
}

// New creates an empty router. A nil logger disables diagnostics; a nil
// fallback reports sink failures to stderr unthrottled.
func New(fallback *Fallback, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.NewLogger()
	}
	if fallback == nil {
		fallback = NewFallback(os.Stderr, 0, 1, logger)
	}
	return &Router{
		fallback: fallback,
		logger:   logger,
	}
}

// AddSink attaches a sink. Names must be unique.
func (r *Router) AddSink(s sink.Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	for _, existing := range r.sinks {
		if existing.Name() == s.Name() {
			return fmt.Errorf("duplicate sink name '%s'", s.Name())
		}
	}

	r.sinks = append(r.sinks, s)
	r.logger.Debug("msg", "Sink attached",
		"component", "router",
		"sink", s.Name(),
		"min_level", s.MinSeverity().String())
	return nil
}

// RemoveAllSinks detaches and closes every sink.
func (r *Router) RemoveAllSinks() error {
	r.mu.Lock()
	sinks := r.sinks
	r.sinks = nil
	r.mu.Unlock()

	return closeAll(sinks)
}

// Sinks returns the names of attached sinks in attachment order.
func (r *Router) Sinks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.sinks))
	for i, s := range r.sinks {
		names[i] = s.Name()
	}
	return names
}

// MinSeverity returns the lowest threshold across attached sinks, or
// CRITICAL+1 when there are none.
func (r *Router) MinSeverity() core.Severity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sinks) == 0 {
		return core.SeverityCritical + 1
	}
	lowest := r.sinks[0].MinSeverity()
	for _, s := range r.sinks[1:] {
		if s.MinSeverity() < lowest {
			lowest = s.MinSeverity()
		}
	}
	return lowest
}

// Emit routes one event.
func (r *Router) Emit(event core.LogEvent) {
	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()

	r.totalEmitted.Add(1)
	metrics.EventsEmitted.WithLabelValues(event.Severity.String()).Inc()

	if len(sinks) == 0 {
		r.totalDropped.Add(1)
		if event.Severity.AtLeast(core.SeverityWarning) {
			r.fallback.LastResort(event)
		}
		return
	}

	delivered := false
	for _, s := range sinks {
		if !s.Accepts(event) {
			continue
		}
		if err := s.Write(event); err != nil {
			metrics.SinkFailures.WithLabelValues(s.Name()).Inc()
			r.fallback.Report(s.Name(), event, err)
			continue
		}
		delivered = true
	}

	if delivered {
		r.totalDelivered.Add(1)
	} else {
		r.totalDropped.Add(1)
	}
}

// Close flushes and closes every sink. Later AddSink calls fail.
func (r *Router) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sinks := r.sinks
	r.sinks = nil
	r.mu.Unlock()

	err := closeAll(sinks)
	r.logger.Info("msg", "Router closed",
		"component", "router",
		"sinks", len(sinks),
		"total_emitted", r.totalEmitted.Load())
	return err
}

// Stats returns a snapshot of router and sink statistics
func (r *Router) Stats() RouterStats {
	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()

	stats := RouterStats{
		TotalEmitted:   r.totalEmitted.Load(),
		TotalDelivered: r.totalDelivered.Load(),
		TotalDropped:   r.totalDropped.Load(),
		Sinks:          make([]sink.SinkStats, 0, len(sinks)),
		Fallback:       r.fallback.Stats(),
	}
	for _, s := range sinks {
		stats.Sinks = append(stats.Sinks, s.GetStats())
	}
	return stats
}

func closeAll(sinks []sink.Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sink '%s': %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
