// FILE: faultline/src/internal/router/fallback.go
package router

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Fallback reports sink failures on a last-resort stream. Writes are
// throttled so a broken sink cannot flood the console.
type Fallback struct {
	mu      sync.Mutex
	out     io.Writer
	limiter *rate.Limiter
	logger  *log.Logger

	// Statistics
	totalReported   atomic.Uint64
	totalSuppressed atomic.Uint64
}

// FallbackStats counts fallback activity
type FallbackStats struct {
	TotalReported   uint64 `json:"total_reported"`
	TotalSuppressed uint64 `json:"total_suppressed"`
}

// NewFallback creates a reporter writing to out. perSecond <= 0 disables
// throttling. A nil out means stderr, a nil logger disables diagnostics.
func NewFallback(out io.Writer, perSecond float64, burst int, logger *log.Logger) *Fallback {
	if out == nil {
		out = os.Stderr
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Fallback{
		out:     out,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Report records a failed sink write.
func (f *Fallback) Report(sinkName string, event core.LogEvent, err error) {
	f.logger.Warn("msg", "Sink write failed",
		"component", "fallback",
		"sink", sinkName,
		"level", event.Severity.String(),
		"error", err)

	f.write(fmt.Sprintf("faultline: sink %q failed: %v; record: [%s] %s\n",
		sinkName, err, event.Severity, event.Message))
}

// LastResort prints an event that had no sink to go to.
func (f *Fallback) LastResort(event core.LogEvent) {
	f.write(fmt.Sprintf("%s\n", event.Message))
}

func (f *Fallback) write(line string) {
	if !f.limiter.Allow() {
		f.totalSuppressed.Add(1)
		return
	}
	f.totalReported.Add(1)

	f.mu.Lock()
	defer f.mu.Unlock()
	// Nothing is left to report a failure of the last-resort stream to
	_, _ = io.WriteString(f.out, line)
}

// Stats returns fallback counters
func (f *Fallback) Stats() FallbackStats {
	return FallbackStats{
		TotalReported:   f.totalReported.Load(),
		TotalSuppressed: f.totalSuppressed.Load(),
	}
}
