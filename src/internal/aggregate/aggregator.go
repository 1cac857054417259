// FILE: faultline/src/internal/aggregate/aggregator.go
package aggregate

import (
	"fmt"
	"sync"
	"time"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"
	"faultline/src/internal/metrics"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
)

// Aggregator accumulates error records between reporting windows. It does
// no I/O of its own beyond optional diagnostic logging. All methods are safe
// for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	records []ErrorRecord
	counts  map[string]int
	logger  *log.Logger
	now     func() time.Time
}

// New creates an empty aggregator. A nil logger disables diagnostics.
func New(logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Aggregator{
		counts: make(map[string]int),
		logger: logger,
		now:    time.Now,
	}
}

// Record stores err under operation. Only WARNING, ERROR and CRITICAL are
// aggregated; other severities and nil errors are ignored. Record never
// panics and never fails the caller: a fault while building the record
// drops it.
func (a *Aggregator) Record(operation string, err error, sev core.Severity, kv ...any) {
	if err == nil {
		return
	}
	if !sev.Reportable() {
		a.logger.Debug("msg", "Severity not aggregated, record dropped",
			"component", "aggregator",
			"operation", operation,
			"level", sev.String())
		return
	}

	rec, ok := a.build(operation, err, sev, kv)
	if !ok {
		return
	}

	a.mu.Lock()
	a.records = append(a.records, rec)
	a.counts[rec.Key()]++
	a.mu.Unlock()

	metrics.ErrorsRecorded.WithLabelValues(rec.ErrorKind, sev.String()).Inc()
}

func (a *Aggregator) build(operation string, err error, sev core.Severity, kv []any) (rec ErrorRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Debug("msg", "Failed to build error record, dropped",
				"component", "aggregator",
				"operation", operation,
				"panic", fmt.Sprint(r))
			ok = false
		}
	}()

	rec = ErrorRecord{
		ID:        uuid.NewString(),
		Timestamp: a.now(),
		Operation: operation,
		ErrorKind: fault.KindName(err),
		Message:   fault.MessageOf(err),
		Severity:  sev,
		Context:   stringifyPairs(kv),
		Trace:     fault.Trace(err),
	}
	return rec, true
}

// Report summarizes everything recorded since the last Clear.
func (a *Aggregator) Report() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		TotalErrors:  len(a.records),
		ErrorTypes:   make(map[string]int, len(a.counts)),
		RecentErrors: make([]RecentError, 0, core.RecentRecordCount),
	}
	for k, v := range a.counts {
		s.ErrorTypes[k] = v
	}

	for _, r := range a.records {
		switch r.Severity {
		case core.SeverityCritical:
			s.Critical++
		case core.SeverityError:
			s.Errors++
		case core.SeverityWarning:
			s.Warnings++
		}
	}

	start := len(a.records) - core.RecentRecordCount
	if start < 0 {
		start = 0
	}
	for _, r := range a.records[start:] {
		s.RecentErrors = append(s.RecentErrors, RecentError{
			Timestamp: r.Timestamp,
			Operation: r.Operation,
			Type:      r.ErrorKind,
			Message:   r.Message,
		})
	}
	return s
}

// Records returns a copy of the recorded sequence in insertion order.
func (a *Aggregator) Records() []ErrorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ErrorRecord(nil), a.records...)
}

// Len returns the number of records held.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Clear empties the records and counts.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	a.records = nil
	a.counts = make(map[string]int)
	a.mu.Unlock()
}

// Drain returns the current summary and clears in one step, so no record
// falls between the two.
func (a *Aggregator) Drain() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	records, counts := a.records, a.counts
	a.records = nil
	a.counts = make(map[string]int)

	snapshot := &Aggregator{records: records, counts: counts}
	return snapshot.Report()
}

func stringifyPairs(kv []any) map[string]string {
	if len(kv) == 0 {
		return nil
	}
	out := make(map[string]string, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			out["!BADKEY"] = key
			break
		}
		out[key] = fmt.Sprint(kv[i+1])
	}
	return out
}
