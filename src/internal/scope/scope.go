// FILE: faultline/src/internal/scope/scope.go
package scope

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"faultline/src/internal/core"
	"faultline/src/internal/metrics"
)

// Emitter is the logging surface a scope writes to. Events carry the call
// site that opened the scope.
type Emitter interface {
	LogAt(src core.SourceLocation, sev core.Severity, msg string, kv ...any)
}

var now = time.Now

// Guard brackets one named operation. It performs no retries and never
// swallows a failure.
type Guard struct {
	log   Emitter
	name  string
	src   core.SourceLocation
	start time.Time
	ended atomic.Bool
}

// Begin logs the start of an operation. Pair it with a deferred End:
//
//	g := scope.Begin(logger, "import")
//	defer g.End(&err)
func Begin(log Emitter, name string) *Guard {
	return BeginAt(log, name, core.Caller(1))
}

// BeginAt is Begin with the source location of the events given by the
// caller. A zero src means the caller of BeginAt.
func BeginAt(log Emitter, name string, src core.SourceLocation) *Guard {
	if src.IsZero() {
		src = core.Caller(1)
	}
	g := &Guard{log: log, name: name, src: src, start: now()}
	g.emit(core.SeverityInfo, "Starting operation: "+name)
	return g
}

// Name returns the operation name.
func (g *Guard) Name() string {
	return g.name
}

// End logs completion, or failure when *errp is non-nil, then cleanup.
// Deferred directly, it also logs an in-flight panic and re-panics.
// Only the first call has effect.
func (g *Guard) End(errp *error) {
	if !g.ended.CompareAndSwap(false, true) {
		return
	}
	defer g.emit(core.SeverityDebug, "Cleanup for operation: "+g.name)

	elapsed := now().Sub(g.start)

	if r := recover(); r != nil {
		metrics.OperationDuration.WithLabelValues(g.name, "panic").Observe(elapsed.Seconds())
		g.emit(core.SeverityError, "Failed operation: "+g.name,
			"error", panicError(r),
			"elapsed", elapsed)
		panic(r)
	}

	var err error
	if errp != nil {
		err = *errp
	}
	if err != nil {
		metrics.OperationDuration.WithLabelValues(g.name, "failure").Observe(elapsed.Seconds())
		g.emit(core.SeverityError, "Failed operation: "+g.name,
			"error", err,
			"elapsed", elapsed)
		return
	}

	metrics.OperationDuration.WithLabelValues(g.name, "success").Observe(elapsed.Seconds())
	g.emit(core.SeverityInfo, "Completed operation: "+g.name, "elapsed", elapsed)
}

func (g *Guard) emit(sev core.Severity, msg string, kv ...any) {
	if g.log != nil {
		g.log.LogAt(g.src, sev, msg, kv...)
	}
}

// Track runs fn inside a scope and returns its error unchanged.
func Track(ctx context.Context, log Emitter, name string, fn func(ctx context.Context) error) error {
	return TrackAt(ctx, log, name, core.Caller(1), fn)
}

// TrackAt is Track with an explicit source location for the events.
func TrackAt(ctx context.Context, log Emitter, name string, src core.SourceLocation, fn func(ctx context.Context) error) (err error) {
	if src.IsZero() {
		src = core.Caller(1)
	}
	g := BeginAt(log, name, src)
	defer g.End(&err)

	if err = ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Timed runs fn and reports its duration: WARNING when it took longer than
// slow, DEBUG otherwise, ERROR with the elapsed time on failure. slow <= 0
// means core.DefaultSlowOperationTime.
func Timed(ctx context.Context, log Emitter, name string, slow time.Duration, fn func(ctx context.Context) error) error {
	return TimedAt(ctx, log, name, core.Caller(1), slow, fn)
}

// TimedAt is Timed with an explicit source location for the events.
func TimedAt(ctx context.Context, log Emitter, name string, src core.SourceLocation, slow time.Duration, fn func(ctx context.Context) error) error {
	if src.IsZero() {
		src = core.Caller(1)
	}
	if slow <= 0 {
		slow = core.DefaultSlowOperationTime
	}
	emit := func(sev core.Severity, msg string, kv ...any) {
		if log != nil {
			log.LogAt(src, sev, msg, kv...)
		}
	}

	start := now()
	emit(core.SeverityDebug, "Starting execution of "+name)

	err := fn(ctx)
	elapsed := now().Sub(start)

	if err != nil {
		metrics.OperationDuration.WithLabelValues(name, "failure").Observe(elapsed.Seconds())
		emit(core.SeverityError, fmt.Sprintf("%s failed after %.2fs: %v", name, elapsed.Seconds(), err),
			"error", err)
		return err
	}

	metrics.OperationDuration.WithLabelValues(name, "success").Observe(elapsed.Seconds())
	if elapsed > slow {
		emit(core.SeverityWarning, fmt.Sprintf("%s took %.2fs (slow operation)", name, elapsed.Seconds()))
	} else {
		emit(core.SeverityDebug, fmt.Sprintf("%s completed in %.2fs", name, elapsed.Seconds()))
	}
	return nil
}

// Logged runs fn and logs any failure at ERROR as "Error in name: err" with
// the exception attached, then returns it unchanged. A panic is logged the
// same way and re-panicked. Success logs nothing.
func Logged(ctx context.Context, log Emitter, name string, fn func(ctx context.Context) error) error {
	return LoggedAt(ctx, log, name, core.Caller(1), fn)
}

// LoggedAt is Logged with an explicit source location for the event.
func LoggedAt(ctx context.Context, log Emitter, name string, src core.SourceLocation, fn func(ctx context.Context) error) (err error) {
	if src.IsZero() {
		src = core.Caller(1)
	}
	report := func(failure error) {
		if log != nil {
			log.LogAt(src, core.SeverityError, fmt.Sprintf("Error in %s: %v", name, failure), "error", failure)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			report(panicError(r))
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		report(err)
	}
	return err
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return &PanicError{Value: r}
}
