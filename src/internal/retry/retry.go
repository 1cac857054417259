// FILE: faultline/src/internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"
	"faultline/src/internal/metrics"
)

// Emitter is the logging surface the executor writes to. Events carry the
// call site of the retried operation, not the executor's own frames.
type Emitter interface {
	LogAt(src core.SourceLocation, sev core.Severity, msg string, kv ...any)
}

// ExhaustedError is returned when every attempt failed with an error that
// is not a *fault.Error. Unwrap exposes the last failure.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Err       error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: all %d attempts failed: %v", e.Operation, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Attempts reports how many attempts a terminal retry error went through,
// or 0 if err did not come from an exhausted retry.
func Attempts(err error) int {
	var ex *ExhaustedError
	if errors.As(err, &ex) {
		return ex.Attempts
	}
	var typed *fault.Error
	if errors.As(err, &typed) {
		if n, ok := typed.Context()["attempts"].(int); ok {
			return n
		}
	}
	return 0
}

// Do runs op until it succeeds, fails with a non-retryable error or runs out
// of attempts. Successful values and non-retryable errors pass through
// unchanged. After the last attempt a *fault.Error comes back as a copy
// carrying "attempts" in its context; other errors are wrapped in
// *ExhaustedError. Cancelling ctx during a wait aborts with an error that
// matches both ctx.Err() and the last failure.
func Do[T any](ctx context.Context, name string, op func(ctx context.Context) (T, error), policy Policy, log Emitter) (T, error) {
	var zero T
	if policy.Source.IsZero() {
		policy.Source = core.Caller(1)
	}
	p := policy.normalized()
	r := run{name: name, policy: p, log: log, state: StatePending}

	for attempt := 1; ; attempt++ {
		r.transition(StateAttempting, attempt, 0, nil)
		r.emit(core.SeverityDebug, fmt.Sprintf("Attempt %d/%d for %s", attempt, p.MaxAttempts, name))

		value, err := op(ctx)
		if err == nil {
			metrics.RetryAttempts.WithLabelValues(name, "success").Inc()
			r.transition(StateSucceeded, attempt, 0, nil)
			return value, nil
		}

		if !p.Retryable(err) {
			metrics.RetryAttempts.WithLabelValues(name, "non_retryable").Inc()
			r.transition(StateFailedTerminal, attempt, 0, err)
			return zero, err
		}

		if attempt >= p.MaxAttempts {
			metrics.RetryAttempts.WithLabelValues(name, "exhausted").Inc()
			r.emit(core.SeverityError, fmt.Sprintf("All %d attempts failed for %s", p.MaxAttempts, name),
				"error", err,
				"attempts", attempt)
			r.transition(StateFailedTerminal, attempt, 0, err)
			return zero, exhausted(name, attempt, err)
		}

		metrics.RetryAttempts.WithLabelValues(name, "retry").Inc()
		delay := p.Delay(attempt)
		r.emit(core.SeverityWarning, fmt.Sprintf("Attempt %d failed: %v. Retrying in %s...", attempt, err, delay))
		r.transition(StateRetryWait, attempt, delay, err)

		if sleepErr := p.Sleeper.Sleep(ctx, delay); sleepErr != nil {
			r.emit(core.SeverityWarning, fmt.Sprintf("Retry of %s cancelled after attempt %d", name, attempt),
				"reason", sleepErr.Error())
			r.transition(StateFailedTerminal, attempt, 0, sleepErr)
			return zero, fmt.Errorf("%s: retry cancelled after attempt %d: %w; last error: %w", name, attempt, sleepErr, err)
		}
	}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, name string, op func(ctx context.Context) error, policy Policy, log Emitter) error {
	if policy.Source.IsZero() {
		policy.Source = core.Caller(1)
	}
	_, err := Do(ctx, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, policy, log)
	return err
}

func exhausted(name string, attempts int, err error) error {
	if typed, ok := err.(*fault.Error); ok {
		return typed.With("attempts", attempts)
	}
	return &ExhaustedError{Operation: name, Attempts: attempts, Err: err}
}

type run struct {
	name   string
	policy Policy
	log    Emitter
	state  State
}

func (r *run) emit(sev core.Severity, msg string, kv ...any) {
	if r.log != nil {
		r.log.LogAt(r.policy.Source, sev, msg, kv...)
	}
}

func (r *run) transition(to State, attempt int, delay time.Duration, err error) {
	from := r.state
	r.state = to
	if r.policy.Observer != nil {
		r.policy.Observer(Transition{
			Operation: r.name,
			From:      from,
			To:        to,
			Attempt:   attempt,
			Delay:     delay,
			Err:       err,
		})
	}
}
