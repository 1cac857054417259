// FILE: faultline/src/internal/retry/policy.go
package retry

import (
	"math"
	"time"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"
)

// Policy configures one retry invocation. Policies are values passed per
// call; there is no process-wide retry state.
type Policy struct {
	// Total attempts including the first, 0 means core.DefaultMaxAttempts
	MaxAttempts int

	// Wait after the first failure
	InitialDelay time.Duration

	// Multiplier applied to the wait after each failure, <= 0 means
	// core.DefaultBackoffFactor
	BackoffFactor float64

	// Upper bound on a single wait, 0 = none
	MaxDelay time.Duration

	// Decides whether a failure is worth another attempt, nil means
	// fault.IsRetryable
	Retryable func(error) bool

	// Performs the inter-attempt wait, nil means ContextSleeper
	Sleeper Sleeper

	// Receives every state transition, optional
	Observer func(Transition)

	// Source location stamped on emitted events, zero means the caller of
	// Do or Run
	Source core.SourceLocation
}

// DefaultPolicy returns 3 attempts, 1s initial delay, factor 2.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   core.DefaultMaxAttempts,
		InitialDelay:  core.DefaultInitialDelay,
		BackoffFactor: core.DefaultBackoffFactor,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = core.DefaultMaxAttempts
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = core.DefaultBackoffFactor
	}
	if p.Retryable == nil {
		p.Retryable = fault.IsRetryable
	}
	if p.Sleeper == nil {
		p.Sleeper = ContextSleeper
	}
	return p
}

// Delay returns the wait that follows failed attempt n (1-based):
// InitialDelay * BackoffFactor^(n-1), capped at MaxDelay.
func (p Policy) Delay(n int) time.Duration {
	p = p.normalized()
	if n < 1 {
		n = 1
	}
	delay := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(n-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	if delay > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// OnKinds retries only errors of the given kinds that are also retryable by
// the default classification. No kinds means the default classification.
func OnKinds(kinds ...fault.Kind) func(error) bool {
	if len(kinds) == 0 {
		return fault.IsRetryable
	}
	allowed := make(map[fault.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	return func(err error) bool {
		if _, ok := allowed[fault.KindOf(err)]; !ok {
			return false
		}
		return fault.IsRetryable(err)
	}
}
