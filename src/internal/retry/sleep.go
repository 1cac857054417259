// FILE: faultline/src/internal/retry/sleep.go
package retry

import (
	"context"
	"time"
)

// Sleeper waits between attempts. It returns ctx.Err() if the context ends
// first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// ContextSleeper blocks only the calling goroutine and wakes on cancellation.
var ContextSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})
