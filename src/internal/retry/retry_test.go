// FILE: faultline/src/internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"faultline/src/internal/core"
	"faultline/src/internal/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper stores requested waits and returns immediately
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

type logLine struct {
	src core.SourceLocation
	sev core.Severity
	msg string
	kv  []any
}

type recordingEmitter struct {
	lines []logLine
}

func (e *recordingEmitter) LogAt(src core.SourceLocation, sev core.Severity, msg string, kv ...any) {
	e.lines = append(e.lines, logLine{src, sev, msg, kv})
}

func failing(k int, err error) (func(context.Context) (string, error), *int) {
	calls := 0
	return func(context.Context) (string, error) {
		calls++
		if calls <= k {
			return "", err
		}
		return "ok", nil
	}, &calls
}

func testPolicy(maxAttempts int, sleeper Sleeper) Policy {
	p := DefaultPolicy()
	p.MaxAttempts = maxAttempts
	p.Sleeper = sleeper
	return p
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	for k := 0; k <= 4; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			op, calls := failing(k, fault.Timeout("slow upstream"))

			got, err := Do(context.Background(), "fetch", op, testPolicy(k+1, &recordingSleeper{}), nil)
			require.NoError(t, err)
			assert.Equal(t, "ok", got)
			assert.Equal(t, k+1, *calls)
		})
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	for k := 1; k <= 4; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			op, calls := failing(k, fault.Timeout("slow upstream", fault.WithCode("UPSTREAM_SLOW")))

			_, err := Do(context.Background(), "fetch", op, testPolicy(k, &recordingSleeper{}), nil)
			require.Error(t, err)
			assert.Equal(t, k, *calls)

			var typed *fault.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, fault.KindTimeout, typed.Kind())
			assert.Equal(t, "slow upstream", typed.Message())
			assert.Equal(t, "UPSTREAM_SLOW", typed.Code())
			assert.Equal(t, k, typed.Context()["attempts"])
			assert.Equal(t, k, Attempts(err))
		})
	}
}

func TestDo_BackoffDelays(t *testing.T) {
	sleeper := &recordingSleeper{}
	op, calls := failing(10, fault.Storage("db down"))

	_, err := Do(context.Background(), "save", op, testPolicy(4, sleeper), nil)
	require.Error(t, err)
	assert.Equal(t, 4, *calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestDo_MaxDelayCaps(t *testing.T) {
	sleeper := &recordingSleeper{}
	p := testPolicy(5, sleeper)
	p.MaxDelay = 3 * time.Second
	op, _ := failing(10, errors.New("flaky"))

	_, err := Do(context.Background(), "save", op, p, nil)
	require.Error(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}, sleeper.delays)
}

func TestDo_NonRetryableFailsFast(t *testing.T) {
	cases := map[string]error{
		"validation":    fault.Validation("bad email"),
		"configuration": fault.Configuration("missing key"),
		"client error":  fault.RemoteAPI("not found", 404),
		"canceled":      context.Canceled,
	}

	for name, failure := range cases {
		t.Run(name, func(t *testing.T) {
			sleeper := &recordingSleeper{}
			op, calls := failing(100, failure)

			_, err := Do(context.Background(), "call", op, testPolicy(5, sleeper), nil)
			assert.Same(t, failure, err, "non-retryable errors pass through unchanged")
			assert.Equal(t, 1, *calls)
			assert.Empty(t, sleeper.delays)
		})
	}
}

func TestDo_PlainErrorsAreWrapped(t *testing.T) {
	root := errors.New("connection reset")
	op, _ := failing(5, root)

	_, err := Do(context.Background(), "sync", op, testPolicy(2, &recordingSleeper{}), nil)

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, 2, ex.Attempts)
	assert.Equal(t, "sync", ex.Operation)
	assert.ErrorIs(t, err, root)
	assert.Equal(t, "sync: all 2 attempts failed: connection reset", err.Error())
}

func TestDo_OnKinds(t *testing.T) {
	p := testPolicy(3, &recordingSleeper{})
	p.Retryable = OnKinds(fault.KindStorage)

	op, calls := failing(5, fault.Timeout("slow"))
	_, err := Do(context.Background(), "op", op, p, nil)
	require.Error(t, err)
	assert.Equal(t, 1, *calls, "timeouts are not in the allowed kinds")

	op, calls = failing(5, fault.Storage("locked"))
	_, err = Do(context.Background(), "op", op, p, nil)
	require.Error(t, err)
	assert.Equal(t, 3, *calls)

	assert.False(t, OnKinds(fault.KindValidation)(fault.Validation("never retried")))
	assert.True(t, OnKinds()(errors.New("plain")))
}

func TestDo_CancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.InitialDelay = time.Hour

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, "blocked", func(context.Context) (int, error) {
			calls++
			return 0, fault.Storage("busy")
		}, p, nil)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		var typed *fault.Error
		assert.ErrorAs(t, err, &typed)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not abort on cancellation")
	}
}

func TestDo_LogsAttempts(t *testing.T) {
	emitter := &recordingEmitter{}
	op, _ := failing(5, fault.Storage("db down"))

	_, err := Do(context.Background(), "save_order", op, testPolicy(2, &recordingSleeper{}), emitter)
	require.Error(t, err)

	require.Len(t, emitter.lines, 4)
	assert.Equal(t, core.SeverityDebug, emitter.lines[0].sev)
	assert.Equal(t, "Attempt 1/2 for save_order", emitter.lines[0].msg)
	assert.Equal(t, core.SeverityWarning, emitter.lines[1].sev)
	assert.Equal(t, "Attempt 1 failed: db down. Retrying in 1s...", emitter.lines[1].msg)
	assert.Equal(t, "Attempt 2/2 for save_order", emitter.lines[2].msg)
	assert.Equal(t, core.SeverityError, emitter.lines[3].sev)
	assert.Equal(t, "All 2 attempts failed for save_order", emitter.lines[3].msg)
	assert.Equal(t, "error", emitter.lines[3].kv[0])
}

func TestDo_StateTransitions(t *testing.T) {
	var got []string
	p := testPolicy(3, &recordingSleeper{})
	p.Observer = func(tr Transition) {
		got = append(got, tr.From.String()+">"+tr.To.String())
	}

	op, _ := failing(1, fault.Timeout("slow"))
	_, err := Do(context.Background(), "op", op, p, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"PENDING>ATTEMPTING",
		"ATTEMPTING>RETRY_WAIT",
		"RETRY_WAIT>ATTEMPTING",
		"ATTEMPTING>SUCCEEDED",
	}, got)

	got = nil
	op, _ = failing(5, fault.Validation("bad"))
	_, err = Do(context.Background(), "op", op, p, nil)
	require.Error(t, err)
	assert.Equal(t, []string{"PENDING>ATTEMPTING", "ATTEMPTING>FAILED_TERMINAL"}, got)
	assert.True(t, StateFailedTerminal.Terminal())
	assert.False(t, StateRetryWait.Terminal())
}

func TestRun(t *testing.T) {
	calls := 0
	err := Run(context.Background(), "ping", func(context.Context) error {
		calls++
		if calls < 2 {
			return fault.RemoteAPI("bad gateway", 502)
		}
		return nil
	}, testPolicy(3, &recordingSleeper{}), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestContextSleeper(t *testing.T) {
	start := time.Now()
	require.NoError(t, ContextSleeper.Sleep(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ContextSleeper.Sleep(ctx, time.Hour), context.Canceled)
}

func TestPolicyDefaults(t *testing.T) {
	var p Policy
	assert.Equal(t, time.Duration(0), p.Delay(1))
	n := p.normalized()
	assert.Equal(t, core.DefaultMaxAttempts, n.MaxAttempts)
	assert.Equal(t, core.DefaultBackoffFactor, n.BackoffFactor)

	d := DefaultPolicy()
	assert.Equal(t, 4*time.Second, d.Delay(3))
}

func TestDo_EventsCarryCallSite(t *testing.T) {
	emitter := &recordingEmitter{}
	op, _ := failing(5, fault.Storage("db down"))

	_, err := Do(context.Background(), "save_order", op, testPolicy(2, &recordingSleeper{}), emitter)
	require.Error(t, err)

	require.NotEmpty(t, emitter.lines)
	for _, l := range emitter.lines {
		assert.Equal(t, "TestDo_EventsCarryCallSite", l.src.ShortFunction(), l.msg)
		assert.Contains(t, l.src.File, "retry_test.go")
	}
}

func TestRun_EventsCarryCallSite(t *testing.T) {
	emitter := &recordingEmitter{}
	err := Run(context.Background(), "ping", func(context.Context) error { return nil },
		testPolicy(1, &recordingSleeper{}), emitter)
	require.NoError(t, err)

	require.Len(t, emitter.lines, 1)
	assert.Equal(t, "TestRun_EventsCarryCallSite", emitter.lines[0].src.ShortFunction())
}

func TestDo_ExplicitSourceWins(t *testing.T) {
	emitter := &recordingEmitter{}
	p := testPolicy(1, &recordingSleeper{})
	p.Source = core.SourceLocation{File: "handler.go", Function: "app.(*Handler).Save", Line: 42}

	_, err := Do(context.Background(), "save", func(context.Context) (int, error) { return 1, nil }, p, emitter)
	require.NoError(t, err)
	require.Len(t, emitter.lines, 1)
	assert.Equal(t, p.Source, emitter.lines[0].src)
}
