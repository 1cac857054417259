// FILE: faultline/src/internal/pipeline/context_test.go
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"faultline/src/internal/config"
	"faultline/src/internal/core"
	"faultline/src/internal/fault"
	"faultline/src/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func quietConsole() config.SinkConfig {
	return config.SinkConfig{
		Name:     "console",
		Type:     config.SinkTypeConsole,
		Target:   "stderr",
		MinLevel: "CRITICAL",
		Format:   "raw",
	}
}

func TestConfigureSinks_PlainTopology(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModePlain)
	require.NoError(t, err)

	assert.Equal(t, []string{"errors", "warnings", "critical", "console"}, lc.Router().Sinks())

	l := lc.Logger("orders")
	l.Info("informational")
	l.Warn("low stock")
	l.Error("payment failed")
	l.Critical("ledger unreachable")
	require.NoError(t, lc.Close())

	errorsLog := readLines(t, filepath.Join(dir, "errors.log"))
	warningsLog := readLines(t, filepath.Join(dir, "warnings.log"))
	criticalLog := readLines(t, filepath.Join(dir, "critical.log"))

	require.Len(t, errorsLog, 2)
	assert.Contains(t, errorsLog[0], "[ERROR] [orders]")
	assert.Contains(t, errorsLog[0], "payment failed")
	assert.Contains(t, errorsLog[0], "context_test.go")

	require.Len(t, warningsLog, 3)
	assert.Contains(t, warningsLog[0], "[WARNING] low stock")

	require.Len(t, criticalLog, 1)
	assert.Contains(t, criticalLog[0], "CRITICAL: ledger unreachable")
}

func TestConfigureSinks_StructuredTopology(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModeStructured)
	require.NoError(t, err)
	assert.Equal(t, []string{"errors_structured", "console"}, lc.Router().Sinks())

	lc.Logger("api").Error("upstream failed", "error", fault.RemoteAPI("bad gateway", 502), "request_id", "r-1", "level", "spoofed")
	lc.Logger("api").Warn("not in the structured file")
	require.NoError(t, lc.Close())

	lines := readLines(t, filepath.Join(dir, "errors_structured.log"))
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	for _, key := range []string{"timestamp", "level", "logger", "message", "function", "line"} {
		assert.Contains(t, record, key)
	}
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "api", record["logger"])
	assert.Equal(t, "r-1", record["request_id"])

	exception, ok := record["exception"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "RemoteAPIError", exception["type"])
	assert.NotEmpty(t, exception["trace"])
}

func TestConfigureSinks_Invalid(t *testing.T) {
	_, err := ConfigureSinks(t.TempDir(), "verbose")
	assert.ErrorContains(t, err, "invalid mode")

	_, err = ConfigureSinks("", config.ModePlain)
	assert.ErrorContains(t, err, "log_dir")

	_, err = ConfigureSinks(t.TempDir(), config.ModePlain, WithSinks(config.SinkConfig{
		Name: "bad", Type: config.SinkTypeFile, Path: "x.log", Format: "yaml",
	}))
	assert.Error(t, err)
}

func TestLoggingContext_RecordAndReport(t *testing.T) {
	lc, err := ConfigureSinks(t.TempDir(), config.ModePlain, WithSinks(quietConsole()))
	require.NoError(t, err)
	defer lc.Close()

	lc.RecordError("checkout", fault.Validation("card declined"), core.SeverityError, "user", 7)
	lc.RecordError("checkout", fault.Validation("card declined"), core.SeverityInfo)

	report := lc.Report()
	assert.Equal(t, 1, report.TotalErrors)
	assert.Equal(t, map[string]int{"checkout:Validation": 1}, report.ErrorTypes)
	require.Len(t, report.RecentErrors, 1)
	assert.Equal(t, "Validation", report.RecentErrors[0].Type)
	assert.Equal(t, "card declined", report.RecentErrors[0].Message)

	lc.Clear()
	assert.Equal(t, 0, lc.Report().TotalErrors)
}

func TestLoggingContext_ReportError(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModePlain,
		WithLoggerName("shop"),
		WithSinks(quietConsole(), config.SinkConfig{
			Name: "json", Type: config.SinkTypeFile, Path: "all.json", MinLevel: "WARNING", Format: "json",
		}))
	require.NoError(t, err)

	summary := lc.ReportError("fetch_user", fault.Storage("user not found"), "user_id", 12345)
	require.NoError(t, lc.Close())

	assert.Equal(t, ErrorSummary{Error: true, Operation: "fetch_user", Message: "user not found", Type: "StorageError"}, summary)
	assert.Equal(t, 1, lc.Report().TotalErrors)

	lines := readLines(t, filepath.Join(dir, "all.json"))
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Error in fetch_user: user not found", record["message"])
	assert.Equal(t, "shop", record["logger"])
	assert.Equal(t, "fetch_user", record["operation"])
	assert.Equal(t, "12345", record["user_id"])
	assert.Equal(t, "TestLoggingContext_ReportError", record["function"])

	empty := lc.ReportError("noop", nil)
	assert.False(t, empty.Error)
}

func TestLoggingContext_RetryAndScope(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModePlain, WithSinks(quietConsole(), config.SinkConfig{
		Name: "all", Type: config.SinkTypeFile, Path: "all.log", MinLevel: "DEBUG", Format: "text",
		FormatOptions: map[string]any{"preset": "brief", "include_trace": false},
	}))
	require.NoError(t, err)

	policy := lc.RetryPolicy()
	assert.Equal(t, core.DefaultMaxAttempts, policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.InitialDelay)
	policy.InitialDelay = time.Millisecond

	calls := 0
	err = lc.Retry(context.Background(), "fetch_rates", func(context.Context) error {
		calls++
		if calls < 3 {
			return fault.Timeout("rates service slow")
		}
		return nil
	}, policy)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	value, err := Do(context.Background(), lc, "compute", func(context.Context) (int, error) { return 42, nil }, policy)
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	policy.Retryable = retry.OnKinds(fault.KindStorage)
	err = lc.Retry(context.Background(), "kinds", func(context.Context) error { return fault.Timeout("t") }, policy)
	assert.Error(t, err)

	func() {
		var scopeErr error
		g := lc.WithOperationScope("nightly_import")
		defer g.End(&scopeErr)
	}()

	trackErr := lc.Track(context.Background(), "sync", func(context.Context) error {
		return fault.Storage("locked")
	})
	assert.Error(t, trackErr)

	require.NoError(t, lc.Timed(context.Background(), "quick", func(context.Context) error { return nil }))
	require.NoError(t, lc.Close())

	content := strings.Join(readLines(t, filepath.Join(dir, "all.log")), "\n")
	assert.Contains(t, content, "[INFO] Error handlers configured. Log directory: "+dir)
	assert.Contains(t, content, "[DEBUG] Attempt 1/3 for fetch_rates")
	assert.Contains(t, content, "[WARNING] Attempt 1 failed: rates service slow. Retrying in 1ms...")
	assert.Contains(t, content, "[INFO] Starting operation: nightly_import")
	assert.Contains(t, content, "[INFO] Completed operation: nightly_import")
	assert.Contains(t, content, "[DEBUG] Cleanup for operation: nightly_import")
	assert.Contains(t, content, "[ERROR] Failed operation: sync")
	assert.Contains(t, content, "[DEBUG] Starting execution of quick")
}

func TestLoggingContext_SlogHandler(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModePlain, WithSinks(config.SinkConfig{
		Name: "all", Type: config.SinkTypeFile, Path: "slog.log", MinLevel: "INFO", Format: "raw",
	}))
	require.NoError(t, err)

	logger := slog.New(lc.SlogHandler(""))
	logger.Debug("dropped")
	logger.Info("from slog")
	require.NoError(t, lc.Close())
	require.NoError(t, lc.Close())

	assert.Equal(t, []string{
		"Error handlers configured. Log directory: " + dir,
		"from slog",
	}, readLines(t, filepath.Join(dir, "slog.log")))
}

func TestLoggingContext_FallbackOnBrokenSink(t *testing.T) {
	dir := t.TempDir()
	var fb bytes.Buffer
	lc, err := ConfigureSinks(dir, config.ModePlain, WithFallbackWriter(&fb), WithSinks(config.SinkConfig{
		Name: "errors", Type: config.SinkTypeFile, Path: "errors.log", MinLevel: "ERROR", Format: "raw",
	}))
	require.NoError(t, err)

	// With no sinks attached, WARNING and above reach the last-resort stream
	require.NoError(t, lc.Router().RemoveAllSinks())
	lc.Logger("").Error("nowhere to go")
	require.NoError(t, lc.Close())

	assert.Contains(t, fb.String(), "nowhere to go")
}

func TestNew_FromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogDir = t.TempDir()
	cfg.Mode = config.ModeStructured
	cfg.Sinks = []config.SinkConfig{quietConsole()}

	lc, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Same(t, cfg, lc.Config())
	assert.Equal(t, core.DefaultLoggerName, lc.Logger("").Name())
	assert.Len(t, lc.Stats().Sinks, 1)
	require.NoError(t, lc.Close())

	cfg.Retry.MaxAttempts = 0
	_, err = New(cfg, nil)
	assert.ErrorContains(t, err, "max_attempts")
}

func TestLoggingContext_EventsNameTheCaller(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModeStructured, WithSinks(quietConsole(), config.SinkConfig{
		Name: "all", Type: config.SinkTypeFile, Path: "all.json", MinLevel: "DEBUG", Format: "json",
	}))
	require.NoError(t, err)

	policy := lc.RetryPolicy()
	policy.InitialDelay = time.Millisecond
	calls := 0
	require.NoError(t, lc.Retry(context.Background(), "fetch_rates", func(context.Context) error {
		calls++
		if calls < 2 {
			return fault.Timeout("slow")
		}
		return nil
	}, policy))

	_ = lc.Track(context.Background(), "sync", func(context.Context) error { return fault.Storage("locked") })
	require.NoError(t, lc.Timed(context.Background(), "quick", func(context.Context) error { return nil }))
	require.NoError(t, lc.Close())

	var checked int
	for _, line := range readLines(t, filepath.Join(dir, "all.json")) {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		msg := record["message"].(string)
		if strings.HasPrefix(msg, "Structured logging configured") {
			continue
		}
		assert.Equal(t, "TestLoggingContext_EventsNameTheCaller", record["function"], msg)
		checked++
	}
	// 3 retry events, 3 scope events, 2 timing events
	assert.Equal(t, 8, checked)
}

func TestLoggingContext_Logged(t *testing.T) {
	dir := t.TempDir()
	lc, err := ConfigureSinks(dir, config.ModePlain, WithSinks(quietConsole(), config.SinkConfig{
		Name: "json", Type: config.SinkTypeFile, Path: "all.json", MinLevel: "WARNING", Format: "json",
	}))
	require.NoError(t, err)

	cause := fault.Storage("disk full")
	got := lc.Logged(context.Background(), "write_invoice", func(context.Context) error { return cause })
	assert.Same(t, cause, got)
	require.NoError(t, lc.Logged(context.Background(), "noop", func(context.Context) error { return nil }))
	require.NoError(t, lc.Close())

	lines := readLines(t, filepath.Join(dir, "all.json"))
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Error in write_invoice: disk full", record["message"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "TestLoggingContext_Logged", record["function"])
	assert.Contains(t, record, "exception")
}
