// FILE: faultline/src/internal/pipeline/context.go
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"faultline/src/internal/aggregate"
	"faultline/src/internal/config"
	"faultline/src/internal/core"
	"faultline/src/internal/retry"
	"faultline/src/internal/router"
	"faultline/src/internal/scope"
	"faultline/src/internal/sink"

	"github.com/lixenwraith/log"
)

// LoggingContext owns the process-wide sink topology and the error
// aggregator. Build one at startup, pass it to the components that emit and
// Close it at shutdown.
type LoggingContext struct {
	cfg        *config.Config
	router     *router.Router
	aggregator *aggregate.Aggregator
	logger     *router.Logger
	diag       *log.Logger
	closeOnce  sync.Once
	closeErr   error
}

// Option adjusts the configuration built by ConfigureSinks.
type Option func(*setup)

type setup struct {
	cfg         *config.Config
	diag        *log.Logger
	fallbackOut io.Writer
}

// WithLoggerName sets the name stamped on facade events.
func WithLoggerName(name string) Option {
	return func(s *setup) { s.cfg.LoggerName = name }
}

// WithSinks replaces the mode preset with an explicit topology.
func WithSinks(sinks ...config.SinkConfig) Option {
	return func(s *setup) { s.cfg.Sinks = sinks }
}

// WithRetry sets the default retry policy.
func WithRetry(rc config.RetryConfig) Option {
	return func(s *setup) { s.cfg.Retry = rc }
}

// WithDiagnostics routes the pipeline's own diagnostics to logger.
func WithDiagnostics(logger *log.Logger) Option {
	return func(s *setup) { s.diag = logger }
}

// WithFallbackWriter overrides the last-resort stream.
func WithFallbackWriter(w io.Writer) Option {
	return func(s *setup) { s.fallbackOut = w }
}

// ConfigureSinks builds a context for logDir using the "plain" or
// "structured" topology.
func ConfigureSinks(logDir, mode string, opts ...Option) (*LoggingContext, error) {
	s := &setup{cfg: config.Defaults()}
	s.cfg.LogDir = logDir
	s.cfg.Mode = mode
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	return build(s.cfg, s.diag, s.fallbackOut)
}

// New builds a context from a loaded configuration. A nil diag logger
// disables diagnostics.
func New(cfg *config.Config, diag *log.Logger) (*LoggingContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	return build(cfg, diag, nil)
}

func build(cfg *config.Config, diag *log.Logger, fallbackOut io.Writer) (*LoggingContext, error) {
	if diag == nil {
		diag = log.NewLogger()
	}
	if fallbackOut == nil {
		fallbackOut = os.Stderr
		if cfg.Fallback.Target == "stdout" {
			fallbackOut = os.Stdout
		}
	}

	fallback := router.NewFallback(fallbackOut, cfg.Fallback.RatePerSecond, cfg.Fallback.Burst, diag)
	r := router.New(fallback, diag)

	for _, sc := range cfg.EffectiveSinks() {
		s, err := sink.New(sc, cfg.LogDir, diag)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to create sink '%s': %w", sc.Name, err)
		}
		if err := r.AddSink(s); err != nil {
			s.Close()
			r.Close()
			return nil, err
		}
	}

	lc := &LoggingContext{
		cfg:        cfg,
		router:     r,
		aggregator: aggregate.New(diag),
		logger:     r.Logger(cfg.LoggerName),
		diag:       diag,
	}

	if cfg.Mode == config.ModeStructured {
		lc.logger.Info("Structured logging configured")
	} else {
		lc.logger.Info("Error handlers configured. Log directory: " + cfg.LogDir)
	}

	diag.Info("msg", "Logging context configured",
		"component", "pipeline",
		"log_dir", cfg.LogDir,
		"mode", cfg.Mode,
		"sinks", len(r.Sinks()))

	return lc, nil
}

// Close flushes and closes every sink. It is safe to call more than once.
func (lc *LoggingContext) Close() error {
	lc.closeOnce.Do(func() {
		lc.closeErr = lc.router.Close()
	})
	return lc.closeErr
}

func (lc *LoggingContext) Config() *config.Config {
	return lc.cfg
}

func (lc *LoggingContext) Router() *router.Router {
	return lc.router
}

func (lc *LoggingContext) Aggregator() *aggregate.Aggregator {
	return lc.aggregator
}

// Logger returns a named emitter; "" means the configured logger name.
func (lc *LoggingContext) Logger(name string) *router.Logger {
	if name == "" {
		return lc.logger
	}
	return lc.router.Logger(name)
}

// SlogHandler returns a log/slog handler feeding the sinks.
func (lc *LoggingContext) SlogHandler(name string) slog.Handler {
	if name == "" {
		name = lc.logger.Name()
	}
	return router.NewHandler(lc.router, name)
}

// RecordError stores err in the aggregator.
func (lc *LoggingContext) RecordError(operation string, err error, sev core.Severity, kv ...any) {
	lc.aggregator.Record(operation, err, sev, kv...)
}

// RetryPolicy returns the configured default policy.
func (lc *LoggingContext) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:   lc.cfg.Retry.MaxAttempts,
		InitialDelay:  lc.cfg.Retry.InitialDelay(),
		BackoffFactor: lc.cfg.Retry.BackoffFactor,
		MaxDelay:      lc.cfg.Retry.MaxDelay(),
	}
}

// Retry runs op under policy, logging through the facade logger.
func (lc *LoggingContext) Retry(ctx context.Context, name string, op func(ctx context.Context) error, policy retry.Policy) error {
	if policy.Source.IsZero() {
		policy.Source = core.Caller(1)
	}
	return retry.Run(ctx, name, op, policy, lc.logger)
}

// Do is Retry for operations that return a value.
func Do[T any](ctx context.Context, lc *LoggingContext, name string, op func(ctx context.Context) (T, error), policy retry.Policy) (T, error) {
	if policy.Source.IsZero() {
		policy.Source = core.Caller(1)
	}
	return retry.Do(ctx, name, op, policy, lc.logger)
}

// WithOperationScope opens a scope; close it with a deferred End.
func (lc *LoggingContext) WithOperationScope(name string) *scope.Guard {
	return scope.BeginAt(lc.logger, name, core.Caller(1))
}

// Track runs fn inside an operation scope.
func (lc *LoggingContext) Track(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return scope.TrackAt(ctx, lc.logger, name, core.Caller(1), fn)
}

// Timed runs fn and reports slow or failed executions.
func (lc *LoggingContext) Timed(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return scope.TimedAt(ctx, lc.logger, name, core.Caller(1), core.DefaultSlowOperationTime, fn)
}

// Logged runs fn and logs a failure as "Error in name: err" before returning
// it unchanged.
func (lc *LoggingContext) Logged(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return scope.LoggedAt(ctx, lc.logger, name, core.Caller(1), fn)
}

func (lc *LoggingContext) Report() aggregate.Summary {
	return lc.aggregator.Report()
}

func (lc *LoggingContext) Clear() {
	lc.aggregator.Clear()
}

func (lc *LoggingContext) Stats() router.RouterStats {
	return lc.router.Stats()
}
