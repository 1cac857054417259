// FILE: faultline/src/internal/config/validation.go
package config

import (
	"fmt"
	"time"
)

// Validate is the centralized validator for the entire configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if c.LogDir == "" {
		return fmt.Errorf("log_dir is required")
	}

	switch c.Mode {
	case ModePlain, ModeStructured:
	default:
		return fmt.Errorf("invalid mode '%s' (must be '%s' or '%s')", c.Mode, ModePlain, ModeStructured)
	}

	if c.Logging != nil {
		if err := validateLogConfig(c.Logging); err != nil {
			return fmt.Errorf("logging config: %w", err)
		}
	}

	names := make(map[string]bool)
	for i := range c.Sinks {
		if err := validateSink(i, &c.Sinks[i], names); err != nil {
			return err
		}
	}

	if c.Fallback.RatePerSecond < 0 || c.Fallback.Burst < 0 {
		return fmt.Errorf("fallback: rate and burst cannot be negative")
	}
	switch c.Fallback.Target {
	case "", "stdout", "stderr":
	default:
		return fmt.Errorf("fallback: invalid target '%s'", c.Fallback.Target)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry: max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.InitialDelayMs < 0 || c.Retry.MaxDelayMs < 0 {
		return fmt.Errorf("retry: delays cannot be negative")
	}
	if c.Retry.BackoffFactor < 1 {
		return fmt.Errorf("retry: backoff_factor must be >= 1, got %g", c.Retry.BackoffFactor)
	}

	if c.Status.Enabled && (c.Status.Port < 1 || c.Status.Port > 65535) {
		return fmt.Errorf("status: invalid port %d", c.Status.Port)
	}
	if c.Status.ReportIntervalSeconds < 0 {
		return fmt.Errorf("status: report_interval_seconds cannot be negative")
	}

	return nil
}

// EffectiveSinks returns the configured sinks or the preset for Mode.
func (c *Config) EffectiveSinks() []SinkConfig {
	if len(c.Sinks) > 0 {
		return c.Sinks
	}
	return DefaultSinks(c.Mode)
}

// InitialDelay converts the configured delay to a duration.
func (r RetryConfig) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMs) * time.Millisecond
}

// MaxDelay converts the configured cap to a duration.
func (r RetryConfig) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMs) * time.Millisecond
}
