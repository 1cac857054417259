// FILE: faultline/src/internal/config/config.go
package config

// Config is the host-supplied configuration surface of the pipeline.
type Config struct {
	// Directory holding every file sink with a relative path
	LogDir string `toml:"log_dir"`

	// Sink topology preset used when Sinks is empty: "plain" or "structured"
	Mode string `toml:"mode"`

	// Logger name stamped on events emitted by the pipeline facade
	LoggerName string `toml:"logger_name"`

	// Explicit sink topology, replaces the preset when set
	Sinks []SinkConfig `toml:"sinks"`

	// Last-resort reporting of sink write failures
	Fallback FallbackConfig `toml:"fallback"`

	// Default retry policy handed to callers that do not bring their own
	Retry RetryConfig `toml:"retry"`

	// Host status endpoint and periodic report window
	Status StatusConfig `toml:"status"`

	// Diagnostic logging of the pipeline itself
	Logging *LogConfig `toml:"logging"`
}

// Topology presets
const (
	ModePlain      = "plain"
	ModeStructured = "structured"
)

type FallbackConfig struct {
	// "stderr" or "stdout"
	Target string `toml:"target"`

	// Reports per second after the burst is spent
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

type RetryConfig struct {
	MaxAttempts    int     `toml:"max_attempts"`
	InitialDelayMs int64   `toml:"initial_delay_ms"`
	BackoffFactor  float64 `toml:"backoff_factor"`

	// Upper bound on a single wait, 0 = unbounded
	MaxDelayMs int64 `toml:"max_delay_ms"`
}

type StatusConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int64  `toml:"port"`

	// Interval of the periodic aggregator report, 0 disables it
	ReportIntervalSeconds int64 `toml:"report_interval_seconds"`

	// Clear the aggregator after each periodic report
	ResetOnReport bool `toml:"reset_on_report"`
}
