// FILE: faultline/src/internal/config/logging.go
package config

import "fmt"

// LogConfig controls the pipeline's own diagnostic logger
type LogConfig struct {
	// Output mode: "file", "both", "none"
	Output string `toml:"output"`

	// Log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// Base name of the diagnostic log file inside log_dir
	Name string `toml:"name"`

	// Maximum size per diagnostic log file in MB
	MaxSizeMB int64 `toml:"max_size_mb"`
}

// DefaultLogConfig returns sensible logging defaults
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output:    "file",
		Level:     "info",
		Name:      "faultline",
		MaxSizeMB: 10,
	}
}

func validateLogConfig(cfg *LogConfig) error {
	validOutputs := map[string]bool{
		"file": true, "both": true, "none": true,
	}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	if cfg.MaxSizeMB < 0 {
		return fmt.Errorf("invalid max_size_mb: %d", cfg.MaxSizeMB)
	}

	return nil
}
