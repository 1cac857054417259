// FILE: faultline/src/internal/config/sink.go
package config

import (
	"fmt"
	"strings"

	"faultline/src/internal/core"
)

// Sink types
const (
	SinkTypeFile    = "file"
	SinkTypeConsole = "console"
)

// SinkConfig describes one output destination.
type SinkConfig struct {
	// Sink identifier (used in diagnostics, stats and metrics)
	Name string `toml:"name"`

	// Sink type: "file" or "console"
	Type string `toml:"type"`

	// File destination, relative paths resolve against log_dir
	Path string `toml:"path"`

	// Console destination: "stdout" or "stderr"
	Target string `toml:"target"`

	// Lowest severity the sink emits
	MinLevel string `toml:"min_level"`

	// Rotation threshold in bytes, 0 = unbounded
	MaxBytes int64 `toml:"max_bytes"`

	// Rotated files kept as path.1 ... path.N
	BackupCount int `toml:"backup_count"`

	// Formatter: "text", "json", "tint", "raw"
	Format string `toml:"format"`

	// Formatter-specific options
	FormatOptions map[string]any `toml:"format_options"`

	// Optional message filters, all must pass
	Filters []FilterConfig `toml:"filters"`
}

// Severity returns the parsed threshold.
func (s SinkConfig) Severity() core.Severity {
	sev, err := core.ParseSeverity(s.MinLevel)
	if err != nil {
		return core.SeverityInfo
	}
	return sev
}

// DefaultSinks returns the standard topology for a mode.
//
// plain: errors.log (ERROR+, rotating), warnings.log (WARNING+, rotating),
// critical.log (CRITICAL only, never rotated) and the console (INFO+).
// structured: errors_structured.log (ERROR+, JSON, rotating) and the console.
func DefaultSinks(mode string) []SinkConfig {
	console := SinkConfig{
		Name:     "console",
		Type:     SinkTypeConsole,
		Target:   "stderr",
		MinLevel: "INFO",
		Format:   "tint",
	}

	if mode == ModeStructured {
		return []SinkConfig{
			{
				Name:        "errors_structured",
				Type:        SinkTypeFile,
				Path:        "errors_structured.log",
				MinLevel:    "ERROR",
				MaxBytes:    core.DefaultErrorMaxBytes,
				BackupCount: core.DefaultErrorBackups,
				Format:      "json",
			},
			console,
		}
	}

	return []SinkConfig{
		{
			Name:          "errors",
			Type:          SinkTypeFile,
			Path:          "errors.log",
			MinLevel:      "ERROR",
			MaxBytes:      core.DefaultErrorMaxBytes,
			BackupCount:   core.DefaultErrorBackups,
			Format:        "text",
			FormatOptions: map[string]any{"preset": "detailed"},
		},
		{
			Name:          "warnings",
			Type:          SinkTypeFile,
			Path:          "warnings.log",
			MinLevel:      "WARNING",
			MaxBytes:      core.DefaultWarningMaxBytes,
			BackupCount:   core.DefaultWarningBackups,
			Format:        "text",
			FormatOptions: map[string]any{"preset": "brief"},
		},
		{
			Name:          "critical",
			Type:          SinkTypeFile,
			Path:          "critical.log",
			MinLevel:      "CRITICAL",
			Format:        "text",
			FormatOptions: map[string]any{"preset": "critical"},
		},
		console,
	}
}

func validateSink(index int, cfg *SinkConfig, names map[string]bool) error {
	if cfg.Name == "" {
		return fmt.Errorf("sink[%d]: missing name", index)
	}
	if names[cfg.Name] {
		return fmt.Errorf("sink[%d]: duplicate name '%s'", index, cfg.Name)
	}
	names[cfg.Name] = true

	switch cfg.Type {
	case SinkTypeFile:
		if cfg.Path == "" {
			return fmt.Errorf("sink '%s': file sink requires 'path'", cfg.Name)
		}
		if strings.Contains(cfg.Path, "..") {
			return fmt.Errorf("sink '%s': path contains directory traversal", cfg.Name)
		}
	case SinkTypeConsole:
		switch cfg.Target {
		case "", "stdout", "stderr":
		default:
			return fmt.Errorf("sink '%s': invalid console target '%s' (must be 'stdout' or 'stderr')",
				cfg.Name, cfg.Target)
		}
	default:
		return fmt.Errorf("sink '%s': unknown type '%s'", cfg.Name, cfg.Type)
	}

	if _, err := core.ParseSeverity(cfg.MinLevel); err != nil {
		return fmt.Errorf("sink '%s': %w", cfg.Name, err)
	}

	if cfg.MaxBytes < 0 {
		return fmt.Errorf("sink '%s': max_bytes cannot be negative", cfg.Name)
	}
	if cfg.BackupCount < 0 {
		return fmt.Errorf("sink '%s': backup_count cannot be negative", cfg.Name)
	}

	switch cfg.Format {
	case "", "text", "txt", "json", "tint", "raw":
	default:
		return fmt.Errorf("sink '%s': unknown format '%s'", cfg.Name, cfg.Format)
	}

	for i := range cfg.Filters {
		if err := validateFilter(cfg.Name, i, &cfg.Filters[i]); err != nil {
			return err
		}
	}

	return nil
}
