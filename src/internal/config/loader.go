// FILE: faultline/src/internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"faultline/src/internal/core"

	lconfig "github.com/lixenwraith/config"
)

// Defaults returns the configuration used when no file, environment or
// CLI source overrides a value.
func Defaults() *Config {
	return &Config{
		LogDir:     "logs",
		Mode:       ModePlain,
		LoggerName: core.DefaultLoggerName,
		Fallback: FallbackConfig{
			Target:        "stderr",
			RatePerSecond: 1,
			Burst:         10,
		},
		Retry: RetryConfig{
			MaxAttempts:    core.DefaultMaxAttempts,
			InitialDelayMs: core.DefaultInitialDelay.Milliseconds(),
			BackoffFactor:  core.DefaultBackoffFactor,
		},
		Status: StatusConfig{
			Enabled:               false,
			Host:                  "127.0.0.1",
			Port:                  9464,
			ReportIntervalSeconds: 60,
			ResetOnReport:         true,
		},
		Logging: DefaultLogConfig(),
	}
}

// LoadWithCLI layers defaults, the TOML file, FAULTLINE_* environment
// variables and CLI arguments, in increasing priority.
func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(Defaults()).
		WithEnvPrefix("FAULTLINE_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := Defaults()
	if cfg != nil {
		if err := cfg.Scan(finalConfig); err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}
	}

	if finalConfig.Logging == nil {
		finalConfig.Logging = DefaultLogConfig()
	}

	return finalConfig, finalConfig.Validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "FAULTLINE_" + env
	return env
}

// GetConfigPath resolves the config file from FAULTLINE_CONFIG_FILE and
// FAULTLINE_CONFIG_DIR, falling back to ~/.config/faultline.toml.
func GetConfigPath() string {
	if configFile := os.Getenv("FAULTLINE_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("FAULTLINE_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("FAULTLINE_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "faultline.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "faultline.toml")
	}

	return "faultline.toml"
}
