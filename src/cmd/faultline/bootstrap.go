// FILE: faultline/src/cmd/faultline/bootstrap.go
package main

import (
	"fmt"
	"strings"

	"faultline/src/internal/config"
	"faultline/src/internal/pipeline"
	"faultline/src/internal/status"
	"faultline/src/internal/version"

	"github.com/lixenwraith/log"
)

// bootstrapService builds the logging context and, when enabled, starts the
// status server.
func bootstrapService(cfg *config.Config) (*pipeline.LoggingContext, *status.Server, error) {
	lc, err := pipeline.New(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure sinks: %w", err)
	}

	for _, name := range lc.Router().Sinks() {
		logger.Info("msg", "Sink configured",
			"component", "main",
			"sink", name)
	}

	var server *status.Server
	if cfg.Status.Enabled {
		server = status.NewServer(lc, cfg.Status.Host, cfg.Status.Port, logger)
		if err := server.Start(); err != nil {
			lc.Close()
			return nil, nil, fmt.Errorf("failed to start status server: %w", err)
		}
		Print("Status endpoint: http://%s/report\n", server.Addr())
	}

	logger.Info("msg", "faultline started",
		"version", version.Short(),
		"log_dir", cfg.LogDir,
		"mode", cfg.Mode,
		"sinks", len(lc.Router().Sinks()))

	return lc, server, nil
}

// initializeLogger sets up the diagnostic logger based on configuration
func initializeLogger(cfg *config.Config, quiet bool) error {
	logger = log.NewLogger()

	// An unstarted logger discards everything
	if cfg.Logging.Output == "none" {
		return nil
	}

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = levelValue
	logCfg.Directory = cfg.LogDir
	logCfg.Name = cfg.Logging.Name
	logCfg.EnableConsole = cfg.Logging.Output == "both" && !quiet
	if cfg.Logging.MaxSizeMB > 0 {
		logCfg.MaxSizeKB = cfg.Logging.MaxSizeMB * 1000
	}

	if err := logger.ApplyConfig(logCfg); err != nil {
		return fmt.Errorf("failed to apply logger config: %w", err)
	}
	return logger.Start()
}

func parseLogLevel(level string) (int64, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
