// FILE: faultline/src/cmd/faultline/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"faultline/src/cmd/faultline/commands"
	"faultline/src/internal/config"
	"faultline/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	// Subcommands run to completion and never start the service
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		os.Exit(0)
	}

	flagCfg, rest, err := ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	InitOutputHandler(flagCfg.Quiet)

	if flagCfg.ShowHelp {
		if handler, ok := router.GetCommand("help"); ok {
			_ = handler.Execute(nil)
		}
		os.Exit(0)
	}

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if flagCfg.ConfigFile != "" {
		os.Setenv("FAULTLINE_CONFIG_FILE", flagCfg.ConfigFile)
	}

	// Load configuration with CLI overrides
	cfg, err := config.LoadWithCLI(rest)
	if err != nil {
		if flagCfg.ConfigFile != "" && strings.Contains(err.Error(), "not found") {
			FatalError(2, "Config file not found: %s\n", flagCfg.ConfigFile)
		}
		FatalError(1, "Failed to load config: %v\n", err)
	}

	if err := initializeLogger(cfg, flagCfg.Quiet); err != nil {
		FatalError(1, "Failed to initialize logger: %v\n", err)
	}
	defer shutdownLogger()

	logger.Info("msg", "faultline starting",
		"version", version.String(),
		"config_file", config.GetConfigPath(),
		"log_output", cfg.Logging.Output)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	lc, server, err := bootstrapService(cfg)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap service", "error", err)
		FatalError(1, "Failed to start: %v\n", err)
	}

	if cfg.Status.ReportIntervalSeconds > 0 {
		interval := time.Duration(cfg.Status.ReportIntervalSeconds) * time.Second
		go statusReporter(ctx, lc, interval, cfg.Status.ResetOnReport)
	}

	Print("faultline running, log directory: %s\n", cfg.LogDir)

	sig := <-sigChan
	logger.Info("msg", "Shutdown signal received, starting graceful shutdown...",
		"signal", sig.String())
	cancel()

	if server != nil {
		server.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan error, 1)
	go func() {
		done <- lc.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("msg", "Sink shutdown failed", "error", err)
		}
		logger.Info("msg", "Shutdown complete")
	case <-shutdownCtx.Done():
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		shutdownLogger()
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
