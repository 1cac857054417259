// FILE: faultline/src/internal/sink/file.go
package sink

import (
	"fmt"

	"faultline/src/internal/core"
	"faultline/src/internal/filter"
	"faultline/src/internal/format"
	"faultline/src/internal/metrics"

	"github.com/lixenwraith/log"
)

// FileConfig holds the settings of a file sink
type FileConfig struct {
	Name        string
	Path        string
	MinSeverity core.Severity
	MaxBytes    int64 // 0 disables rotation
	BackupCount int
}

// FileSink writes formatted events to a size-rotated file
type FileSink struct {
	base
	config FileConfig
	writer *RotatingWriter
}

// NewFileSink opens the destination file and returns a ready sink
func NewFileSink(cfg FileConfig, formatter format.Formatter, filters *filter.Chain, logger *log.Logger) (*FileSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink '%s': path is required", cfg.Name)
	}
	if logger == nil {
		logger = log.NewLogger()
	}

	writer, err := NewRotatingWriter(cfg.Path, cfg.MaxBytes, cfg.BackupCount)
	if err != nil {
		return nil, fmt.Errorf("file sink '%s': %w", cfg.Name, err)
	}

	fs := &FileSink{
		config: cfg,
		writer: writer,
	}
	fs.initBase(cfg.Name, cfg.MinSeverity, formatter, filters, logger)

	writer.OnRotate(func(path string) {
		metrics.Rotations.WithLabelValues(path).Inc()
		logger.Debug("msg", "Log file rotated",
			"component", "file_sink",
			"sink", cfg.Name,
			"path", path)
	})

	logger.Info("msg", "File sink started",
		"component", "file_sink",
		"sink", cfg.Name,
		"path", cfg.Path,
		"min_level", cfg.MinSeverity.String(),
		"max_bytes", cfg.MaxBytes,
		"backup_count", cfg.BackupCount)

	return fs, nil
}

// Write formats the event and appends it; rotation and append happen under
// the writer lock.
func (fs *FileSink) Write(event core.LogEvent) error {
	if !event.Severity.AtLeast(fs.minSeverity) {
		return nil
	}

	formatted, err := fs.formatter.Format(event)
	if err != nil {
		fs.totalFailed.Add(1)
		return fmt.Errorf("format for sink '%s': %w", fs.name, err)
	}

	if _, err := fs.writer.Write(formatted); err != nil {
		fs.totalFailed.Add(1)
		return fmt.Errorf("write to '%s': %w", fs.config.Path, err)
	}

	fs.markWritten()
	metrics.SinkWrites.WithLabelValues(fs.name).Inc()
	return nil
}

func (fs *FileSink) Close() error {
	fs.logger.Info("msg", "Stopping file sink", "component", "file_sink", "sink", fs.name)
	if err := fs.writer.Close(); err != nil {
		fs.logger.Error("msg", "Error closing log file",
			"component", "file_sink",
			"sink", fs.name,
			"error", err)
		return err
	}
	fs.logger.Info("msg", "File sink stopped", "component", "file_sink", "sink", fs.name)
	return nil
}

func (fs *FileSink) GetStats() SinkStats {
	return fs.stats("file", map[string]any{
		"path":         fs.config.Path,
		"size":         fs.writer.Size(),
		"max_bytes":    fs.config.MaxBytes,
		"backup_count": fs.config.BackupCount,
	})
}
