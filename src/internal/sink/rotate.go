// FILE: faultline/src/internal/sink/rotate.go
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrWriterClosed is returned by writes after Close.
var ErrWriterClosed = errors.New("log file is closed")

// RotatingWriter appends to a file and rolls it over by size into
// path.1 ... path.N, path.1 being the newest backup. It is safe for
// concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	path        string
	maxBytes    int64 // 0 disables rotation
	backupCount int   // 0 truncates on rollover
	onRotate    func(path string)

	file   *os.File
	size   int64
	closed bool
}

// NewRotatingWriter opens path for appending, creating parent directories.
func NewRotatingWriter(path string, maxBytes int64, backupCount int) (*RotatingWriter, error) {
	if maxBytes < 0 {
		return nil, fmt.Errorf("max_bytes must be >= 0, got %d", maxBytes)
	}
	if backupCount < 0 {
		return nil, fmt.Errorf("backup_count must be >= 0, got %d", backupCount)
	}

	rw := &RotatingWriter{
		path:        path,
		maxBytes:    maxBytes,
		backupCount: backupCount,
	}
	if err := rw.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return rw, nil
}

// OnRotate registers a hook invoked after every successful rollover.
func (rw *RotatingWriter) OnRotate(fn func(path string)) {
	rw.mu.Lock()
	rw.onRotate = fn
	rw.mu.Unlock()
}

// open must be called with the mutex held.
func (rw *RotatingWriter) open(mode int) error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(rw.path, os.O_CREATE|os.O_WRONLY|mode, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rw.file = file
	rw.size = info.Size()
	return nil
}

// Write appends one record. If the record would push a non-empty file to or
// past max_bytes the file is rolled over first, so a record is never split
// across files. A failed rollover leaves the active file open and the next
// write tries again.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.closed {
		return 0, ErrWriterClosed
	}

	// A rollover that failed after closing the active file left it unopened
	if rw.file == nil {
		if err := rw.open(os.O_APPEND); err != nil {
			return 0, err
		}
	}

	if rw.maxBytes > 0 && rw.size > 0 && rw.size+int64(len(p)) >= rw.maxBytes {
		if err := rw.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// rotate must be called with the mutex held. Backups are shifted while the
// active file is still open; only the final rename closes it.
func (rw *RotatingWriter) rotate() error {
	if rw.backupCount > 0 {
		// Oldest backup falls off the end
		oldest := backupName(rw.path, rw.backupCount)
		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove oldest backup: %w", err)
		}

		for i := rw.backupCount - 1; i >= 1; i-- {
			src := backupName(rw.path, i)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := os.Rename(src, backupName(rw.path, i+1)); err != nil {
				return fmt.Errorf("failed to shift backup %d: %w", i, err)
			}
		}
	}

	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file for rotation: %w", err)
	}
	rw.file = nil

	if rw.backupCount == 0 {
		if err := rw.open(os.O_TRUNC); err != nil {
			return rw.reopen(err)
		}
		rw.notify()
		return nil
	}

	if err := os.Rename(rw.path, backupName(rw.path, 1)); err != nil {
		return rw.reopen(fmt.Errorf("failed to rotate log file: %w", err))
	}

	if err := rw.open(os.O_TRUNC); err != nil {
		return rw.reopen(err)
	}
	rw.notify()
	return nil
}

// reopen keeps appending to the active file after a failed rollover and
// returns cause. If the file cannot be reopened either, the next Write
// retries the open.
func (rw *RotatingWriter) reopen(cause error) error {
	if err := rw.open(os.O_APPEND); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (rw *RotatingWriter) notify() {
	if rw.onRotate != nil {
		rw.onRotate(rw.path)
	}
}

// Sync flushes the active file to stable storage.
func (rw *RotatingWriter) Sync() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	return rw.file.Sync()
}

// Close flushes and closes the active file. Further writes fail.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.closed {
		return nil
	}
	rw.closed = true
	if rw.file == nil {
		return nil
	}
	syncErr := rw.file.Sync()
	closeErr := rw.file.Close()
	rw.file = nil
	if closeErr != nil {
		return closeErr
	}
	return syncErr
}

// Path returns the active file path.
func (rw *RotatingWriter) Path() string {
	return rw.path
}

// Size returns the active file size.
func (rw *RotatingWriter) Size() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.size
}

func backupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
