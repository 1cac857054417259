// FILE: faultline/src/internal/config/saver.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveToFile writes the configuration as TOML to path, creating the file
// and its directory when missing. The file is replaced atomically.
func (c *Config) SaveToFile(path string) error {
	if path == "" {
		return fmt.Errorf("cannot save config: path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	// No-op once the rename has happened
	defer os.Remove(tmpPath)

	if err := c.WriteTOML(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// WriteTOML encodes the configuration as TOML, sinks included.
func (c *Config) WriteTOML(w io.Writer) error {
	out := *c
	out.Sinks = c.EffectiveSinks()
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
