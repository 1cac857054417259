// FILE: faultline/src/internal/version/version.go
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set at compile time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns the version with build metadata
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", Short(), GitCommit, BuildTime, runtime.Version())
}

// Short returns just the version tag
func Short() string {
	return Version
}

// Info returns the build metadata as a map for JSON output
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_time": BuildTime,
		"go":         runtime.Version(),
	}
}
