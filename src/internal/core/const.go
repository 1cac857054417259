// FILE: faultline/src/internal/core/const.go
package core

import "time"

// Retry defaults
const (
	DefaultMaxAttempts   = 3
	DefaultInitialDelay  = 1 * time.Second
	DefaultBackoffFactor = 2.0
)

// Exception chains deeper than this are truncated
const MaxChainDepth = 16

// Stack frames captured per typed error
const MaxStackDepth = 32

// Number of records returned in a report's recent list
const RecentRecordCount = 5

// Default rotation thresholds for the standard topology
const (
	DefaultErrorMaxBytes     = 10 * 1024 * 1024
	DefaultErrorBackups      = 5
	DefaultWarningMaxBytes   = 5 * 1024 * 1024
	DefaultWarningBackups    = 3
	DefaultSlowOperationTime = 1 * time.Second
)

const DefaultLoggerName = "app"
