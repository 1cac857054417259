// FILE: faultline/src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"sync/atomic"

	"faultline/src/internal/config"
	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
)

// Filter applies regex-based filtering to log events
type Filter struct {
	config   config.FilterConfig
	patterns []*regexp.Regexp
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewFilter creates a new filter from configuration
func NewFilter(cfg config.FilterConfig, logger *log.Logger) (*Filter, error) {
	// Set defaults
	if cfg.Type == "" {
		cfg.Type = config.FilterTypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = config.FilterLogicOr
	}

	f := &Filter{
		config:   cfg,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)),
		logger:   logger,
	}

	// Compile patterns
	for i, pattern := range cfg.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"pattern_count", len(cfg.Patterns))

	return f, nil
}

// Apply checks if a log event should be passed through. Patterns run against
// "logger LEVEL message".
func (f *Filter) Apply(event core.LogEvent) bool {
	f.totalProcessed.Add(1)

	// No patterns means pass everything
	if len(f.patterns) == 0 {
		return true
	}

	text := event.Message
	if event.Severity.Valid() {
		text = event.Severity.String() + " " + text
	}
	if event.Logger != "" {
		text = event.Logger + " " + text
	}

	matched := f.matches(text)
	if matched {
		f.totalMatched.Add(1)
	}

	// Determine if we should pass or drop
	shouldPass := false
	switch f.config.Type {
	case config.FilterTypeInclude:
		shouldPass = matched
	case config.FilterTypeExclude:
		shouldPass = !matched
	}

	if !shouldPass {
		f.totalDropped.Add(1)
	}

	return shouldPass
}

// matches checks if text matches the patterns according to the logic
func (f *Filter) matches(text string) bool {
	switch f.config.Logic {
	case config.FilterLogicOr:
		// Match any pattern
		for _, re := range f.patterns {
			if re.MatchString(text) {
				return true
			}
		}
		return false

	case config.FilterLogicAnd:
		// Must match all patterns
		for _, re := range f.patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true

	default:
		// Shouldn't happen after validation
		f.logger.Warn("msg", "Unknown filter logic",
			"component", "filter",
			"logic", f.config.Logic)
		return false
	}
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	return map[string]any{
		"type":            f.config.Type,
		"logic":           f.config.Logic,
		"pattern_count":   len(f.patterns),
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
		"total_dropped":   f.totalDropped.Load(),
	}
}
