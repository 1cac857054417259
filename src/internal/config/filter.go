// FILE: faultline/src/internal/config/filter.go
package config

import (
	"fmt"
	"regexp"
)

// Filter types
const (
	FilterTypeInclude = "include"
	FilterTypeExclude = "exclude"
)

// Filter logic
const (
	FilterLogicOr  = "or"
	FilterLogicAnd = "and"
)

// FilterConfig selects events by regex over "logger level message".
type FilterConfig struct {
	// "include" passes matches, "exclude" drops them
	Type string `toml:"type"`

	// "or" matches any pattern, "and" requires all
	Logic string `toml:"logic"`

	Patterns []string `toml:"patterns"`
}

func validateFilter(sinkName string, filterIndex int, cfg *FilterConfig) error {
	// Validate filter type
	switch cfg.Type {
	case FilterTypeInclude, FilterTypeExclude, "":
		// Valid types
	default:
		return fmt.Errorf("sink '%s' filter[%d]: invalid type '%s' (must be 'include' or 'exclude')",
			sinkName, filterIndex, cfg.Type)
	}

	// Validate filter logic
	switch cfg.Logic {
	case FilterLogicOr, FilterLogicAnd, "":
		// Valid logic
	default:
		return fmt.Errorf("sink '%s' filter[%d]: invalid logic '%s' (must be 'or' or 'and')",
			sinkName, filterIndex, cfg.Logic)
	}

	// Empty patterns is valid - passes everything
	if len(cfg.Patterns) == 0 {
		return nil
	}

	// Validate regex patterns
	for i, pattern := range cfg.Patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("sink '%s' filter[%d] pattern[%d] '%s': invalid regex: %w",
				sinkName, filterIndex, i, pattern, err)
		}
	}

	return nil
}
