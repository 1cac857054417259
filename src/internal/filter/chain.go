// FILE: faultline/src/internal/filter/chain.go
package filter

import (
	"fmt"
	"sync/atomic"

	"faultline/src/internal/config"
	"faultline/src/internal/core"

	"github.com/lixenwraith/log"
)

// Chain manages a sequence of filters, applying them in order.
type Chain struct {
	filters []*Filter
	logger  *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalPassed    atomic.Uint64
}

// NewChain creates a new filter chain from a slice of filter configurations.
func NewChain(configs []config.FilterConfig, logger *log.Logger) (*Chain, error) {
	chain := &Chain{
		filters: make([]*Filter, 0, len(configs)),
		logger:  logger,
	}

	for i, cfg := range configs {
		filter, err := NewFilter(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("filter[%d]: %w", i, err)
		}
		chain.filters = append(chain.filters, filter)
	}

	return chain, nil
}

// Apply runs a log event through all filters in the chain. A nil chain passes
// everything.
func (c *Chain) Apply(event core.LogEvent) bool {
	if c == nil {
		return true
	}
	c.totalProcessed.Add(1)

	// No filters means pass everything
	if len(c.filters) == 0 {
		c.totalPassed.Add(1)
		return true
	}

	// All filters must pass
	for i, filter := range c.filters {
		if !filter.Apply(event) {
			c.logger.Debug("msg", "Event filtered out",
				"component", "filter_chain",
				"filter_index", i,
				"filter_type", filter.config.Type)
			return false
		}
	}

	c.totalPassed.Add(1)
	return true
}

// GetStats returns aggregated statistics for the entire chain.
func (c *Chain) GetStats() map[string]any {
	if c == nil {
		return map[string]any{"filter_count": 0}
	}

	filterStats := make([]map[string]any, len(c.filters))
	for i, filter := range c.filters {
		filterStats[i] = filter.GetStats()
	}

	return map[string]any{
		"filter_count":    len(c.filters),
		"total_processed": c.totalProcessed.Load(),
		"total_passed":    c.totalPassed.Load(),
		"filters":         filterStats,
	}
}
