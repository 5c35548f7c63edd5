package sim

import (
	"context"
	"fmt"
)

// Run executes the configured number of ticks and returns the per-tick
// success fractions, one entry per tick, each in [0,1]. A tick is atomic:
// the context is only checked between ticks, so a cancelled run returns the
// rates collected so far alongside the context error.
func (c *Cohort) Run(ctx context.Context, ticks int) ([]float64, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("tick count must be non-negative, got %d", ticks)
	}

	rates := make([]float64, 0, ticks)
	for tick := 0; tick < ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return rates, fmt.Errorf("run cancelled at tick %d: %w", tick, err)
		}
		stats := c.Tick(tick)
		rates = append(rates, stats.Rate)
	}
	return rates, nil
}
