// Package results defines the ResultStore interface for persisting and
// querying simulation runs and their per-tick success-rate series.
package results

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nvandessel/knowsim/internal/sim"
)

// Run is one recorded simulation run: its configuration, seed and the full
// per-tick success-rate series.
type Run struct {
	ID        string     `json:"id"`
	Cohort    string     `json:"cohort"`
	Agents    int        `json:"agents"`
	Facts     int        `json:"facts"`
	Ticks     int        `json:"ticks"`
	Seed      uint64     `json:"seed"`
	Policy    sim.Policy `json:"policy"`
	CreatedAt time.Time  `json:"created_at"`
	Rates     []float64  `json:"rates"`
}

// FinalRate returns the success rate of the last tick, or 0 for an empty run.
func (r Run) FinalRate() float64 {
	if len(r.Rates) == 0 {
		return 0
	}
	return r.Rates[len(r.Rates)-1]
}

// ResultStore defines the interface for persisting and querying runs.
type ResultStore interface {
	// SaveRun stores a run and returns its ID. An empty ID is assigned;
	// saving an existing ID replaces that run's record and series.
	SaveRun(ctx context.Context, run Run) (string, error)

	// GetRun returns the run with the given ID, or nil when absent.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns all stored runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// Close releases any underlying resources.
	Close() error
}

var runCounter atomic.Uint64

// newRunID generates a unique run identifier.
func newRunID() string {
	return fmt.Sprintf("run-%d-%d", time.Now().UnixNano(), runCounter.Add(1))
}
