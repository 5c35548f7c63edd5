// Package experiment orchestrates simulation runs: it turns a validated
// configuration into engine runs, persists their results, and executes
// parameter sweeps over a grid of population and fact-space sizes.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/logging"
	"github.com/nvandessel/knowsim/internal/results"
	"github.com/nvandessel/knowsim/internal/sim"
)

// Runner executes experiments against a result store.
type Runner struct {
	store results.ResultStore
	log   *slog.Logger
	ticks *logging.TickLogger
}

// NewRunner creates a Runner. The tick logger may be nil (tracing disabled).
func NewRunner(store results.ResultStore, log *slog.Logger, ticks *logging.TickLogger) *Runner {
	return &Runner{store: store, log: log, ticks: ticks}
}

// Run executes every cohort in the config once and persists each run.
// Cohorts naming the same shared_store share one knowledge base; cohort i
// seeds its engine with Seed+i, so one base seed reproduces the experiment.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) ([]results.Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stores := make(map[string]*sim.KnowledgeBase)
	runs := make([]results.Run, 0, len(cfg.Cohorts))

	for i, cc := range cfg.Cohorts {
		var shared *sim.KnowledgeBase
		if cc.SharedStore != "" {
			if stores[cc.SharedStore] == nil {
				stores[cc.SharedStore] = sim.NewKnowledgeBase()
			}
			shared = stores[cc.SharedStore]
		}

		seed := cfg.Seed + uint64(i)
		run, err := r.runOne(ctx, cc, cfg.Ticks, seed, shared)
		if err != nil {
			return nil, fmt.Errorf("cohort %s: %w", cc.Name, err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// runOne executes a single cohort run and persists it.
func (r *Runner) runOne(ctx context.Context, cc config.CohortConfig, ticks int, seed uint64, shared *sim.KnowledgeBase) (results.Run, error) {
	run := results.Run{
		Cohort: cc.Name,
		Agents: cc.Agents,
		Facts:  cc.Facts,
		Ticks:  ticks,
		Seed:   seed,
		Policy: cc.Policy.ToPolicy(),
	}

	cohort, err := sim.NewCohort(sim.Config{
		Agents: cc.Agents,
		Facts:  cc.Facts,
		Policy: run.Policy,
		Seed:   seed,
		Shared: shared,
		OnTick: func(ts sim.TickStats) {
			r.ticks.Log(logging.TickEvent{
				Cohort:    cc.Name,
				Tick:      ts.Tick,
				Successes: ts.Successes,
				Rate:      ts.Rate,
				StoreSize: ts.StoreSize,
			})
		},
	})
	if err != nil {
		return results.Run{}, err
	}

	r.log.Info("starting run",
		"cohort", cc.Name, "agents", cc.Agents, "facts", cc.Facts,
		"ticks", ticks, "seed", seed)

	rates, err := cohort.Run(ctx, ticks)
	if err != nil {
		return results.Run{}, err
	}
	run.Rates = rates

	id, err := r.store.SaveRun(ctx, run)
	if err != nil {
		return results.Run{}, fmt.Errorf("saving run: %w", err)
	}
	run.ID = id

	r.log.Info("run complete",
		"run", id, "cohort", cc.Name, "final_rate", run.FinalRate())

	return run, nil
}
