package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/constants"
	"github.com/nvandessel/knowsim/internal/results"
	"github.com/nvandessel/knowsim/internal/sim"
)

// sweepJob is one cell of the sweep grid: a cohort policy at a given
// population and fact-space size, one of Repeats independently seeded runs.
type sweepJob struct {
	cohort config.CohortConfig
	agents int
	facts  int
	seed   uint64
}

// Sweep runs the config's sweep grid: every cohort policy at every
// combination of population size and fact-space size, repeated with
// derived seeds. Runs execute on a bounded worker pool; each run is fully
// independent (private knowledge base, own engine seed), so parallel
// execution never perturbs results. Returned summaries aggregate the
// repeats of each grid point.
func (r *Runner) Sweep(ctx context.Context, cfg *config.Config) ([]Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Sweep == nil {
		return nil, fmt.Errorf("config has no sweep section")
	}

	jobs := buildJobs(cfg)
	workers := cfg.Sweep.Workers
	if workers == 0 {
		workers = constants.DefaultSweepWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	r.log.Info("starting sweep",
		"points", len(jobs)/cfg.Sweep.Repeats,
		"repeats", cfg.Sweep.Repeats,
		"runs", len(jobs),
		"workers", workers)

	runs := make([]results.Run, len(jobs))
	errs := make([]error, len(jobs))
	jobCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				runs[idx], errs[idx] = r.runSweepJob(ctx, jobs[idx], cfg.Ticks)
			}
		}()
	}

	for idx := range jobs {
		select {
		case jobCh <- idx:
		case <-ctx.Done():
			close(jobCh)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobCh)
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			j := jobs[idx]
			return nil, fmt.Errorf("sweep run (cohort=%s agents=%d facts=%d seed=%d): %w",
				j.cohort.Name, j.agents, j.facts, j.seed, err)
		}
	}

	summaries := Aggregate(runs)
	r.log.Info("sweep complete", "points", len(summaries))
	return summaries, nil
}

// buildJobs expands the sweep grid into a flat job list. Each job's seed is
// the base seed plus its grid index, so the whole sweep reproduces from one
// seed regardless of worker count or scheduling.
func buildJobs(cfg *config.Config) []sweepJob {
	var jobs []sweepJob
	idx := uint64(0)
	for _, cc := range cfg.Cohorts {
		for _, agents := range cfg.Sweep.Agents {
			for _, facts := range cfg.Sweep.Facts {
				for rep := 0; rep < cfg.Sweep.Repeats; rep++ {
					jobs = append(jobs, sweepJob{
						cohort: cc,
						agents: agents,
						facts:  facts,
						seed:   cfg.Seed + idx,
					})
					idx++
				}
			}
		}
	}
	return jobs
}

// runSweepJob executes one grid cell run and persists it.
func (r *Runner) runSweepJob(ctx context.Context, job sweepJob, ticks int) (results.Run, error) {
	run := results.Run{
		Cohort: job.cohort.Name,
		Agents: job.agents,
		Facts:  job.facts,
		Ticks:  ticks,
		Seed:   job.seed,
		Policy: job.cohort.Policy.ToPolicy(),
	}

	cohort, err := sim.NewCohort(sim.Config{
		Agents: job.agents,
		Facts:  job.facts,
		Policy: run.Policy,
		Seed:   job.seed,
	})
	if err != nil {
		return results.Run{}, err
	}

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

	return run, nil
}
