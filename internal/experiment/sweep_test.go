package experiment

import (
	"testing"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/results"
)

func sweepConfig() *config.Config {
	cfg := smallConfig()
	cfg.Sweep = &config.SweepConfig{
		Agents:  []int{2, 5},
		Facts:   []int{5, 10},
		Repeats: 2,
		Workers: 2,
	}
	return cfg
}

func TestSweep_CoversGrid(t *testing.T) {
	r, store := newTestRunner(t)

	summaries, err := r.Sweep(t.Context(), sweepConfig())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	// 1 cohort x 2 agents values x 2 facts values
	if len(summaries) != 4 {
		t.Fatalf("got %d summaries, want 4", len(summaries))
	}
	for _, s := range summaries {
		if s.Repeats != 2 {
			t.Errorf("point (%d,%d): repeats = %d, want 2", s.Agents, s.Facts, s.Repeats)
		}
		if len(s.RunIDs) != 2 {
			t.Errorf("point (%d,%d): got %d run IDs", s.Agents, s.Facts, len(s.RunIDs))
		}
		if s.MinFinalRate > s.MeanFinalRate || s.MeanFinalRate > s.MaxFinalRate {
			t.Errorf("point (%d,%d): min/mean/max out of order: %f/%f/%f",
				s.Agents, s.Facts, s.MinFinalRate, s.MeanFinalRate, s.MaxFinalRate)
		}
	}

	runs, err := store.ListRuns(t.Context())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 8 {
		t.Errorf("got %d persisted runs, want 8", len(runs))
	}
}

func TestSweep_SeedsUnique(t *testing.T) {
	r, store := newTestRunner(t)

	if _, err := r.Sweep(t.Context(), sweepConfig()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	runs, err := store.ListRuns(t.Context())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	seeds := make(map[uint64]bool)
	for _, run := range runs {
		if seeds[run.Seed] {
			t.Errorf("seed %d reused", run.Seed)
		}
		seeds[run.Seed] = true
	}
}

func TestSweep_NoSweepSection(t *testing.T) {
	r, _ := newTestRunner(t)

	if _, err := r.Sweep(t.Context(), smallConfig()); err == nil {
		t.Error("expected error when config has no sweep")
	}
}

func TestSweep_DeterministicAcrossWorkerCounts(t *testing.T) {
	run := func(workers int) []Summary {
		t.Helper()
		r, _ := newTestRunner(t)
		cfg := sweepConfig()
		cfg.Sweep.Workers = workers
		summaries, err := r.Sweep(t.Context(), cfg)
		if err != nil {
			t.Fatalf("Sweep(workers=%d): %v", workers, err)
		}
		return summaries
	}

	serial := run(1)
	parallel := run(4)

	if len(serial) != len(parallel) {
		t.Fatalf("summary counts differ: %d vs %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i].MeanFinalRate != parallel[i].MeanFinalRate {
			t.Errorf("point %d mean diverged: %f vs %f",
				i, serial[i].MeanFinalRate, parallel[i].MeanFinalRate)
		}
	}
}

func TestAggregate_GroupsAndSorts(t *testing.T) {
	runs := []results.Run{
		{ID: "b1", Cohort: "b", Agents: 10, Facts: 5, Rates: []float64{0.4}},
		{ID: "a2", Cohort: "a", Agents: 10, Facts: 5, Rates: []float64{0.8}},
		{ID: "a1", Cohort: "a", Agents: 10, Facts: 5, Rates: []float64{0.2}},
		{ID: "a3", Cohort: "a", Agents: 5, Facts: 5, Rates: []float64{1.0}},
	}

	summaries := Aggregate(runs)
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}

	if summaries[0].Cohort != "a" || summaries[0].Agents != 5 {
		t.Errorf("first summary = %+v", summaries[0])
	}

	grouped := summaries[1]
	if grouped.Repeats != 2 {
		t.Fatalf("repeats = %d, want 2", grouped.Repeats)
	}
	if grouped.MeanFinalRate != 0.5 || grouped.MinFinalRate != 0.2 || grouped.MaxFinalRate != 0.8 {
		t.Errorf("mean/min/max = %f/%f/%f", grouped.MeanFinalRate, grouped.MinFinalRate, grouped.MaxFinalRate)
	}
	if grouped.RunIDs[0] != "a1" || grouped.RunIDs[1] != "a2" {
		t.Errorf("run IDs = %v", grouped.RunIDs)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, want empty", got)
	}
}
