package experiment

import (
	"io"
	"log/slog"
	"testing"

	"github.com/nvandessel/knowsim/internal/config"
	"github.com/nvandessel/knowsim/internal/results"
)

func newTestRunner(t *testing.T) (*Runner, *results.InMemoryStore) {
	t.Helper()
	store := results.NewInMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(store, log, nil), store
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Ticks = 20
	cfg.Seed = 7
	cfg.Cohorts[0].Agents = 5
	cfg.Cohorts[0].Facts = 10
	return cfg
}

func TestRunner_Run_PersistsRuns(t *testing.T) {
	r, store := newTestRunner(t)

	runs, err := r.Run(t.Context(), smallConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.ID == "" {
		t.Error("run not assigned an ID")
	}
	if len(run.Rates) != 20 {
		t.Errorf("got %d rates, want 20", len(run.Rates))
	}
	if run.Cohort != "baseline" || run.Seed != 7 {
		t.Errorf("run = %+v", run)
	}

	stored, err := store.GetRun(t.Context(), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if stored == nil {
		t.Fatal("run not persisted")
	}
}

func TestRunner_Run_InvalidConfig(t *testing.T) {
	r, _ := newTestRunner(t)

	cfg := smallConfig()
	cfg.Ticks = 0
	if _, err := r.Run(t.Context(), cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestRunner_Run_Deterministic(t *testing.T) {
	r1, _ := newTestRunner(t)
	r2, _ := newTestRunner(t)

	runs1, err := r1.Run(t.Context(), smallConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	runs2, err := r2.Run(t.Context(), smallConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i := range runs1[0].Rates {
		if runs1[0].Rates[i] != runs2[0].Rates[i] {
			t.Fatalf("tick %d diverged: %f vs %f", i, runs1[0].Rates[i], runs2[0].Rates[i])
		}
	}
}

func TestRunner_Run_CohortSeedsDiffer(t *testing.T) {
	r, _ := newTestRunner(t)

	cfg := smallConfig()
	second := cfg.Cohorts[0]
	second.Name = "twin"
	cfg.Cohorts = append(cfg.Cohorts, second)

	runs, err := r.Run(t.Context(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runs[0].Seed == runs[1].Seed {
		t.Errorf("cohorts share seed %d", runs[0].Seed)
	}
}

func TestRunner_Run_SharedStore(t *testing.T) {
	r, _ := newTestRunner(t)

	cfg := smallConfig()
	cfg.Ticks = 100
	cfg.Cohorts[0].SharedStore = "org"
	// A writer cohort feeding a reader-only cohort through the shared store.
	cfg.Cohorts[0].Policy.WriteRate = 0.4
	cfg.Cohorts[0].Policy.ContributionSuccess = 1.0
	reader := cfg.Cohorts[0]
	reader.Name = "readers"
	reader.Policy.WriteRate = 0
	reader.Policy.QueryRate = 0.4
	cfg.Cohorts = append(cfg.Cohorts, reader)

	if _, err := r.Run(t.Context(), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
