package results

import (
	"testing"
	"time"

	"github.com/nvandessel/knowsim/internal/sim"
)

func sampleRun(cohort string) Run {
	return Run{
		Cohort: cohort,
		Agents: 10,
		Facts:  20,
		Ticks:  3,
		Seed:   42,
		Policy: sim.DefaultPolicy(),
		Rates:  []float64{0.1, 0.4, 0.9},
	}
}

func TestInMemoryStore_SaveAndGet(t *testing.T) {
	s := NewInMemoryStore()
	defer s.Close()

	id, err := s.SaveRun(t.Context(), sampleRun("baseline"))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun returned empty ID")
	}

	got, err := s.GetRun(t.Context(), id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil for saved run")
	}
	if got.Cohort != "baseline" || got.Agents != 10 {
		t.Errorf("run = %+v", got)
	}
	if got.FinalRate() != 0.9 {
		t.Errorf("FinalRate = %f, want 0.9", got.FinalRate())
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.GetRun(t.Context(), "nope")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v for missing run, want nil", got)
	}
}

func TestInMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewInMemoryStore()

	old := sampleRun("old")
	old.CreatedAt = time.Now().Add(-time.Hour)
	newer := sampleRun("new")
	newer.CreatedAt = time.Now()

	if _, err := s.SaveRun(t.Context(), old); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := s.SaveRun(t.Context(), newer); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := s.ListRuns(t.Context())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Cohort != "new" || runs[1].Cohort != "old" {
		t.Errorf("order = %s, %s; want new, old", runs[0].Cohort, runs[1].Cohort)
	}
}

func TestInMemoryStore_CopiesSeries(t *testing.T) {
	s := NewInMemoryStore()

	run := sampleRun("baseline")
	id, err := s.SaveRun(t.Context(), run)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	run.Rates[0] = 99 // mutate caller's slice after save

	got, err := s.GetRun(t.Context(), id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Rates[0] != 0.1 {
		t.Errorf("stored series aliased caller slice: rate[0] = %f", got.Rates[0])
	}
}

func TestFinalRate_Empty(t *testing.T) {
	if r := (Run{}).FinalRate(); r != 0 {
		t.Errorf("FinalRate of empty run = %f, want 0", r)
	}
}
