package factspace

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestSampler(t *testing.T, nFacts int) *Sampler {
	t.Helper()
	s, err := NewSampler(nFacts, rand.NewPCG(7, 7))
	if err != nil {
		t.Fatalf("NewSampler(%d): %v", nFacts, err)
	}
	return s
}

func TestNewSampler_Validation(t *testing.T) {
	if _, err := NewSampler(0, rand.NewPCG(1, 1)); err == nil {
		t.Error("expected error for empty fact space")
	}
	if _, err := NewSampler(-5, rand.NewPCG(1, 1)); err == nil {
		t.Error("expected error for negative fact space")
	}
	if _, err := NewSampler(10, nil); err == nil {
		t.Error("expected error for nil source")
	}
}

func TestSample_InRange(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100} {
		s := newTestSampler(t, n)
		for i := 0; i < 1000; i++ {
			id := s.Sample()
			if id < 0 || id >= n {
				t.Fatalf("Sample() = %d, outside [0, %d)", id, n)
			}
		}
	}
}

func TestSample_SingleFact(t *testing.T) {
	s := newTestSampler(t, 1)
	for i := 0; i < 100; i++ {
		if id := s.Sample(); id != 0 {
			t.Fatalf("Sample() = %d with one fact, want 0", id)
		}
	}
}

func TestSample_Deterministic(t *testing.T) {
	a, err := NewSampler(100, rand.NewPCG(42, 42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSampler(100, rand.NewPCG(42, 42))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 500; i++ {
		if av, bv := a.Sample(), b.Sample(); av != bv {
			t.Fatalf("draw %d: samplers with same seed diverged: %d vs %d", i, av, bv)
		}
	}
}

func TestSample_SkewedTowardLowFacts(t *testing.T) {
	s := newTestSampler(t, 100)
	low := 0
	const draws = 10000
	for i := 0; i < draws; i++ {
		if s.Sample() < 50 {
			low++
		}
	}
	// Beta(0.8, 2) puts well over 80% of its mass below the midpoint.
	if float64(low)/draws < 0.7 {
		t.Errorf("only %d/%d draws in the low half, distribution not skewed", low, draws)
	}
}

func TestFrequencies(t *testing.T) {
	s := newTestSampler(t, 20)
	freqs := s.Frequencies()
	if len(freqs) != 20 {
		t.Fatalf("Frequencies() returned %d bins, want 20", len(freqs))
	}

	sum := 0.0
	for i, f := range freqs {
		if f < 0 {
			t.Errorf("bin %d has negative probability %f", i, f)
		}
		sum += f
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("frequencies sum to %f, want 1", sum)
	}

	// The first bin should dominate the last: that's the whole point of the skew.
	if freqs[0] <= freqs[len(freqs)-1] {
		t.Errorf("expected freqs[0] (%f) > freqs[last] (%f)", freqs[0], freqs[len(freqs)-1])
	}
}
