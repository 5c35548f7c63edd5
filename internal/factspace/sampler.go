// Package factspace provides the skewed fact-identifier distribution shared
// by the whole simulation. Facts are integers in [0, n); their frequency
// follows a Beta(0.8, 2) distribution scaled to the range, so low-numbered
// facts turn up often and high-numbered facts are rare.
package factspace

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nvandessel/knowsim/internal/constants"
)

// Sampler draws fact identifiers from the scaled Beta distribution.
// It is used both to pick new search targets and to simulate which fact an
// agent stumbles on during independent research. A Sampler is a pure function
// of its random source and holds no other mutable state.
type Sampler struct {
	nFacts int
	beta   distuv.Beta
}

// NewSampler creates a sampler over the fact space [0, nFacts).
// The source is shared with the rest of the run so a single seed fixes the
// whole random sequence.
func NewSampler(nFacts int, src rand.Source) (*Sampler, error) {
	if nFacts < 1 {
		return nil, fmt.Errorf("fact space must have at least one fact, got %d", nFacts)
	}
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	return &Sampler{
		nFacts: nFacts,
		beta: distuv.Beta{
			Alpha: constants.BetaAlpha,
			Beta:  constants.BetaBeta,
			Src:   src,
		},
	}, nil
}

// Sample returns one fact identifier in [0, nFacts).
func (s *Sampler) Sample() int {
	id := int(s.beta.Rand() * float64(s.nFacts))
	// Rand is in [0,1) but guard the scaled edge anyway.
	if id >= s.nFacts {
		id = s.nFacts - 1
	}
	if id < 0 {
		id = 0
	}
	return id
}

// NFacts returns the size of the fact space.
func (s *Sampler) NFacts() int {
	return s.nFacts
}

// Frequencies returns the expected sampling probability of each fact,
// computed from the Beta CDF over each fact's bin. The result sums to 1
// and is used by reporting to show how skewed the fact space is.
func (s *Sampler) Frequencies() []float64 {
	freqs := make([]float64, s.nFacts)
	width := 1.0 / float64(s.nFacts)
	prev := 0.0
	for i := 0; i < s.nFacts; i++ {
		upper := s.beta.CDF(float64(i+1) * width)
		freqs[i] = upper - prev
		prev = upper
	}
	return freqs
}
