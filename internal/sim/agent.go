package sim

import (
	"fmt"

	"github.com/nvandessel/knowsim/internal/constants"
)

// Policy holds the per-agent behavior rates. A single Agent type composed
// with a Policy replaces any hierarchy of researcher variants: a rate of 0
// disables the corresponding capability outright.
type Policy struct {
	// ForgetRate is the per-tick probability of losing one known fact.
	// Forgetting is drawn independently of the action choice, every tick.
	ForgetRate float64 `json:"forget_rate"`

	// SocialiseRate is the probability threshold for asking a free colleague.
	SocialiseRate float64 `json:"socialise_rate"`

	// QueryRate is the probability threshold for reading the shared store.
	QueryRate float64 `json:"database_query_rate"`

	// WriteRate is the probability threshold for writing to the shared store.
	WriteRate float64 `json:"database_write_rate"`

	// ContributionSuccess is the probability that a shared-store write lands.
	// Failed writes are silent no-ops.
	ContributionSuccess float64 `json:"contribution_success_rate"`
}

// DefaultPolicy returns the default cooperative policy.
func DefaultPolicy() Policy {
	return Policy{
		ForgetRate:          constants.DefaultForgetRate,
		SocialiseRate:       constants.DefaultSocialiseRate,
		QueryRate:           constants.DefaultQueryRate,
		WriteRate:           constants.DefaultWriteRate,
		ContributionSuccess: constants.DefaultContributionSuccessRate,
	}
}

// Validate checks the policy rates. Every rate must be a probability, and
// the three action thresholds must sum to strictly less than 1 so that
// independent research, the fallback action, stays reachable. A sum of 1 or
// more would deterministically starve an action category, so construction
// fails fast instead of starting a doomed run.
func (p Policy) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"forget_rate", p.ForgetRate},
		{"socialise_rate", p.SocialiseRate},
		{"database_query_rate", p.QueryRate},
		{"database_write_rate", p.WriteRate},
		{"contribution_success_rate", p.ContributionSuccess},
	} {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be in [0,1], got %f", r.name, r.value)
		}
	}
	if sum := p.SocialiseRate + p.QueryRate + p.WriteRate; sum >= 1 {
		return fmt.Errorf("socialise_rate + database_query_rate + database_write_rate must be < 1, got %f", sum)
	}
	return nil
}

// Agent is one member of a cohort. It holds the facts it currently knows and
// the fact it is searching for. Seeking is the only steady state: completion
// is detected at tick end and immediately followed by a re-target, so an
// agent always has a live target.
type Agent struct {
	policy Policy
	known  *FactSet
	target int
}

// Policy returns the agent's behavior rates.
func (a *Agent) Policy() Policy {
	return a.policy
}

// Knows reports whether the agent currently possesses the fact.
func (a *Agent) Knows(fact int) bool {
	return a.known.Contains(fact)
}

// Learn adds a fact to the agent's knowledge. Learning a known fact is a no-op.
func (a *Agent) Learn(fact int) {
	a.known.Add(fact)
}

// KnownCount returns how many facts the agent holds.
func (a *Agent) KnownCount() int {
	return a.known.Len()
}

// KnownFacts returns a sorted snapshot of the agent's knowledge.
func (a *Agent) KnownFacts() []int {
	return a.known.Facts()
}

// Target returns the fact the agent is currently trying to acquire.
func (a *Agent) Target() int {
	return a.target
}

// SetTarget overrides the agent's search target. Normal runs re-target
// through the sampler at completion; this exists for scenario setup.
func (a *Agent) SetTarget(fact int) {
	a.target = fact
}
