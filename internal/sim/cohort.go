// Package sim implements the agent simulation engine: a sequential,
// deterministic discrete-tick model of agents that acquire facts through
// independent research, peer queries and a shared knowledge store, while
// losing facts to forgetting. One run is fully reproducible from its seed.
package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/knowsim/internal/factspace"
)

// Config describes one cohort. All validation happens at construction; a
// cohort that constructs successfully never fails mid-run.
type Config struct {
	// Agents is the population size.
	Agents int

	// Facts is the fact-space size; fact ids live in [0, Facts).
	Facts int

	// Policy is applied uniformly to every agent in the cohort.
	Policy Policy

	// Seed fixes the run's random sequence. Ignored when Source is set.
	Seed uint64

	// Source optionally supplies the random source directly. The sampler and
	// the scheduler share it, so one source fixes the whole run.
	Source rand.Source

	// Shared optionally wires this cohort to an existing knowledge base.
	// Cohorts passing the same instance model one shared organization.
	// When nil the cohort gets a private store.
	Shared *KnowledgeBase

	// OnTick, when non-nil, is invoked after each completed tick with that
	// tick's statistics. Use it for tracing; it must not mutate the cohort.
	OnTick func(TickStats)
}

// Cohort owns a fixed agent population, their shared knowledge base and the
// run's random stream. Agents reference each other only by index through the
// cohort, never by captured object identity.
type Cohort struct {
	agents  []*Agent
	kb      *KnowledgeBase
	sampler *factspace.Sampler
	rng     *rand.Rand
	onTick  func(TickStats)
}

// NewCohort builds a cohort of identically configured agents, each starting
// with empty knowledge and a freshly sampled search target.
func NewCohort(cfg Config) (*Cohort, error) {
	if cfg.Agents < 1 {
		return nil, fmt.Errorf("cohort needs at least one agent, got %d", cfg.Agents)
	}
	if cfg.Facts < 1 {
		return nil, fmt.Errorf("fact space must have at least one fact, got %d", cfg.Facts)
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	src := cfg.Source
	if src == nil {
		src = rand.NewPCG(cfg.Seed, cfg.Seed)
	}

	sampler, err := factspace.NewSampler(cfg.Facts, src)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	kb := cfg.Shared
	if kb == nil {
		kb = NewKnowledgeBase()
	}

	c := &Cohort{
		agents:  make([]*Agent, cfg.Agents),
		kb:      kb,
		sampler: sampler,
		rng:     rand.New(src),
		onTick:  cfg.OnTick,
	}
	for i := range c.agents {
		c.agents[i] = &Agent{
			policy: cfg.Policy,
			known:  NewFactSet(),
			target: sampler.Sample(),
		}
	}
	return c, nil
}

// Size returns the cohort's population size.
func (c *Cohort) Size() int {
	return len(c.agents)
}

// Agent returns the agent at the given index. Used for scenario setup and
// inspection; the scheduler itself works through indices.
func (c *Cohort) Agent(i int) *Agent {
	return c.agents[i]
}

// Knowledge returns the cohort's shared knowledge base.
func (c *Cohort) Knowledge() *KnowledgeBase {
	return c.kb
}

// FactSpace returns the size of the cohort's fact space.
func (c *Cohort) FactSpace() int {
	return c.sampler.NFacts()
}
