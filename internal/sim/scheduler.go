package sim

// TickStats summarizes one completed tick.
type TickStats struct {
	Tick      int     // zero-based tick number
	Successes int     // agents whose target became known this tick
	Rate      float64 // Successes / population size
	StoreSize int     // shared knowledge base size at tick end
}

// Tick runs one full simulation step and returns the number of agents whose
// search completed. The step has two strictly ordered phases:
//
//  1. Action phase. A fresh free-resource pool holds every agent index. The
//     scheduler walks indices in ascending order; an index still in the pool
//     is consumed and that agent acts. An agent consumed earlier as a queried
//     colleague is skipped — it does not act this tick.
//  2. Completion phase. Every agent, whether it acted or not, checks its
//     target against its knowledge. A hit counts one success and the agent
//     immediately re-targets, staying in its seeking state.
//
// Facts only move during the action phase; the completion check detects the
// resulting state, it never grants facts itself.
func (c *Cohort) Tick(tick int) TickStats {
	pool := NewPool(len(c.agents), c.rng)

	for i := range c.agents {
		if !pool.Take(i) {
			continue
		}
		c.act(i, pool)
	}

	successes := 0
	for _, a := range c.agents {
		if a.known.Contains(a.target) {
			successes++
			a.target = c.sampler.Sample()
		}
	}

	stats := TickStats{
		Tick:      tick,
		Successes: successes,
		Rate:      float64(successes) / float64(len(c.agents)),
		StoreSize: c.kb.Len(),
	}
	if c.onTick != nil {
		c.onTick(stats)
	}
	return stats
}

// act executes one agent's turn: the independent forget draw, then exactly
// one action selected by a single draw against cumulative thresholds. Guards
// fall through to the next priority; independent research always remains as
// the fallback, so an action is always taken.
func (c *Cohort) act(i int, pool *Pool) {
	a := c.agents[i]
	p := a.policy

	// Forgetting happens every tick, independent of the chosen action.
	if a.known.Len() > 0 && c.rng.Float64() < p.ForgetRate {
		a.known.RemoveRandom(c.rng)
	}

	r := c.rng.Float64()
	askMax := p.SocialiseRate
	queryMax := askMax + p.QueryRate
	writeMax := queryMax + p.WriteRate

	switch {
	case r < askMax && pool.Len() > 0:
		c.askColleague(a, pool)
	case r < queryMax:
		c.queryStore(a)
	case r < writeMax && a.known.Len() > 0:
		c.writeStore(a)
	default:
		c.research(a)
	}
}

// askColleague consumes one uniformly chosen free colleague's turn for the
// rest of the tick. If that colleague knows this agent's target the fact
// transfers; the colleague's own state is untouched either way.
func (c *Cohort) askColleague(a *Agent, pool *Pool) {
	j, ok := pool.TakeRandom(c.rng)
	if !ok {
		// Unreachable: the action guard requires a non-empty pool.
		return
	}
	if c.agents[j].known.Contains(a.target) {
		a.known.Add(a.target)
	}
}

// queryStore reads the shared store. Re-learning an already known target is
// an idempotent no-op.
func (c *Cohort) queryStore(a *Agent) {
	if c.kb.Contains(a.target) {
		a.known.Add(a.target)
	}
}

// writeStore contributes one uniformly chosen known fact to the shared
// store. The write lands with the policy's contribution-success probability;
// a failed write is silently dropped, with no retry until the next tick's
// fresh draw.
func (c *Cohort) writeStore(a *Agent) {
	fact, ok := a.known.Random(c.rng)
	if !ok {
		// Unreachable: the action guard requires non-empty knowledge.
		return
	}
	if c.rng.Float64() < a.policy.ContributionSuccess {
		c.kb.Add(fact)
	}
}

// research draws one fact from the skewed distribution and learns it,
// whether or not it matches the current target.
func (c *Cohort) research(a *Agent) {
	a.known.Add(c.sampler.Sample())
}
