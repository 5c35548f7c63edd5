package sim

import (
	"math/rand/v2"
	"testing"
)

func mustCohort(t *testing.T, cfg Config) *Cohort {
	t.Helper()
	c, err := NewCohort(cfg)
	if err != nil {
		t.Fatalf("NewCohort: %v", err)
	}
	return c
}

func TestNewCohort_Validation(t *testing.T) {
	valid := Config{Agents: 2, Facts: 10, Policy: DefaultPolicy(), Seed: 1}

	cfg := valid
	cfg.Agents = 0
	if _, err := NewCohort(cfg); err == nil {
		t.Error("expected error for empty cohort")
	}

	cfg = valid
	cfg.Facts = 0
	if _, err := NewCohort(cfg); err == nil {
		t.Error("expected error for empty fact space")
	}

	cfg = valid
	cfg.Policy = Policy{SocialiseRate: 0.5, QueryRate: 0.3, WriteRate: 0.2}
	if _, err := NewCohort(cfg); err == nil {
		t.Error("expected error when action rates sum to 1")
	}
}

// askColleague must transfer the asker's target when the chosen colleague
// knows it, consume the colleague's pool entry, and leave the colleague's
// own state untouched.
func TestAskColleague_TransfersTarget(t *testing.T) {
	c := mustCohort(t, Config{Agents: 2, Facts: 10, Policy: Policy{SocialiseRate: 0.9}, Seed: 5})
	asker := c.Agent(0)
	colleague := c.Agent(1)

	colleague.Learn(7)
	asker.SetTarget(7)

	// A pool holding only the colleague forces the uniform pick.
	rng := rand.New(rand.NewPCG(5, 5))
	pool := NewPool(2, rng)
	pool.Take(0)

	c.askColleague(asker, pool)

	if !asker.Knows(7) {
		t.Error("asker did not receive target fact 7 from colleague")
	}
	if pool.Contains(1) {
		t.Error("colleague's pool entry not consumed by the ask")
	}
	if colleague.KnownCount() != 1 || !colleague.Knows(7) {
		t.Error("colleague state changed; asking must be read-only for the colleague")
	}
}

func TestAskColleague_ColleagueLacksTarget(t *testing.T) {
	c := mustCohort(t, Config{Agents: 2, Facts: 10, Policy: Policy{SocialiseRate: 0.9}, Seed: 6})
	asker := c.Agent(0)
	asker.SetTarget(3)

	rng := rand.New(rand.NewPCG(6, 6))
	pool := NewPool(2, rng)
	pool.Take(0)

	c.askColleague(asker, pool)

	if asker.Knows(3) {
		t.Error("asker learned a fact the colleague never had")
	}
	if pool.Contains(1) {
		t.Error("unsuccessful ask must still consume the colleague's turn")
	}
}

// Querying the store when the target is already known must stay a no-op,
// however many times it runs.
func TestQueryStore_Idempotent(t *testing.T) {
	c := mustCohort(t, Config{Agents: 1, Facts: 10, Policy: Policy{QueryRate: 0.5}, Seed: 7})
	a := c.Agent(0)

	c.Knowledge().Add(5)
	a.SetTarget(5)

	c.queryStore(a)
	if !a.Knows(5) {
		t.Fatal("query did not pull target from the store")
	}
	before := a.KnownCount()

	c.queryStore(a)
	c.queryStore(a)
	if a.KnownCount() != before {
		t.Errorf("repeated query changed knowledge: %d -> %d", before, a.KnownCount())
	}
}

func TestQueryStore_MissesAbsentTarget(t *testing.T) {
	c := mustCohort(t, Config{Agents: 1, Facts: 10, Policy: Policy{QueryRate: 0.5}, Seed: 8})
	a := c.Agent(0)
	a.SetTarget(4)

	c.queryStore(a)
	if a.Knows(4) {
		t.Error("query fabricated a fact the store never held")
	}
}

// With contribution success 0 every write attempt must fail silently and the
// shared store must stay empty for the whole run.
func TestWriteStore_ZeroContributionSuccess(t *testing.T) {
	c := mustCohort(t, Config{
		Agents: 10,
		Facts:  50,
		Policy: Policy{WriteRate: 0.8, ContributionSuccess: 0},
		Seed:   9,
	})
	for i := 0; i < c.Size(); i++ {
		c.Agent(i).Learn(i)
	}

	for tick := 0; tick < 100; tick++ {
		c.Tick(tick)
		if c.Knowledge().Len() != 0 {
			t.Fatalf("tick %d: store has %d facts despite zero contribution success", tick, c.Knowledge().Len())
		}
	}
}

func TestWriteStore_ContributesKnownFact(t *testing.T) {
	c := mustCohort(t, Config{Agents: 1, Facts: 10, Policy: Policy{WriteRate: 0.5, ContributionSuccess: 1}, Seed: 10})
	a := c.Agent(0)
	a.Learn(6)

	c.writeStore(a)
	if !c.Knowledge().Contains(6) {
		t.Error("certain write of the only known fact did not land")
	}
}

// Forgetting is drawn every tick regardless of the chosen action. With a
// forget rate of 1 a lone researcher can never hold more than one fact: each
// tick drops the previous discovery before the new one lands.
func TestForgetting_AppliesEveryTick(t *testing.T) {
	c := mustCohort(t, Config{Agents: 1, Facts: 1000, Policy: Policy{ForgetRate: 1}, Seed: 11})
	a := c.Agent(0)

	for tick := 0; tick < 50; tick++ {
		c.Tick(tick)
		if a.KnownCount() > 1 {
			t.Fatalf("tick %d: agent holds %d facts with forget rate 1", tick, a.KnownCount())
		}
	}
}

// No agent may ever hold a fact outside [0, Facts), whatever mix of actions
// runs.
func TestTick_KnownFactsStayInRange(t *testing.T) {
	const facts = 40
	c := mustCohort(t, Config{
		Agents: 25,
		Facts:  facts,
		Policy: Policy{
			ForgetRate:          0.1,
			SocialiseRate:       0.3,
			QueryRate:           0.2,
			WriteRate:           0.2,
			ContributionSuccess: 0.7,
		},
		Seed: 12,
	})

	for tick := 0; tick < 200; tick++ {
		c.Tick(tick)
		for i := 0; i < c.Size(); i++ {
			for _, f := range c.Agent(i).KnownFacts() {
				if f < 0 || f >= facts {
					t.Fatalf("tick %d: agent %d knows fact %d outside [0,%d)", tick, i, f, facts)
				}
			}
		}
		for _, f := range c.Knowledge().Facts() {
			if f < 0 || f >= facts {
				t.Fatalf("tick %d: store holds fact %d outside [0,%d)", tick, f, facts)
			}
		}
	}
}

func TestTick_StatsShape(t *testing.T) {
	c := mustCohort(t, Config{Agents: 10, Facts: 20, Policy: DefaultPolicy(), Seed: 13})

	stats := c.Tick(0)
	if stats.Tick != 0 {
		t.Errorf("stats.Tick = %d, want 0", stats.Tick)
	}
	if stats.Successes < 0 || stats.Successes > 10 {
		t.Errorf("stats.Successes = %d, outside [0,10]", stats.Successes)
	}
	if stats.Rate < 0 || stats.Rate > 1 {
		t.Errorf("stats.Rate = %f, outside [0,1]", stats.Rate)
	}
	if stats.Rate != float64(stats.Successes)/10 {
		t.Errorf("stats.Rate = %f inconsistent with %d successes", stats.Rate, stats.Successes)
	}
}

func TestTick_OnTickObserver(t *testing.T) {
	var seen []TickStats
	c := mustCohort(t, Config{
		Agents: 5,
		Facts:  10,
		Policy: DefaultPolicy(),
		Seed:   14,
		OnTick: func(s TickStats) { seen = append(seen, s) },
	})

	for tick := 0; tick < 3; tick++ {
		c.Tick(tick)
	}
	if len(seen) != 3 {
		t.Fatalf("observer fired %d times, want 3", len(seen))
	}
	for i, s := range seen {
		if s.Tick != i {
			t.Errorf("observation %d has Tick = %d", i, s.Tick)
		}
	}
}

// Cohorts constructed around the same knowledge base share it by reference.
func TestSharedKnowledgeBase(t *testing.T) {
	kb := NewKnowledgeBase()
	writer := mustCohort(t, Config{
		Agents: 10,
		Facts:  30,
		Policy: Policy{WriteRate: 0.5, ContributionSuccess: 1},
		Seed:   15,
		Shared: kb,
	})
	reader := mustCohort(t, Config{
		Agents: 5,
		Facts:  30,
		Policy: Policy{QueryRate: 0.5},
		Seed:   16,
		Shared: kb,
	})

	if writer.Knowledge() != kb || reader.Knowledge() != kb {
		t.Fatal("cohorts did not adopt the shared store instance")
	}

	for tick := 0; tick < 200; tick++ {
		writer.Tick(tick)
	}
	if kb.Len() == 0 {
		t.Error("write-heavy cohort never populated the shared store")
	}
	if reader.Knowledge().Len() != kb.Len() {
		t.Error("reader cohort sees a different store state")
	}
}
