package sim

import (
	"math/rand/v2"
	"sort"
)

// FactSet is a set of fact identifiers supporting O(1) membership, O(1)
// insert and O(1) removal of a uniformly random element. The slice+index
// layout exists because random removal over a plain map would depend on Go's
// map iteration order and break run reproducibility.
type FactSet struct {
	ids []int
	pos map[int]int
}

// NewFactSet creates an empty fact set, optionally seeded with facts.
func NewFactSet(seed ...int) *FactSet {
	s := &FactSet{pos: make(map[int]int)}
	for _, f := range seed {
		s.Add(f)
	}
	return s
}

// Contains reports whether the set holds the fact.
func (s *FactSet) Contains(fact int) bool {
	_, ok := s.pos[fact]
	return ok
}

// Add inserts the fact. Adding a fact already present is a no-op.
func (s *FactSet) Add(fact int) {
	if _, ok := s.pos[fact]; ok {
		return
	}
	s.pos[fact] = len(s.ids)
	s.ids = append(s.ids, fact)
}

// Remove deletes the fact if present using swap-removal.
func (s *FactSet) Remove(fact int) {
	p, ok := s.pos[fact]
	if !ok {
		return
	}
	last := len(s.ids) - 1
	s.ids[p] = s.ids[last]
	s.pos[s.ids[p]] = p
	s.ids = s.ids[:last]
	delete(s.pos, fact)
}

// RemoveRandom deletes one uniformly chosen fact and returns it.
// The second return is false when the set is empty.
func (s *FactSet) RemoveRandom(rng *rand.Rand) (int, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	fact := s.ids[rng.IntN(len(s.ids))]
	s.Remove(fact)
	return fact, true
}

// Random returns one uniformly chosen fact without removing it.
// The second return is false when the set is empty.
func (s *FactSet) Random(rng *rand.Rand) (int, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	return s.ids[rng.IntN(len(s.ids))], true
}

// Len returns the number of facts in the set.
func (s *FactSet) Len() int {
	return len(s.ids)
}

// Facts returns a sorted snapshot of the set's contents.
func (s *FactSet) Facts() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	sort.Ints(out)
	return out
}

// KnowledgeBase is the shared knowledge store visible to a whole cohort.
// It grows monotonically: facts are added with Add and never evicted.
// Membership adds are idempotent, so repeated writes of the same fact are
// harmless. Access within a run is single-threaded by the scheduler; the
// store carries no locking of its own.
type KnowledgeBase struct {
	facts *FactSet
}

// NewKnowledgeBase creates an empty shared store. Cohorts that pass the same
// instance model one shared organization; distinct instances are isolated.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{facts: NewFactSet()}
}

// Contains reports whether the store holds the fact.
func (kb *KnowledgeBase) Contains(fact int) bool {
	return kb.facts.Contains(fact)
}

// Add inserts the fact into the store.
func (kb *KnowledgeBase) Add(fact int) {
	kb.facts.Add(fact)
}

// Len returns the number of stored facts.
func (kb *KnowledgeBase) Len() int {
	return kb.facts.Len()
}

// Facts returns a sorted snapshot of the store's contents.
func (kb *KnowledgeBase) Facts() []int {
	return kb.facts.Facts()
}
