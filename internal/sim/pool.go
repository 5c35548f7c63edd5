package sim

import "math/rand/v2"

// Pool is the per-tick free-resource pool: the set of agent indices not yet
// consumed this tick. An index leaves the pool exactly once, either when the
// scheduler gives that agent its turn or when another agent consumes it as a
// queried colleague. The pool is rebuilt at the start of every tick.
//
// Internally it keeps the live indices in a pre-shuffled slice with a
// position table, giving O(1) membership, O(1) removal and O(1) uniform
// random take without scanning.
type Pool struct {
	order []int // live indices, shuffled at construction
	pos   []int // pos[idx] = position in order, or -1 once consumed
}

// NewPool creates a pool holding all indices in [0, n), in random order.
func NewPool(n int, rng *rand.Rand) *Pool {
	p := &Pool{
		order: rng.Perm(n),
		pos:   make([]int, n),
	}
	for position, idx := range p.order {
		p.pos[idx] = position
	}
	return p
}

// Len returns how many indices remain unconsumed.
func (p *Pool) Len() int {
	return len(p.order)
}

// Contains reports whether the index is still free.
func (p *Pool) Contains(idx int) bool {
	return idx >= 0 && idx < len(p.pos) && p.pos[idx] >= 0
}

// Take removes the index from the pool. It reports false when the index was
// already consumed, which is how the scheduler skips agents that were
// queried earlier in the walk.
func (p *Pool) Take(idx int) bool {
	if !p.Contains(idx) {
		return false
	}
	p.removeAt(p.pos[idx])
	return true
}

// TakeRandom removes and returns one uniformly chosen free index.
// The second return is false when the pool is empty; callers must guard
// with Len before depending on the value.
func (p *Pool) TakeRandom(rng *rand.Rand) (int, bool) {
	if len(p.order) == 0 {
		return 0, false
	}
	position := rng.IntN(len(p.order))
	idx := p.order[position]
	p.removeAt(position)
	return idx, true
}

// removeAt swap-removes the element at the given position.
func (p *Pool) removeAt(position int) {
	idx := p.order[position]
	last := len(p.order) - 1
	p.order[position] = p.order[last]
	p.pos[p.order[position]] = position
	p.order = p.order[:last]
	p.pos[idx] = -1
}
