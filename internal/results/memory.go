package results

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore implements ResultStore for testing and one-shot CLI runs
// that never touch disk.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewInMemoryStore creates a new in-memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		runs: make(map[string]Run),
	}
}

// SaveRun stores a run, assigning an ID and timestamp when missing.
func (s *InMemoryStore) SaveRun(ctx context.Context, run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = newRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	// Copy the series so later caller mutations don't leak into the store.
	rates := make([]float64, len(run.Rates))
	copy(rates, run.Rates)
	run.Rates = rates

	s.runs[run.ID] = run
	return run.ID, nil
}

// GetRun retrieves a run by ID. Returns nil if not found.
func (s *InMemoryStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

// ListRuns returns all stored runs, newest first.
func (s *InMemoryStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
