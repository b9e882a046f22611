package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// Store keeps the saved list in memory. It backs the memory data backend and
// stands in for real persistence in tests.
type Store struct {
	mu      sync.Mutex
	items   []core.Record
	saves   int
	failErr error
}

var _ storage.Persister = (*Store)(nil)

func New(seed ...core.Record) *Store {
	return &Store{items: cloneRecords(seed)}
}

// Load returns a copy of the saved records.
func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.items), nil
}

// Save replaces the saved records with a copy of records.
func (s *Store) Save(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.items = cloneRecords(records)
	s.saves++
	return nil
}

// Saves returns how many successful saves were made.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// FailWith makes every following Save return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func cloneRecords(in []core.Record) []core.Record {
	out := make([]core.Record, len(in))
	copy(out, in)
	return out
}
