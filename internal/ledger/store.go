package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// DefaultSyncTimeout bounds a single persistence save.
const DefaultSyncTimeout = 5 * time.Second

// Options tune a Store. The zero value is usable.
type Options struct {
	// SyncTimeout bounds each Save call on the persister.
	SyncTimeout time.Duration
	// Now is the clock used to derive record ids.
	Now func() time.Time
}

// Store is the authoritative list of expense records.
type Store struct {
	mu      sync.Mutex
	records []core.Record
	ids     *idGenerator
	syncer  *syncer
}

// Open loads the persisted records once and starts the background syncer.
func Open(ctx context.Context, p storage.Persister, opts Options) (*Store, error) {
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = DefaultSyncTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	seen := make(map[int64]struct{}, len(loaded))
	var maxID int64
	for i, r := range loaded {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("load records: record %d (position %d): %w", r.ID, i, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("load records: duplicate id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	s := &Store{
		records: cloneRecords(loaded),
		ids:     &idGenerator{now: opts.Now, last: maxID},
		syncer:  newSyncer(p, opts.SyncTimeout),
	}
	go s.syncer.run()
	return s, nil
}

// Add validates the draft and appends a new unflagged record.
func (s *Store) Add(d core.Draft) (core.Record, error) {
	rec, err := d.Build()
	if err != nil {
		return core.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.ids.next()
	rec.Flagged = false
	s.records = append(s.records, rec)
	s.publishLocked()
	return rec, nil
}

// Update replaces the patched fields of record id. ID and Flagged never change here.
func (s *Store) Update(id int64, p core.Patch) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return core.Record{}, &core.NotFoundError{ID: id}
	}
	updated, err := p.Apply(s.records[i])
	if err != nil {
		return core.Record{}, err
	}
	s.records[i] = updated
	s.publishLocked()
	return updated, nil
}

// Remove deletes record id unconditionally.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	s.publishLocked()
	return nil
}

// ToggleFlag flips the report flag of record id.
func (s *Store) ToggleFlag(id int64) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return core.Record{}, &core.NotFoundError{ID: id}
	}
	s.records[i].Flagged = !s.records[i].Flagged
	s.publishLocked()
	return s.records[i], nil
}

// Get returns a copy of record id.
func (s *Store) Get(id int64) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return core.Record{}, &core.NotFoundError{ID: id}
	}
	return s.records[i], nil
}

// List returns a snapshot of all records in insertion order.
func (s *Store) List() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Flush blocks until every mutation made so far has been handed to the
// persister, and returns the outcome of the latest save.
func (s *Store) Flush(ctx context.Context) error {
	return s.syncer.flush(ctx)
}

// Close flushes pending saves and stops the syncer. Mutations after Close
// are kept in memory only.
func (s *Store) Close(ctx context.Context) error {
	err := s.syncer.flush(ctx)
	s.syncer.close()
	return err
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// publishLocked must run under s.mu so snapshots reach the syncer in mutation order.
func (s *Store) publishLocked() {
	s.syncer.enqueue(cloneRecords(s.records))
}

func cloneRecords(in []core.Record) []core.Record {
	out := make([]core.Record, len(in))
	copy(out, in)
	return out
}
