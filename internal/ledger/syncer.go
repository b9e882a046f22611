package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// syncer writes snapshots on a single goroutine. Only the newest pending
// snapshot is kept, so an older snapshot is never written after a newer one.
type syncer struct {
	saver   storage.Saver
	timeout time.Duration

	mu        sync.Mutex
	pending   []core.Record
	queued    uint64 // sequence of the newest enqueued snapshot
	saved     uint64 // sequence of the newest snapshot handed to the saver
	lastErr   error
	progress  chan struct{} // closed and replaced after every save
	closed    bool
	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSyncer(saver storage.Saver, timeout time.Duration) *syncer {
	return &syncer{
		saver:    saver,
		timeout:  timeout,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *syncer) enqueue(snapshot []core.Record) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		slog.Warn("Ledger closed, mutation not persisted",
			log.FieldComponent, log.ComponentStorage, log.FieldRecords, len(snapshot))
		return
	}
	s.queued++
	s.pending = snapshot
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *syncer) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stop:
			s.drain()
			return
		}
	}
}

func (s *syncer) drain() {
	for {
		s.mu.Lock()
		if s.saved == s.queued {
			s.mu.Unlock()
			return
		}
		snapshot, seq := s.pending, s.queued
		s.pending = nil
		s.mu.Unlock()

		err := s.save(snapshot)

		s.mu.Lock()
		s.saved = seq
		s.lastErr = err
		close(s.progress)
		s.progress = make(chan struct{})
		s.mu.Unlock()
	}
}

func (s *syncer) save(snapshot []core.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.saver.Save(ctx, snapshot); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger",
			log.FieldComponent, log.ComponentStorage, log.FieldError, err, log.FieldRecords, len(snapshot))
		return err
	}
	slog.DebugContext(ctx, "Ledger persisted", log.FieldComponent, log.ComponentStorage, log.FieldRecords, len(snapshot))
	return nil
}

func (s *syncer) flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.queued
	for s.saved < target {
		if s.closed {
			break
		}
		ch := s.progress
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}
	err := s.lastErr
	s.mu.Unlock()
	return err
}

func (s *syncer) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.stop)
		<-s.done
	})
}
