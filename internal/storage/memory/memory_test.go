package memory

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New()
	got, err := s.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("unexpected initial load: %v err=%v", got, err)
	}

	recs := []core.Record{
		{ID: 1, Description: "Bus", Category: core.Transport, Amount: 5000, Date: core.NewDate(2024, 1, 1)},
		{ID: 2, Description: "Clinic", Category: core.Health, Amount: 130000, Date: core.NewDate(2024, 1, 2), Flagged: true},
	}
	if err := s.Save(ctx, recs); err != nil {
		t.Fatalf("save: %v", err)
	}
	recs[0].Description = "mutated"

	got, _ = s.Load(ctx)
	if len(got) != 2 || got[0].Description != "Bus" || !got[1].Flagged {
		t.Fatalf("unexpected load: %+v", got)
	}
	got[1].Amount = 0
	again, _ := s.Load(ctx)
	if again[1].Amount != 130000 {
		t.Fatalf("load must return a copy")
	}
	if s.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves())
	}
}

func TestMemoryStoreFailure(t *testing.T) {
	ctx := context.Background()
	s := New(core.Record{ID: 9, Description: "seed", Category: core.Common, Amount: 1, Date: core.NewDate(2024, 1, 1)})
	boom := errors.New("disk full")
	s.FailWith(boom)
	if err := s.Save(ctx, nil); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	got, _ := s.Load(ctx)
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("failed save must not change contents: %+v", got)
	}
	s.FailWith(nil)
	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}
