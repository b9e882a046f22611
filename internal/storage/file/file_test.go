package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expenses.json")
	s := New(path)

	got, err := s.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("missing file should load empty: %v err=%v", got, err)
	}

	recs := []core.Record{
		{ID: 1704067200000, Description: "Bus", Category: core.Transport, Amount: 5000, Date: core.NewDate(2024, 1, 1), Flagged: true},
		{ID: 1704067200001, Description: "Clinic", Category: core.Health, Amount: 130000, Date: core.NewDate(2024, 1, 2)},
	}
	if err := s.Save(ctx, recs); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Fatalf("record %d changed on round trip: %+v != %+v", i, got[i], recs[i])
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// amount must be stored as a number, date as YYYY-MM-DD
	for _, want := range []string{`"amount": 130000`, `"date": "2024-01-02"`, `"category": "HEALTH"`, `"flagged": true`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("file missing %s:\n%s", want, raw)
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFileStoreEmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := New(empty).Load(ctx); err != nil || len(got) != 0 {
		t.Fatalf("empty file should load empty: %v err=%v", got, err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(corrupt).Load(ctx); err == nil {
		t.Fatalf("expected decode error")
	}

	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version": 99, "records": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(future).Load(ctx); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestFileStoreSaveNil(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.json")
	s := New(path)
	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"records": []`) {
		t.Fatalf("nil list should encode as empty array:\n%s", raw)
	}
}

func TestNewDefaultPath(t *testing.T) {
	if New("").Path() != DefaultPath {
		t.Fatalf("expected default path")
	}
}
