// Package file persists the ledger as one JSON document in a single local slot.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// DefaultPath is the slot used when no path is configured.
const DefaultPath = "./data/expenses.json"

const formatVersion = 1

type document struct {
	Version int           `json:"version"`
	Records []core.Record `json:"records"`
}

type Store struct {
	path string
}

var _ storage.Persister = (*Store)(nil)

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the slot. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file not found, starting empty", "path", s.path)
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	if len(b) == 0 {
		return []core.Record{}, nil
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger file %s: %w", s.path, err)
	}
	if doc.Version > formatVersion {
		return nil, fmt.Errorf("ledger file %s has unsupported version %d", s.path, doc.Version)
	}
	if doc.Records == nil {
		doc.Records = []core.Record{}
	}
	return doc.Records, nil
}

// Save writes the whole list to a temp file and renames it over the slot.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []core.Record{}
	}
	b, err := json.MarshalIndent(document{Version: formatVersion, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".expenses-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	slog.DebugContext(ctx, "Ledger file saved", "path", s.path, "count", len(records))
	return nil
}
