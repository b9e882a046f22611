package storage

import (
	"context"

	"ledger/internal/core"
)

// Ports for the persistence collaborator.
type (
	// Loader returns the saved records in order, or an empty slice on first run.
	Loader interface {
		Load(ctx context.Context) ([]core.Record, error)
	}

	// Saver replaces the saved records with the full current list.
	Saver interface {
		Save(ctx context.Context, records []core.Record) error
	}

	Persister interface {
		Loader
		Saver
	}
)
