// Package backend builds the persistence collaborator and the optional report
// export targets from configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/log"
	"ledger/internal/sheets"
	gsheet "ledger/internal/sheets/google"
	"ledger/internal/storage"
	"ledger/internal/storage/file"
	"ledger/internal/storage/memory"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result carries the persister and its cleanup.
type Result struct {
	Persister storage.Persister
	Cleanup   CleanupFunc
}

// Exporters are the configured report export targets. Either may be nil.
type Exporters struct {
	Publisher *amqp.Client
	Writer    sheets.ReportWriter
}

// Close releases the broker connection, if any.
func (e *Exporters) Close() error {
	if e == nil || e.Publisher == nil {
		return nil
	}
	return e.Publisher.Close()
}

// Factory creates backends based on configuration
type Factory interface {
	CreatePersister(ctx context.Context, config Config) (*Result, error)
	CreateExporters(ctx context.Context, config Config) (*Exporters, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger

	// dialAMQP and newSheets are swapped in tests.
	dialAMQP  func(url, exchange, queue string) (*amqp.Client, error)
	newSheets func(ctx context.Context, opts gsheet.Options) (sheets.ReportWriter, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &DefaultFactory{
		logger:   logger.WithComponent(log.ComponentBackend),
		dialAMQP: amqp.NewClient,
		newSheets: func(ctx context.Context, opts gsheet.Options) (sheets.ReportWriter, error) {
			return gsheet.New(ctx, opts)
		},
	}
}

// CreatePersister implements Factory.CreatePersister
func (f *DefaultFactory) CreatePersister(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Warn("Using memory backend, records are lost on exit")
		return &Result{Persister: memory.New()}, nil
	case FileBackend:
		f.logger.Info("Initialized file backend", "path", config.FilePath)
		return &Result{Persister: file.New(config.FilePath)}, nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Persister: repo, Cleanup: repo.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreateExporters connects the optional export targets. A broker that cannot
// be reached is logged and skipped; a misconfigured sheet client is an error.
func (f *DefaultFactory) CreateExporters(ctx context.Context, config Config) (*Exporters, error) {
	out := &Exporters{}

	if config.AMQPURL != "" {
		client, err := f.dialAMQP(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without broker", log.FieldError, err)
		} else {
			out.Publisher = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	if config.Sheets.SpreadsheetID != "" {
		writer, err := f.newSheets(ctx, config.Sheets)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to initialize Google Sheets client: %w", err), out.Close())
		}
		out.Writer = writer
		f.logger.Info("Initialized Google Sheets writer", "sheet", config.Sheets.SheetName)
	}

	return out, nil
}
