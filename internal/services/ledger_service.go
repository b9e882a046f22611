package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/sheets"
)

var (
	// ErrExportDisabled is returned when neither a broker nor a sheet is configured.
	ErrExportDisabled = errors.New("report export is not configured")
	// ErrNothingFlagged is returned when exporting a report with no lines.
	ErrNothingFlagged = errors.New("no flagged expenses to export")
)

// RecordStore is the ledger surface the service drives.
type RecordStore interface {
	Add(d core.Draft) (core.Record, error)
	Update(id int64, p core.Patch) (core.Record, error)
	Remove(id int64) error
	ToggleFlag(id int64) (core.Record, error)
	Get(id int64) (core.Record, error)
	List() []core.Record
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// ReportPublisher queues a report for asynchronous export.
type ReportPublisher interface {
	PublishReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error
	Close() error
}

type Options struct {
	Budgets   core.BudgetTable
	Publisher ReportPublisher
	Writer    sheets.ReportWriter
	Logger    *log.Logger
	Now       func() time.Time
}

// ExportResult describes where a report went.
type ExportResult struct {
	ID          string `json:"id"`
	Destination string `json:"destination"`
	Ref         string `json:"ref,omitempty"`
}

// LedgerService orchestrates ledger operations for the CLI and the HTTP API.
type LedgerService struct {
	store     RecordStore
	reporter  *ledger.Reporter
	publisher ReportPublisher
	writer    sheets.ReportWriter
	logger    *log.StructuredLogger
	now       func() time.Time
}

func NewLedgerService(store RecordStore, opts Options) *LedgerService {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		store:     store,
		reporter:  ledger.NewReporter(store, opts.Budgets),
		publisher: opts.Publisher,
		writer:    opts.Writer,
		logger:    log.NewStructuredLogger(logger.WithComponent(log.ComponentLedger)),
		now:       now,
	}
}

func (s *LedgerService) Add(ctx context.Context, d core.Draft) (core.Record, error) {
	rec, err := s.store.Add(d)
	if err != nil {
		return core.Record{}, fmt.Errorf("add record: %w", err)
	}
	s.logChange(ctx, log.OpCreate, rec)
	return rec, nil
}

func (s *LedgerService) Update(ctx context.Context, id int64, p core.Patch) (core.Record, error) {
	rec, err := s.store.Update(id, p)
	if err != nil {
		return core.Record{}, fmt.Errorf("update record: %w", err)
	}
	s.logChange(ctx, log.OpUpdate, rec)
	return rec, nil
}

func (s *LedgerService) Remove(ctx context.Context, id int64) error {
	if err := s.store.Remove(id); err != nil {
		return fmt.Errorf("remove record: %w", err)
	}
	slog.InfoContext(ctx, "Ledger record removed", log.FieldRecordID, id, log.FieldOperation, log.OpDelete)
	return nil
}

func (s *LedgerService) ToggleFlag(ctx context.Context, id int64) (core.Record, error) {
	rec, err := s.store.ToggleFlag(id)
	if err != nil {
		return core.Record{}, fmt.Errorf("toggle flag: %w", err)
	}
	s.logChange(ctx, log.OpToggle, rec)
	return rec, nil
}

func (s *LedgerService) Get(_ context.Context, id int64) (core.Record, error) {
	return s.store.Get(id)
}

func (s *LedgerService) List(_ context.Context) []core.Record {
	return s.store.List()
}

// Report returns the budget report and the flagged total, both computed from
// the same snapshot.
func (s *LedgerService) Report(ctx context.Context) (core.Report, int64) {
	records := s.store.List()
	report, total := ledger.Summarize(records, s.budgets()), ledger.TotalFlagged(records)
	slog.DebugContext(ctx, "Budget report generated",
		log.FieldOperation, log.OpReport,
		log.FieldRecords, len(records),
		"lines", len(report.Lines),
		"total", total)
	return report, total
}

func (s *LedgerService) TotalFlagged(_ context.Context) int64 {
	return s.reporter.TotalFlagged()
}

// ExportReport generates the report and sends it to the broker, or straight
// to the sheet when no broker is configured.
func (s *LedgerService) ExportReport(ctx context.Context) (ExportResult, error) {
	if s.publisher == nil && s.writer == nil {
		return ExportResult{}, ErrExportDisabled
	}

	report, total := s.Report(ctx)
	if report.IsEmpty() {
		return ExportResult{}, ErrNothingFlagged
	}
	msg := amqp.NewReportExportMessage(report, total, s.now())

	if s.publisher != nil {
		if err := s.publisher.PublishReportExport(ctx, msg); err != nil {
			s.logger.LogError(ctx, "Report export failed", err, log.OpExport, log.NewFields().WithComponent(log.ComponentAMQP))
			return ExportResult{}, fmt.Errorf("publish report: %w", err)
		}
		return ExportResult{ID: msg.ID, Destination: "amqp"}, nil
	}

	ref, err := s.writer.AppendReport(ctx, sheets.ReportExport{
		ID:          msg.ID,
		GeneratedAt: msg.GeneratedAt,
		Report:      report,
		Total:       total,
	})
	if err != nil {
		s.logger.LogError(ctx, "Report export failed", err, log.OpExport, log.NewFields().WithComponent(log.ComponentSheets))
		return ExportResult{}, fmt.Errorf("write report: %w", err)
	}
	return ExportResult{ID: msg.ID, Destination: "sheets", Ref: ref}, nil
}

// Flush waits for pending persistence.
func (s *LedgerService) Flush(ctx context.Context) error {
	return s.store.Flush(ctx)
}

// Close flushes and closes the store, then the publisher.
func (s *LedgerService) Close(ctx context.Context) error {
	var errs []error

	if err := s.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}

func (s *LedgerService) budgets() core.BudgetTable {
	return s.reporter.Budgets()
}

func (s *LedgerService) logChange(ctx context.Context, op string, rec core.Record) {
	s.logger.LogRecordChanged(ctx, op, rec.ID, rec.Description, string(rec.Category), rec.Amount, rec.Flagged)
}
