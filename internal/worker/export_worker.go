package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/log"
	"ledger/internal/sheets"
)

// ExportWorker appends report export messages to a spreadsheet.
type ExportWorker struct {
	sheets sheets.ReportWriter
}

func NewExportWorker(writer sheets.ReportWriter) *ExportWorker {
	return &ExportWorker{sheets: writer}
}

// HandleReportExport writes one message. A returned error requeues it.
func (w *ExportWorker) HandleReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error {
	slog.InfoContext(ctx, "Processing report export",
		"id", msg.ID,
		"lines", len(msg.Lines),
		"generated_at", msg.GeneratedAt)

	ref, err := w.sheets.AppendReport(ctx, sheets.ReportExport{
		ID:          msg.ID,
		GeneratedAt: msg.GeneratedAt,
		Report:      msg.Report(),
		Total:       msg.Total,
	})
	if err != nil {
		return fmt.Errorf("append report %s: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Report exported",
		"id", msg.ID,
		log.FieldOperation, log.OpAppend,
		log.FieldSheetsRef, ref)
	return nil
}

// Consumer is the broker side the worker runs against.
type Consumer interface {
	ConsumeReportExports(ctx context.Context, handler func(context.Context, *amqp.ReportExportMessage) error) error
}

// Run consumes until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context, consumer Consumer) error {
	return consumer.ConsumeReportExports(ctx, w.HandleReportExport)
}
