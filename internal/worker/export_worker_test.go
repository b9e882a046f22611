package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/sheets/memory"
)

func message() *amqp.ReportExportMessage {
	report := core.Report{Lines: []core.ReportLine{
		{Category: core.Health, Total: 130000, Budget: 120000, Remaining: -10000, Status: core.StatusExceeded},
	}}
	return amqp.NewReportExportMessage(report, 130000, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
}

func TestHandleReportExport(t *testing.T) {
	writer := memory.New()
	w := NewExportWorker(writer)

	if err := w.HandleReportExport(context.Background(), message()); err != nil {
		t.Fatalf("HandleReportExport() error = %v", err)
	}
	exports := writer.Exports()
	if len(exports) != 1 {
		t.Fatalf("expected 1 export, got %d", len(exports))
	}
	if exports[0].Total != 130000 || exports[0].Report.Lines[0].Category != core.Health {
		t.Errorf("unexpected export %+v", exports[0])
	}
}

func TestHandleReportExport_LogsSheetReference(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	if err := NewExportWorker(memory.New()).HandleReportExport(context.Background(), message()); err != nil {
		t.Fatalf("HandleReportExport() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{log.FieldSheetsRef + "=", log.FieldOperation + "=" + log.OpAppend} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestHandleReportExport_WriteError(t *testing.T) {
	writer := memory.New()
	writer.FailWith(errors.New("quota exceeded"))
	w := NewExportWorker(writer)

	msg := message()
	err := w.HandleReportExport(context.Background(), msg)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") || !strings.Contains(err.Error(), msg.ID) {
		t.Fatalf("unexpected error %v", err)
	}
}

type fakeConsumer struct {
	msgs []*amqp.ReportExportMessage
	errs []error
}

func (f *fakeConsumer) ConsumeReportExports(ctx context.Context, handler func(context.Context, *amqp.ReportExportMessage) error) error {
	for _, m := range f.msgs {
		f.errs = append(f.errs, handler(ctx, m))
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRun(t *testing.T) {
	writer := memory.New()
	w := NewExportWorker(writer)
	consumer := &fakeConsumer{msgs: []*amqp.ReportExportMessage{message(), message()}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx, consumer); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v", err)
	}
	if got := len(writer.Exports()); got != 2 {
		t.Fatalf("expected 2 exports, got %d", got)
	}
	for _, err := range consumer.errs {
		if err != nil {
			t.Fatalf("handler error %v", err)
		}
	}
}
