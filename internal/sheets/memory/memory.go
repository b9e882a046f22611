package memory

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/sheets"
)

// Writer collects exported reports in memory. It stands in for Google Sheets
// in tests and when the worker runs without credentials.
type Writer struct {
	mu      sync.Mutex
	exports []sheets.ReportExport
	rows    int
	failErr error
}

var _ sheets.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// AppendReport stores the export and returns a synthetic row range.
func (w *Writer) AppendReport(_ context.Context, export sheets.ReportExport) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failErr != nil {
		return "", w.failErr
	}
	n := len(sheets.Rows(export))
	first := w.rows + 1
	w.rows += n
	w.exports = append(w.exports, export)
	return fmt.Sprintf("mem!A%d:G%d", first, w.rows), nil
}

// Exports returns the stored exports in write order.
func (w *Writer) Exports() []sheets.ReportExport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]sheets.ReportExport(nil), w.exports...)
}

// FailWith makes every following append return err. Pass nil to recover.
func (w *Writer) FailWith(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failErr = err
}
