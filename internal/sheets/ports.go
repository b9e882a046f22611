package sheets

import (
	"context"
	"time"

	"ledger/internal/core"
)

// ReportExport is one generated report handed to a spreadsheet.
type ReportExport struct {
	ID          string
	GeneratedAt time.Time
	Report      core.Report
	Total       int64
}

// Ports for outbound adapters.
type (
	ReportWriter interface {
		// AppendReport writes the report below existing rows and returns a
		// reference to the written range.
		AppendReport(ctx context.Context, export ReportExport) (rangeRef string, err error)
	}
)

// Rows lays out an export as spreadsheet rows: one per category line,
// followed by a total row.
func Rows(export ReportExport) [][]any {
	stamp := export.GeneratedAt.UTC().Format(time.RFC3339)
	rows := make([][]any, 0, len(export.Report.Lines)+1)
	for _, l := range export.Report.Lines {
		rows = append(rows, []any{
			stamp,
			export.ID,
			string(l.Category),
			l.Total,
			l.Budget,
			l.Remaining,
			string(l.Status),
		})
	}
	rows = append(rows, []any{stamp, export.ID, "TOTAL", export.Total, "", "", ""})
	return rows
}
