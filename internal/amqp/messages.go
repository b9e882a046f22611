package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledger/internal/core"
)

// ReportExportMessage carries a generated report to the export worker.
// It is self-contained: the worker never reads the ledger.
type ReportExportMessage struct {
	ID          string            `json:"id"`
	Lines       []core.ReportLine `json:"lines"`
	Total       int64             `json:"total"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// NewReportExportMessage snapshots report and total at time now.
func NewReportExportMessage(report core.Report, total int64, now time.Time) *ReportExportMessage {
	lines := make([]core.ReportLine, len(report.Lines))
	copy(lines, report.Lines)
	return &ReportExportMessage{
		ID:          fmt.Sprintf("report-%d", now.UnixNano()),
		Lines:       lines,
		Total:       total,
		GeneratedAt: now.UTC(),
	}
}

// Report rebuilds the core report from the message lines.
func (m *ReportExportMessage) Report() core.Report {
	return core.Report{Lines: m.Lines}
}

// Validate rejects messages the worker cannot export.
func (m *ReportExportMessage) Validate() error {
	if m.ID == "" {
		return errors.New("missing message id")
	}
	if m.GeneratedAt.IsZero() {
		return errors.New("missing generated_at")
	}
	var sum int64
	for _, l := range m.Lines {
		if !l.Category.IsValid() {
			return fmt.Errorf("unknown category %q", l.Category)
		}
		sum += l.Total
	}
	if sum != m.Total {
		return fmt.Errorf("total %d does not match line sum %d", m.Total, sum)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportMessageFromJSON decodes and validates a message.
func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report export message: %w", err)
	}
	return &msg, nil
}
