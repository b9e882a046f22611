package core

import (
	"fmt"
	"strings"
)

const (
	StatusWithinBudget Status = "within budget"
	StatusExceeded     Status = "exceeded"
)

type (
	Status string

	// BudgetTable maps a category to its spending ceiling.
	BudgetTable map[Category]int64

	// ReportLine is the budget comparison for one category.
	ReportLine struct {
		Category  Category `json:"category"`
		Total     int64    `json:"total"`
		Budget    int64    `json:"budget"`
		Remaining int64    `json:"remaining"`
		Status    Status   `json:"status"`
	}

	// Report is an on-demand summary of flagged spending, never persisted.
	Report struct {
		Lines []ReportLine `json:"lines"`
	}
)

// DefaultBudgets are the fixed per-category ceilings.
var DefaultBudgets = BudgetTable{
	Health:    120000,
	Common:    150000,
	Transport: 90000,
	Personal:  180000,
}

// Ceiling returns the budget for c, or 0 when the table has none.
func (b BudgetTable) Ceiling(c Category) int64 {
	return b[c]
}

// Line returns the report line for category c, if present.
func (r Report) Line(c Category) (ReportLine, bool) {
	for _, l := range r.Lines {
		if l.Category == c {
			return l, true
		}
	}
	return ReportLine{}, false
}

func (r Report) IsEmpty() bool {
	return len(r.Lines) == 0
}

func (l ReportLine) String() string {
	return fmt.Sprintf("%s: %d (%s) - budget: %d", l.Category, l.Total, l.Status, l.Budget)
}

func (r Report) String() string {
	lines := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, l.String())
	}
	return strings.Join(lines, "\n")
}
