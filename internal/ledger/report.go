package ledger

import "ledger/internal/core"

// RecordLister is the read side of the store used by the reporter.
type RecordLister interface {
	List() []core.Record
}

// Reporter compares flagged spending against per-category budgets.
type Reporter struct {
	src     RecordLister
	budgets core.BudgetTable
}

// NewReporter uses core.DefaultBudgets when budgets is nil.
func NewReporter(src RecordLister, budgets core.BudgetTable) *Reporter {
	if budgets == nil {
		budgets = core.DefaultBudgets
	}
	return &Reporter{src: src, budgets: budgets}
}

// Budgets returns the ceilings the reporter compares against.
func (r *Reporter) Budgets() core.BudgetTable {
	return r.budgets
}

// Generate groups flagged records by category, in the order each category is
// first seen among flagged records. Categories without flagged records are omitted.
func (r *Reporter) Generate() core.Report {
	return Summarize(r.src.List(), r.budgets)
}

// TotalFlagged sums every flagged amount. It is recomputed on every call.
func (r *Reporter) TotalFlagged() int64 {
	return TotalFlagged(r.src.List())
}

// Summarize builds the report for an arbitrary record list.
func Summarize(records []core.Record, budgets core.BudgetTable) core.Report {
	var order []core.Category
	totals := make(map[core.Category]int64)
	for _, rec := range records {
		if !rec.Flagged {
			continue
		}
		if _, ok := totals[rec.Category]; !ok {
			order = append(order, rec.Category)
		}
		totals[rec.Category] += rec.Amount
	}

	report := core.Report{Lines: make([]core.ReportLine, 0, len(order))}
	for _, cat := range order {
		total := totals[cat]
		budget := budgets.Ceiling(cat)
		remaining := budget - total
		status := core.StatusWithinBudget
		if remaining < 0 {
			status = core.StatusExceeded
		}
		report.Lines = append(report.Lines, core.ReportLine{
			Category:  cat,
			Total:     total,
			Budget:    budget,
			Remaining: remaining,
			Status:    status,
		})
	}
	return report
}

// TotalFlagged sums the amounts of flagged records.
func TotalFlagged(records []core.Record) int64 {
	var total int64
	for _, rec := range records {
		if rec.Flagged {
			total += rec.Amount
		}
	}
	return total
}
