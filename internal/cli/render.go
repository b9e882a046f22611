package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ledger/internal/core"
)

// RenderRecords lays out records as a table. Flagged rows are marked.
func RenderRecords(records []core.Record) string {
	if len(records) == 0 {
		return SubtleStyle.Render("No expenses recorded.")
	}

	header := []string{"", "ID", "DATE", "CATEGORY", "AMOUNT", "DESCRIPTION"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		mark := " "
		if r.Flagged {
			mark = FlagIcon
		}
		rows = append(rows, []string{
			mark,
			fmt.Sprint(r.ID),
			r.Date.String(),
			r.Category.Label(),
			fmt.Sprint(r.Amount),
			r.Description,
		})
	}
	return renderTable(header, rows)
}

// RenderReport renders each report line, exceeded categories in the error style.
func RenderReport(report core.Report, total int64) string {
	if report.IsEmpty() {
		return SubtleStyle.Render("No flagged expenses.")
	}

	var b strings.Builder
	b.WriteString(FormatTitle("Budget report"))
	b.WriteString("\n")
	for _, line := range report.Lines {
		style := SuccessStyle
		if line.Status == core.StatusExceeded {
			style = ErrorStyle
		}
		b.WriteString(style.Render(line.String()))
		b.WriteString("\n")
	}
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Total flagged: %d", total)))
	return b.String()
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(c)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := []string{renderRow(header, TableHeaderStyle)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
