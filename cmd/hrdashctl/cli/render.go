package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cinescope/hrdash/internal/dashboard"
	"github.com/cinescope/hrdash/internal/dashboard/export"
)

const (
	colorError   lipgloss.Color = "1"
	colorSuccess lipgloss.Color = "2"
	colorWarning lipgloss.Color = "3"
	colorAccent  lipgloss.Color = "6"
	colorMuted   lipgloss.Color = "8"
)

// scatter samples are too many rows for a terminal
const maxTerminalRows = 25

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	okStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func renderSnapshot(d *dashboard.Dashboard) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HR Attrition Dashboard"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render("cycle " + d.CycleID))
	b.WriteString("\n")

	if d.SummaryLine != "" {
		b.WriteString(d.SummaryLine)
		b.WriteString("\n")
	}
	if d.FirstError != "" {
		b.WriteString(errorStyle.Render("✗ "))
		b.WriteString(firstLine(d.FirstError))
		b.WriteString("\n")
	} else {
		b.WriteString(okStyle.Render("✓ all datasets loaded"))
		b.WriteString("\n")
	}
	for _, s := range d.Statements {
		b.WriteString("• ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	for _, n := range d.Notes {
		b.WriteString(warnStyle.Render("! " + n))
		b.WriteString("\n")
	}

	for _, t := range export.Tables(d) {
		b.WriteString(sectionStyle.Render(t.Title))
		b.WriteString("\n")
		b.WriteString(renderTable(t))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTable(t export.Table) string {
	rows := t.Rows
	hidden := 0
	if len(rows) > maxTerminalRows {
		hidden = len(rows) - maxTerminalRows
		rows = rows[:maxTerminalRows]
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(t.Header...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = firstLine(export.PrintCell(c))
		}
		tbl.Row(cells...)
	}
	out := tbl.Render()
	if hidden > 0 {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("… %d more rows (use --json for all)", hidden))
	}
	return out
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
