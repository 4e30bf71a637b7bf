package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"

	"github.com/fastestraces/fastestraces/internal/domain"
)

const maxColumnWidth = 28

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// tableData lays an analysis out for bubbles/table, sizing each column to its
// widest cell.
func tableData(a domain.Analysis) ([]table.Column, []table.Row) {
	titles := a.Columns()
	widths := make([]int, len(titles))
	for i, t := range titles {
		widths[i] = utf8.RuneCountInString(t)
	}

	rows := make([]table.Row, 0, len(a.Races))
	for i := range a.Races {
		row := a.Row(i)
		for j, cell := range row {
			widths[j] = max(widths[j], utf8.RuneCountInString(cell))
		}
		rows = append(rows, table.Row(row))
	}

	cols := make([]table.Column, len(titles))
	for i, t := range titles {
		cols[i] = table.Column{Title: t, Width: min(widths[i], maxColumnWidth)}
	}
	for _, r := range rows {
		for j := range r {
			r[j] = clampString(r[j], maxColumnWidth-1)
		}
	}
	return cols, rows
}

// tableWidth is the rendered width of cols with the default one-cell padding.
func tableWidth(cols []table.Column) int {
	w := 0
	for _, c := range cols {
		w += c.Width + 2
	}
	return w
}

func renderSummary(a domain.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", a.Query.Gender, a.Query.Distance.Label(), joinYears(a.Query.Years))
	fmt.Fprintf(&b, " · %d performances · %d races", a.Performances, len(a.Races))
	if from, to, ok := a.DateRange(); ok {
		fmt.Fprintf(&b, "\nData from %s to %s",
			from.Format(domain.DisplayDateLayout), to.Format(domain.DisplayDateLayout))
	}
	return b.String()
}

func joinYears(ys []int) string {
	parts := make([]string, 0, len(ys))
	for _, y := range ys {
		parts = append(parts, fmt.Sprint(y))
	}
	return strings.Join(parts, ",")
}
