package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// countColumn is the index of the first threshold column in Analysis.Columns.
const countColumn = 4

var (
	prettyTitle = lipgloss.NewStyle().Bold(true)
	prettyFaint = lipgloss.NewStyle().Faint(true)
	prettyCell  = lipgloss.NewStyle().Padding(0, 1)
)

func printPretty(w io.Writer, an domain.Analysis) {
	fmt.Fprintln(w, prettyTitle.Render("Performance Analysis Results"))
	fmt.Fprintln(w, prettyFaint.Render(fmt.Sprintf("%s %s %s · %d performances",
		an.Query.Gender, an.Query.Distance.Label(), joinYears(an.Query.Years), an.Performances)))

	from, to, ok := an.DateRange()
	if !ok {
		fmt.Fprintln(w, "Data from N/A to N/A")
		fmt.Fprintln(w, "(no races)")
		return
	}
	fmt.Fprintf(w, "Data from %s to %s\n\n",
		from.Format(domain.DisplayDateLayout), to.Format(domain.DisplayDateLayout))

	rows := make([][]string, 0, len(an.Races))
	for i := range an.Races {
		rows = append(rows, an.Row(i))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col >= countColumn {
				return prettyCell.Align(lipgloss.Right)
			}
			return prettyCell
		}).
		Headers(an.Columns()...).
		Rows(rows...)

	fmt.Fprintln(w, t.Render())
}

func joinYears(ys []int) string {
	s := ""
	for i, y := range ys {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprint(y)
	}
	return s
}
