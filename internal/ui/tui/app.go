package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fastestraces/fastestraces/internal/domain"
)

type screen int

const (
	screenRuns screen = iota
	screenTable
)

type runItem struct {
	ref domain.RunRef
}

func (r runItem) Title() string { return r.ref.Query.String() }
func (r runItem) Description() string {
	return fmt.Sprintf("%s · %d races · %s",
		r.ref.GeneratedAt.Local().Format("2006-01-02 15:04"), r.ref.Races, r.ref.ID)
}
func (r runItem) FilterValue() string { return r.ref.Query.String() + " " + r.ref.ID }

type model struct {
	theme Theme
	deps  Deps

	scr       screen
	runs      list.Model
	table     table.Model
	initialID string

	current   domain.Analysis
	currentID string

	width, height int
	loading       bool
	toast         string
}

// Run starts the viewer. With a non-empty id the saved analysis is shown
// straight away, otherwise the list of saved runs.
func Run(deps Deps, id string) error {
	m := newModel(deps, id)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps, id string) model {
	t := DefaultTheme()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved analyses"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	tb := table.New(table.WithFocused(true), table.WithHeight(15))
	tb.SetStyles(t.Table)

	return model{
		theme:     t,
		deps:      deps,
		scr:       screenRuns,
		runs:      l,
		table:     tb,
		initialID: strings.TrimSpace(id),
		loading:   true,
	}
}

func (m model) Init() tea.Cmd {
	if m.initialID != "" {
		return cmdLoadRun(m.deps, m.initialID)
	}
	return cmdLoadRuns(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.runs.SetSize(msg.Width-4, msg.Height-10)
		m.table.SetHeight(max(msg.Height-12, 3))
		return m, nil

	case runsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.log().Error("view.runs.failed", "err", msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, runItem{ref: r})
		}
		return m, m.runs.SetItems(items)

	case runLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.log().Error("view.load.failed", "id", msg.id, "err", msg.err)
			if m.initialID != "" && m.initialID == msg.id {
				m.initialID = ""
				return m, cmdLoadRuns(m.deps)
			}
			return m, nil
		}
		m.showAnalysis(msg.id, msg.analysis)
		return m, nil

	case reportOpenedMsg:
		switch {
		case msg.err != nil:
			m.toast = userMessage(msg.err)
			m.log().Error("view.report.failed", "path", msg.path, "err", msg.err)
		case msg.opened:
			m.toast = "Opened " + msg.path
		default:
			m.toast = "Report written to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.scr == screenRuns && m.runs.FilterState() == list.Filtering {
			break
		}

		switch m.scr {
		case screenRuns:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "r":
				m.loading = true
				m.toast = ""
				return m, cmdLoadRuns(m.deps)
			case "enter":
				it, ok := m.runs.SelectedItem().(runItem)
				if !ok {
					return m, nil
				}
				m.loading = true
				m.toast = ""
				return m, cmdLoadRun(m.deps, it.ref.ID)
			}

		case screenTable:
			switch msg.String() {
			case "q", "esc", "b":
				m.scr = screenRuns
				m.toast = ""
				if len(m.runs.Items()) == 0 {
					m.loading = true
					return m, cmdLoadRuns(m.deps)
				}
				return m, nil
			case "o":
				m.toast = "Writing report…"
				return m, cmdOpenReport(m.deps, m.current)
			}
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenRuns:
		m.runs, cmd = m.runs.Update(msg)
	case screenTable:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m *model) showAnalysis(id string, a domain.Analysis) {
	cols, rows := tableData(a)
	// Columns first: rows wider than the current column set would be cut.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetWidth(tableWidth(cols))
	m.table.GotoTop()

	m.current = a
	m.currentID = id
	m.scr = screenTable
	m.toast = ""
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("fastestraces") + "\n" +
		m.theme.Subtitle.Render("Which races had the deepest fields") + "\n"

	var toast string
	if m.toast != "" {
		toast = "\n" + m.theme.Toast.Render(m.toast)
	}

	switch m.scr {
	case screenRuns:
		if m.loading {
			return wrap.Render(header + "\nLoading…")
		}
		if len(m.runs.Items()) == 0 {
			card := m.theme.Card.Render("No saved analyses.\n\nRun `fastestraces analyze -g M -y 2024 -d 10K` first.")
			return wrap.Render(header + "\n" + card + toast + "\n" + m.theme.Help.Render("r refresh • q quit"))
		}
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • r refresh • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.runs.View()) + toast + "\n" + help)

	case screenTable:
		summary := m.theme.Subtitle.Render(renderSummary(m.current))
		if m.current.Empty() {
			return wrap.Render(header + "\n" + summary + "\n\n(no races)" + toast)
		}
		help := m.theme.Help.Render("↑/↓ scroll • o open HTML report • esc/b back • ctrl+c quit")
		return wrap.Render(header + "\n" + summary + "\n\n" + m.table.View() + toast + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
