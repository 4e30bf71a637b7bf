package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastestraces/fastestraces/internal/domain"
)

func cmdLoadRuns(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Store == nil {
			return runsLoadedMsg{err: errors.New("Store is nil")}
		}
		refs, err := deps.Store.ListRuns()
		return runsLoadedMsg{refs: refs, err: err}
	}
}

func cmdLoadRun(deps Deps, id string) tea.Cmd {
	return func() tea.Msg {
		if deps.Store == nil {
			return runLoadedMsg{id: id, err: errors.New("Store is nil")}
		}
		a, err := deps.Store.LoadRun(id)
		return runLoadedMsg{id: id, analysis: a, err: err}
	}
}

// cmdOpenReport writes a as HTML and hands it to the opener, if any.
func cmdOpenReport(deps Deps, a domain.Analysis) tea.Cmd {
	return func() tea.Msg {
		if deps.Reports == nil {
			return reportOpenedMsg{err: errors.New("ReportWriter is nil")}
		}
		path, err := deps.Reports.WriteReport(a)
		if err != nil {
			return reportOpenedMsg{err: err}
		}
		if deps.Opener == nil {
			return reportOpenedMsg{path: path}
		}
		if err := deps.Opener.Open(path); err != nil {
			return reportOpenedMsg{path: path, err: err}
		}
		return reportOpenedMsg{path: path, opened: true}
	}
}
