package tui

import "github.com/fastestraces/fastestraces/internal/domain"

type runsLoadedMsg struct {
	refs []domain.RunRef
	err  error
}

type runLoadedMsg struct {
	id       string
	analysis domain.Analysis
	err      error
}

type reportOpenedMsg struct {
	path   string
	opened bool
	err    error
}
