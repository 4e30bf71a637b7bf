package tui

import (
	"io"
	"log/slog"

	"github.com/fastestraces/fastestraces/internal/ports"
)

type Deps struct {
	Store   ports.ArtifactStore
	Reports ports.ReportWriter
	Opener  ports.Opener

	Logger *slog.Logger
	Debug  bool
}

func (m model) log() *slog.Logger {
	if m.deps.Logger != nil {
		return m.deps.Logger
	}
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
