package ports

import "github.com/fastestraces/fastestraces/internal/domain"

// ArtifactStore persists analyses so they can be listed and re-rendered later.
type ArtifactStore interface {
	SaveRun(a domain.Analysis) (id string, err error)
	ListRuns() ([]domain.RunRef, error)
	LoadRun(id string) (domain.Analysis, error)
}
