package ports

import "github.com/fastestraces/fastestraces/internal/domain"

// ReportWriter renders an analysis to a file and returns its absolute path.
type ReportWriter interface {
	WriteReport(a domain.Analysis) (path string, err error)
}

// Opener shows a written report to the user (e.g. in the default browser).
type Opener interface {
	Open(path string) error
}
