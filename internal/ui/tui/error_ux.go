package tui

import (
	"errors"
	"strings"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// userMessage turns the errors the viewer can meet (saved runs, report
// writing, browser launch) into a short toast.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return "Unexpected error (see logs)"
	}

	runs := strings.HasPrefix(oe.Op, "runstore.")
	switch oe.Kind {
	case domain.KindNotFound:
		if runs {
			return "Saved analysis not found"
		}
		return "Not found"

	case domain.KindParse:
		if runs {
			return "Saved analysis is unreadable"
		}
		return "Unreadable data (see logs)"

	case domain.KindInvalidConfig:
		switch {
		case runs:
			return "Invalid run id"
		case strings.HasPrefix(oe.Op, "template."):
			return "Invalid report file name"
		}
		return "Invalid config"

	case domain.KindExecution:
		switch {
		case strings.HasPrefix(oe.Op, "browser."):
			return "Could not open the browser"
		case strings.HasPrefix(oe.Op, "htmlreport."):
			return "Could not write the report"
		}
	}
	return "Unexpected error (see logs)"
}
