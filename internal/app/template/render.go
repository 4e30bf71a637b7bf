// Package template expands {{name}} placeholders in output file names.
package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", invalid(input, fmt.Errorf("unclosed placeholder"))
		}

		key := strings.ToLower(strings.TrimSpace(rest[:end]))
		if key == "" {
			return "", invalid(input, fmt.Errorf("empty placeholder"))
		}

		value, ok := vars[key]
		if !ok {
			return "", invalid(input, fmt.Errorf("unknown placeholder %q", key))
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// QueryVars exposes a query to RenderString:
// gender, distance, year (first year) and years (joined with "-").
func QueryVars(q domain.Query) map[string]string {
	ys := make([]string, 0, len(q.Years))
	for _, y := range q.Years {
		ys = append(ys, strconv.Itoa(y))
	}
	first := ""
	if len(ys) > 0 {
		first = ys[0]
	}
	return map[string]string{
		"gender":   string(q.Gender),
		"distance": string(q.Distance),
		"year":     first,
		"years":    strings.Join(ys, "-"),
	}
}

// FileName renders a file name pattern for q.
func FileName(pattern string, q domain.Query) (string, error) {
	return RenderString(pattern, QueryVars(q))
}

func invalid(input string, err error) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidConfig,
		Path: input,
		Err:  fmt.Errorf("%w: %w", err, domain.ErrInvalidConfig),
	}
}
