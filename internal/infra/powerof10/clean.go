package powerof10

import (
	"fmt"
	"strings"
	"time"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// headerRow is the grid row carrying column names; row 0 is the list title.
const headerRow = 1

const (
	colPerf  = "Perf"
	colVenue = "Venue"
	colDate  = "Date"
)

// cleanGrid turns a ranking grid into timed performances. Non-timed rows
// (section headings, DNF, field events) are dropped; only the columns needed
// to identify a race are kept.
func cleanGrid(grid [][]string, year int) ([]domain.Performance, error) {
	if len(grid) <= headerRow {
		return nil, fmt.Errorf("ranking table has no header row: %w", domain.ErrParse)
	}

	cols := columnIndex(grid[headerRow])
	perfIdx, ok := cols[colPerf]
	if !ok {
		return nil, fmt.Errorf("ranking table has no %q column: %w", colPerf, domain.ErrParse)
	}

	var timed [][]string
	for _, row := range grid[headerRow+1:] {
		if domain.PerfPattern.MatchString(cell(row, perfIdx)) {
			timed = append(timed, row)
		}
	}
	if len(timed) == 0 {
		return nil, nil
	}

	dateIdx, ok := cols[colDate]
	if !ok {
		return nil, fmt.Errorf("the %q column was not found, cannot group results: %w", colDate, domain.ErrParse)
	}
	venueIdx, ok := cols[colVenue]
	if !ok {
		return nil, fmt.Errorf("the %q column was not found, cannot group results: %w", colVenue, domain.ErrParse)
	}

	out := make([]domain.Performance, 0, len(timed))
	for _, row := range timed {
		perf := cell(row, perfIdx)
		secs, err := domain.ParsePerf(perf)
		if err != nil {
			return nil, err
		}

		rawDate := cell(row, dateIdx)
		date, err := time.Parse(domain.DateLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("performance %s: invalid date %q: %w", perf, rawDate, domain.ErrParse)
		}

		venue, country := splitVenue(cell(row, venueIdx))
		out = append(out, domain.Performance{
			Perf:    perf,
			Seconds: secs,
			Date:    date,
			Venue:   venue,
			Country: country,
			Year:    year,
		})
	}
	return out, nil
}

// columnIndex maps header names to positions. Blank headers (spacer or icon
// columns) are skipped and the first of duplicated names wins.
func columnIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := out[name]; !dup {
			out[name] = i
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// splitVenue splits "Venue, Country" on the first comma; UK venues carry no suffix.
func splitVenue(s string) (venue, country string) {
	v, c, found := strings.Cut(s, ",")
	venue = strings.TrimSpace(v)
	country = strings.TrimSpace(c)
	if !found || country == "" {
		country = domain.DefaultCountry
	}
	return venue, country
}
