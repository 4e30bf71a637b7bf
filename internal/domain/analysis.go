package domain

import (
	"strconv"
	"time"
)

// RaceSummary aggregates all ranked performances from one race.
// Counts[i] is the number of performances under Analysis.Thresholds[i] minutes.
type RaceSummary struct {
	Date           time.Time `json:"date"`
	Venue          string    `json:"venue"`
	Country        string    `json:"country"`
	Fastest        string    `json:"fastest"`
	FastestSeconds int       `json:"fastest_seconds"`
	Counts         []int     `json:"counts"`
}

// Analysis is the outcome of one run over a query.
type Analysis struct {
	Query        Query         `json:"query"`
	Thresholds   []int         `json:"thresholds"`
	Races        []RaceSummary `json:"races"`
	Performances int           `json:"performances"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// Fixed leading columns of the tabular view.
var baseColumns = []string{"Date", "Venue", "Country", "Fastest"}

// ThresholdLabels returns the column titles for Thresholds.
func (a Analysis) ThresholdLabels() []string {
	out := make([]string, 0, len(a.Thresholds))
	for _, t := range a.Thresholds {
		out = append(out, FormatThreshold(t))
	}
	return out
}

// Columns returns the table header: Date, Venue, Country, Fastest, thresholds...
func (a Analysis) Columns() []string {
	out := make([]string, 0, len(baseColumns)+len(a.Thresholds))
	out = append(out, baseColumns...)
	return append(out, a.ThresholdLabels()...)
}

// Row renders race i in Columns order.
func (a Analysis) Row(i int) []string {
	r := a.Races[i]
	out := []string{r.Date.Format(DisplayDateLayout), r.Venue, r.Country, r.Fastest}
	for j := range a.Thresholds {
		c := 0
		if j < len(r.Counts) {
			c = r.Counts[j]
		}
		out = append(out, strconv.Itoa(c))
	}
	return out
}

// DateRange returns the earliest and latest race dates; ok is false without races.
func (a Analysis) DateRange() (min, max time.Time, ok bool) {
	for i, r := range a.Races {
		if i == 0 || r.Date.Before(min) {
			min = r.Date
		}
		if i == 0 || r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, len(a.Races) > 0
}

func (a Analysis) Empty() bool {
	return len(a.Races) == 0
}

// RunRef points at a saved analysis.
type RunRef struct {
	ID          string    `json:"id"`
	File        string    `json:"file"`
	Query       Query     `json:"query"`
	Races       int       `json:"races"`
	GeneratedAt time.Time `json:"generated_at"`
}
