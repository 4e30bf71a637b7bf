package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestAnalysisColumnsAndRow(t *testing.T) {
	a := Analysis{
		Thresholds: []int{30, 31},
		Races: []RaceSummary{
			{
				Date:    time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
				Venue:   "Leeds",
				Country: "UK",
				Fastest: "29:10",
				Counts:  []int{2, 5},
			},
		},
	}

	wantCols := []string{"Date", "Venue", "Country", "Fastest", "< 30", "< 31"}
	if got := a.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Fatalf("columns = %v, want %v", got, wantCols)
	}

	wantRow := []string{"12 May 2024", "Leeds", "UK", "29:10", "2", "5"}
	if got := a.Row(0); !reflect.DeepEqual(got, wantRow) {
		t.Fatalf("row = %v, want %v", got, wantRow)
	}
}

func TestAnalysisDateRange(t *testing.T) {
	if _, _, ok := (Analysis{}).DateRange(); ok {
		t.Fatalf("expected no range for empty analysis")
	}

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)
	a := Analysis{Races: []RaceSummary{{Date: d2}, {Date: d1}}}

	min, max, ok := a.DateRange()
	if !ok || !min.Equal(d1) || !max.Equal(d2) {
		t.Fatalf("unexpected range %v..%v ok=%v", min, max, ok)
	}
}
