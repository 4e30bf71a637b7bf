// Package metrics aggregates ranked performances into per-race depth counts.
package metrics

import (
	"sort"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// Thresholds returns the whole-minute cut-offs spanning the performances:
// from the first minute above the fastest time up to the minute covering the
// slowest one. It always yields at least one threshold for a non-empty input.
func Thresholds(perfs []domain.Performance) []int {
	if len(perfs) == 0 {
		return nil
	}

	lo, hi := perfs[0].Seconds, perfs[0].Seconds
	for _, p := range perfs[1:] {
		lo = min(lo, p.Seconds)
		hi = max(hi, p.Seconds)
	}

	start := lo/domain.MinuteSeconds + 1
	end := max(start, ceilDiv(hi, domain.MinuteSeconds))

	out := make([]int, 0, end-start+1)
	for m := start; m <= end; m++ {
		out = append(out, m)
	}
	return out
}

// Calculate groups performances by race and counts, per threshold, how many
// beat it. Races are ordered deepest first: by each threshold count
// descending, then by fastest time, then by date, venue and country.
func Calculate(perfs []domain.Performance) domain.Analysis {
	thresholds := Thresholds(perfs)
	a := domain.Analysis{
		Thresholds:   thresholds,
		Races:        []domain.RaceSummary{},
		Performances: len(perfs),
	}
	if len(perfs) == 0 {
		return a
	}

	groups := map[domain.RaceKey]*domain.RaceSummary{}
	keys := make([]domain.RaceKey, 0)
	for _, p := range perfs {
		k := p.Key()
		g, ok := groups[k]
		if !ok {
			g = &domain.RaceSummary{
				Date:           p.Date,
				Venue:          p.Venue,
				Country:        p.Country,
				FastestSeconds: p.Seconds,
				Counts:         make([]int, len(thresholds)),
			}
			groups[k] = g
			keys = append(keys, k)
		}
		g.FastestSeconds = min(g.FastestSeconds, p.Seconds)
		for i, t := range thresholds {
			if p.Seconds < t*domain.MinuteSeconds {
				g.Counts[i]++
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	races := make([]domain.RaceSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		g.Fastest = domain.FormatSeconds(g.FastestSeconds)
		races = append(races, *g)
	}

	sort.SliceStable(races, func(i, j int) bool { return deeper(races[i], races[j]) })

	a.Races = races
	return a
}

func deeper(a, b domain.RaceSummary) bool {
	for i := range a.Counts {
		if a.Counts[i] != b.Counts[i] {
			return a.Counts[i] > b.Counts[i]
		}
	}
	return a.FastestSeconds < b.FastestSeconds
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
