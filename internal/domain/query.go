package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Gender selects the ranking list sex.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Distance is the event code used by the ranking site.
type Distance string

const (
	Distance10K      Distance = "10K"
	DistanceHalf     Distance = "HM"
	DistanceMarathon Distance = "Mar"
	Distance5K       Distance = "5K"
)

const (
	minYear = 1900
	maxYear = 9999
)

// Distances lists the supported event codes in display order.
func Distances() []Distance {
	return []Distance{Distance10K, DistanceHalf, DistanceMarathon, Distance5K}
}

// Label returns a human readable event name.
func (d Distance) Label() string {
	switch d {
	case DistanceHalf:
		return "Half Marathon"
	case DistanceMarathon:
		return "Marathon"
	default:
		return string(d)
	}
}

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	default:
		return "", fmt.Errorf("unsupported gender %q (expected M|F): %w", s, ErrInvalidConfig)
	}
}

// ParseDistance matches event codes case-insensitively ("mar" -> "Mar").
func ParseDistance(s string) (Distance, error) {
	in := strings.TrimSpace(s)
	for _, d := range Distances() {
		if strings.EqualFold(in, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unsupported distance %q (expected 10K|HM|Mar|5K): %w", s, ErrInvalidConfig)
}

// Query identifies the ranking lists to analyse.
type Query struct {
	Gender   Gender   `json:"gender"`
	Distance Distance `json:"distance"`
	Years    []int    `json:"years"`
}

// Normalize validates the query and returns a copy with duplicate years removed.
func (q Query) Normalize() (Query, error) {
	if _, err := ParseGender(string(q.Gender)); err != nil {
		return Query{}, invalidQuery("gender", err)
	}
	d, err := ParseDistance(string(q.Distance))
	if err != nil {
		return Query{}, invalidQuery("distance", err)
	}
	if len(q.Years) == 0 {
		return Query{}, invalidQuery("years", fmt.Errorf("at least one year is required: %w", ErrInvalidConfig))
	}

	seen := make(map[int]bool, len(q.Years))
	years := make([]int, 0, len(q.Years))
	for _, y := range q.Years {
		if y < minYear || y > maxYear {
			return Query{}, invalidQuery("years", fmt.Errorf("year %d out of range: %w", y, ErrInvalidConfig))
		}
		if seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}

	return Query{
		Gender:   Gender(strings.ToUpper(strings.TrimSpace(string(q.Gender)))),
		Distance: d,
		Years:    years,
	}, nil
}

// String renders the query the way log lines and file names use it, e.g. "M 10K 2023,2024".
func (q Query) String() string {
	ys := make([]string, 0, len(q.Years))
	for _, y := range q.Years {
		ys = append(ys, strconv.Itoa(y))
	}
	return fmt.Sprintf("%s %s %s", q.Gender, q.Distance, strings.Join(ys, ","))
}

func invalidQuery(field string, err error) error {
	return &OpError{
		Op:   "query.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %w", field, err),
	}
}
