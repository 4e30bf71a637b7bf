package domain

import "time"

// DateLayout is the ranking table date format, e.g. "12 May 24" or "3 Jun 24".
const DateLayout = "2 Jan 06"

// DisplayDateLayout is how race dates are shown in reports, e.g. "12 May 2024".
const DisplayDateLayout = "02 Jan 2006"

// DefaultCountry is assumed when a venue carries no country suffix.
const DefaultCountry = "UK"

// Performance is a single cleaned ranking row.
type Performance struct {
	Perf    string    `json:"perf"`
	Seconds int       `json:"seconds"`
	Date    time.Time `json:"date"`
	Venue   string    `json:"venue"`
	Country string    `json:"country"`
	Year    int       `json:"year"`
}

// RaceKey identifies a race: performances sharing it were run together.
type RaceKey struct {
	Date    time.Time
	Venue   string
	Country string
}

func (p Performance) Key() RaceKey {
	return RaceKey{Date: p.Date, Venue: p.Venue, Country: p.Country}
}

// Less orders keys by date, then venue, then country.
func (k RaceKey) Less(o RaceKey) bool {
	if !k.Date.Equal(o.Date) {
		return k.Date.Before(o.Date)
	}
	if k.Venue != o.Venue {
		return k.Venue < o.Venue
	}
	return k.Country < o.Country
}
