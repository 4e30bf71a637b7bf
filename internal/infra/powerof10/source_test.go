package powerof10

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/infra/httpclient"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func TestParsePage_CleansTimedRows(t *testing.T) {
	perfs, err := ParsePage(readFixture(t, "rankings_10k.html"), 2024)
	require.NoError(t, err)
	require.Len(t, perfs, 5)

	first := perfs[0]
	assert.Equal(t, "28:10", first.Perf)
	assert.Equal(t, 28*60+10, first.Seconds)
	assert.Equal(t, "Leeds", first.Venue)
	assert.Equal(t, "UK", first.Country)
	assert.Equal(t, 2024, first.Year)
	assert.True(t, first.Date.Equal(time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)))

	second := perfs[1]
	assert.Equal(t, "Valencia", second.Venue)
	assert.Equal(t, "ESP", second.Country)

	last := perfs[4]
	assert.Equal(t, "Battersea Park", last.Venue)
	assert.True(t, last.Date.Equal(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)))
}

func TestParsePage_StructureErrors(t *testing.T) {
	for _, name := range []string{"no_span.html", "no_table.html"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePage(readFixture(t, name), 2024)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestParsePage_NoTimedRowsIsEmpty(t *testing.T) {
	perfs, err := ParsePage(readFixture(t, "no_timed_rows.html"), 1901)
	require.NoError(t, err)
	assert.Empty(t, perfs)
}

func TestCleanGrid_MissingColumns(t *testing.T) {
	_, err := cleanGrid([][]string{{"title"}}, 2024)
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = cleanGrid([][]string{{"title"}, {"Rank", "Time"}, {"1", "29:00"}}, 2024)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), `"Perf"`)

	_, err = cleanGrid([][]string{{"title"}, {"Perf", "Venue"}, {"29:00", "Leeds"}}, 2024)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), `"Date"`)
}

func TestCleanGrid_BadDate(t *testing.T) {
	grid := [][]string{
		{"title"},
		{"Perf", "Venue", "Date"},
		{"29:00", "Leeds", "2024-05-12"},
	}
	_, err := cleanGrid(grid, 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestSplitVenue(t *testing.T) {
	cases := []struct {
		in, venue, country string
	}{
		{"Leeds", "Leeds", "UK"},
		{"Valencia, ESP", "Valencia", "ESP"},
		{"Berlin, GER, extra", "Berlin", "GER, extra"},
		{"Dublin,", "Dublin", "UK"},
	}
	for _, c := range cases {
		v, co := splitVenue(c.in)
		assert.Equal(t, c.venue, v, c.in)
		assert.Equal(t, c.country, co, c.in)
	}
}

func TestTableGrid_Colspan(t *testing.T) {
	perfs, err := ParsePage([]byte(`<span id="cphBody_lblCachedRankingList"><table>
		<tr><th colspan="3">title</th></tr>
		<tr><th>Perf</th><th>Venue</th><th>Date</th></tr>
		<tr><td>29:00</td><td colspan="1">Leeds<br>Roundhay</td><td>1 Jan 24</td></tr>
		<tr><td colspan="3">Section</td></tr>
	</table></span>`), 2024)
	require.NoError(t, err)
	require.Len(t, perfs, 1)
	assert.Equal(t, "Leeds Roundhay", perfs[0].Venue)
}

func TestSource_FetchRankings(t *testing.T) {
	page := readFixture(t, "rankings_10k.html")

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/rankings/rankinglist.aspx" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	defer srv.Close()

	src := New(httpclient.NewExecutor(), WithBaseURL(srv.URL))
	perfs, err := src.FetchRankings(context.Background(), domain.GenderMale, domain.Distance10K, 2024)
	require.NoError(t, err)
	assert.Len(t, perfs, 5)
	assert.Equal(t, "event=10K&agegroup=ALL&sex=M&year=2024", gotQuery)
}

func TestSource_FetchRankings_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := New(nil, WithBaseURL(srv.URL))
	_, err := src.FetchRankings(context.Background(), domain.GenderFemale, domain.DistanceHalf, 2023)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindFetch))
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "HTTP Error 503")
}

func TestSource_FetchRankings_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	src := New(nil, WithBaseURL(base))
	_, err := src.FetchRankings(context.Background(), domain.GenderMale, domain.Distance5K, 2024)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindFetch))
	assert.Contains(t, err.Error(), "could not connect")
}

func TestSource_FetchRankings_BodyTooLarge(t *testing.T) {
	page := readFixture(t, "rankings_10k.html")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(page)
	}))
	defer srv.Close()

	exec := httpclient.NewExecutor(httpclient.WithMaxBodyBytes(128))
	src := New(exec, WithBaseURL(srv.URL))
	_, err := src.FetchRankings(context.Background(), domain.GenderMale, domain.Distance10K, 2024)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindFetch))
	assert.ErrorIs(t, err, httpclient.ErrBodyTooLarge)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "too large")
	assert.NotContains(t, err.Error(), "could not connect")
}

func TestSource_FetchRankings_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer srv.Close()

	src := New(nil, WithBaseURL(srv.URL))
	_, err := src.FetchRankings(context.Background(), domain.GenderMale, domain.DistanceMarathon, 2024)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindParse))

	var oe *domain.OpError
	require.True(t, errors.As(err, &oe))
	assert.Contains(t, oe.Path, "event=Mar")
}
