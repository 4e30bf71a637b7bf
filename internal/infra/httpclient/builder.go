package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fastestraces/fastestraces/internal/domain"
)

const rankingPath = "/rankings/rankinglist.aspx"

// RankingURL builds the ranking list address for one gender/distance/year.
func RankingURL(baseURL string, gender domain.Gender, distance domain.Distance, year int) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", &domain.OpError{
			Op:   "httpclient.ranking_url",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	u, err := url.Parse(base + rankingPath)
	if err != nil {
		return "", &domain.OpError{
			Op:   "httpclient.ranking_url",
			Kind: domain.KindInvalidConfig,
			Path: base,
			Err:  err,
		}
	}

	// The site is picky about parameter order, so the query string is kept literal.
	u.RawQuery = "event=" + url.QueryEscape(string(distance)) +
		"&agegroup=ALL" +
		"&sex=" + url.QueryEscape(string(gender)) +
		"&year=" + strconv.Itoa(year)
	return u.String(), nil
}

// BuildRankingRequest builds a GET request for a ranking list page.
func BuildRankingRequest(ctx context.Context, rawURL, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: rawURL,
			Err:  err,
		}
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return req, nil
}
