// Package powerof10 fetches annual ranking lists from The Power of 10 and
// cleans them into performances.
package powerof10

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/infra/httpclient"
	"github.com/fastestraces/fastestraces/internal/ports"
)

const DefaultBaseURL = "https://www.thepowerof10.info"

type Source struct {
	exec      *httpclient.Executor
	baseURL   string
	userAgent string
	log       *slog.Logger
}

type Option func(*Source)

func WithBaseURL(u string) Option {
	return func(s *Source) { s.baseURL = u }
}

func WithUserAgent(ua string) Option {
	return func(s *Source) { s.userAgent = ua }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Source) { s.log = l }
}

func New(exec *httpclient.Executor, opts ...Option) *Source {
	s := &Source{
		exec:      exec,
		baseURL:   DefaultBaseURL,
		userAgent: httpclient.DefaultConfig().UserAgent,
		log:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.exec == nil {
		s.exec = httpclient.NewExecutor()
	}
	return s
}

var _ ports.RankingSource = (*Source)(nil)

func (s *Source) FetchRankings(ctx context.Context, gender domain.Gender, distance domain.Distance, year int) ([]domain.Performance, error) {
	url, err := httpclient.RankingURL(s.baseURL, gender, distance, year)
	if err != nil {
		return nil, err
	}

	req, err := httpclient.BuildRankingRequest(ctx, url, s.userAgent)
	if err != nil {
		return nil, err
	}

	s.log.Debug("powerof10.fetch", "url", url)
	resp, err := s.exec.Do(ctx, req)
	if errors.Is(err, httpclient.ErrBodyTooLarge) {
		return nil, &domain.OpError{
			Op:   "powerof10.fetch",
			Kind: domain.KindFetch,
			Path: url,
			Err:  fmt.Errorf("ranking page from %s is too large: %w", url, errors.Join(domain.ErrFetch, err)),
		}
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "powerof10.fetch",
			Kind: domain.KindFetch,
			Path: url,
			Err:  fmt.Errorf("could not connect to %s: %w", url, errors.Join(domain.ErrFetch, err)),
		}
	}
	s.log.Debug("powerof10.fetched",
		"url", url,
		"status", resp.Status,
		"bytes", len(resp.BodyBytes),
		"latency_ms", resp.Duration.Milliseconds(),
	)

	if resp.Status >= http.StatusBadRequest {
		return nil, &domain.OpError{
			Op:   "powerof10.fetch",
			Kind: domain.KindFetch,
			Path: url,
			Err:  fmt.Errorf("HTTP Error %d: Failed to fetch data from %s: %w", resp.Status, url, domain.ErrFetch),
		}
	}

	perfs, err := ParsePage(resp.BodyBytes, year)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "powerof10.parse",
			Kind: domain.KindParse,
			Path: url,
			Err:  err,
		}
	}

	s.log.Info("powerof10.rankings",
		"gender", string(gender),
		"distance", string(distance),
		"year", year,
		"performances", len(perfs),
	)
	return perfs, nil
}

// ParsePage extracts the timed performances from a ranking list page.
// A page whose table holds no timed rows yields an empty slice and no error.
func ParsePage(body []byte, year int) ([]domain.Performance, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", errors.Join(domain.ErrParse, err))
	}

	span := findByID(doc, atom.Span, rankingSpanID)
	if span == nil {
		return nil, fmt.Errorf("could not find the ranking list table container (span with ID %q); "+
			"the page structure might have changed or there is no data for this query: %w", rankingSpanID, domain.ErrParse)
	}

	table := findFirst(span, atom.Table)
	if table == nil {
		return nil, fmt.Errorf("could not find a table within the ranking list span; "+
			"no data may be available for this query or the page structure has changed: %w", domain.ErrParse)
	}

	return cleanGrid(tableGrid(table), year)
}
