package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fastestraces/fastestraces/internal/domain"
	"github.com/fastestraces/fastestraces/internal/ports"
	"github.com/fastestraces/fastestraces/internal/usecase/metrics"
)

const defaultConcurrency = 4

type Analyze struct {
	source      ports.RankingSource
	store       ports.ArtifactStore
	concurrency int
	log         *slog.Logger
	now         func() time.Time
}

type AnalyzeOption func(*Analyze)

// WithConcurrency bounds how many ranking years are fetched at once.
func WithConcurrency(n int) AnalyzeOption {
	return func(a *Analyze) { a.concurrency = n }
}

func WithLogger(l *slog.Logger) AnalyzeOption {
	return func(a *Analyze) { a.log = l }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) AnalyzeOption {
	return func(a *Analyze) { a.now = now }
}

// NewAnalyze wires the use case. store may be nil to skip saving.
func NewAnalyze(src ports.RankingSource, store ports.ArtifactStore, opts ...AnalyzeOption) *Analyze {
	a := &Analyze{
		source:      src,
		store:       store,
		concurrency: defaultConcurrency,
		log:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.concurrency < 1 {
		a.concurrency = 1
	}
	return a
}

// Execute fetches every requested year, aggregates the performances and saves
// the analysis. The analysis is returned even when saving fails.
func (uc *Analyze) Execute(ctx context.Context, q domain.Query) (domain.Analysis, string, error) {
	q, err := q.Normalize()
	if err != nil {
		return domain.Analysis{}, "", err
	}

	uc.log.Info("analyze.start", "query", q.String())

	perfs, err := uc.fetchAll(ctx, q)
	if err != nil {
		return domain.Analysis{}, "", err
	}

	if len(perfs) == 0 {
		return domain.Analysis{}, "", &domain.OpError{
			Op:   "analyze.fetch",
			Kind: domain.KindNotFound,
			Err: fmt.Errorf("no valid performance data found for %s %s in %s; the site may have no data "+
				"for this query or its page structure has changed: %w",
				q.Gender, q.Distance.Label(), yearsLabel(q.Years), domain.ErrNoData),
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.Analysis{}, "", err
	}

	a := metrics.Calculate(perfs)
	a.Query = q
	a.GeneratedAt = uc.now().UTC()

	uc.log.Info("analyze.calculated",
		"performances", a.Performances,
		"races", len(a.Races),
		"thresholds", len(a.Thresholds),
	)

	if uc.store == nil {
		return a, "", nil
	}

	id, err := uc.store.SaveRun(a)
	if err != nil {
		uc.log.Error("analyze.save_failed", "err", err)
		return a, "", err
	}
	uc.log.Info("analyze.saved", "id", id)
	return a, id, nil
}

// fetchAll fetches the years concurrently; results keep the query's year order.
func (uc *Analyze) fetchAll(ctx context.Context, q domain.Query) ([]domain.Performance, error) {
	perYear := make([][]domain.Performance, len(q.Years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, year := range q.Years {
		i, year := i, year
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			perfs, err := uc.source.FetchRankings(gctx, q.Gender, q.Distance, year)
			if err != nil {
				uc.log.Warn("analyze.fetch_failed", "year", year, "err", err)
				return err
			}
			uc.log.Info("analyze.fetch",
				"year", year,
				"performances", len(perfs),
				"latency_ms", time.Since(start).Milliseconds(),
			)
			perYear[i] = perfs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.Performance
	for _, perfs := range perYear {
		out = append(out, perfs...)
	}
	return out, nil
}

func yearsLabel(years []int) string {
	if len(years) == 1 {
		return fmt.Sprint(years[0])
	}
	return fmt.Sprint(years)
}
