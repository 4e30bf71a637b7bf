package ports

import (
	"context"

	"github.com/fastestraces/fastestraces/internal/domain"
)

// RankingSource fetches and cleans one annual ranking list.
type RankingSource interface {
	FetchRankings(ctx context.Context, gender domain.Gender, distance domain.Distance, year int) ([]domain.Performance, error)
}
