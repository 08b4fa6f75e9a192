package repository

import (
	"context"

	"github.com/vytor/linkpuzzle/internal/models"
)

// KeyValueStore is the raw byte storage behind Store. Get reports found=false
// for a missing key without an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ProgressStore persists the day-scoped game progress.
type ProgressStore interface {
	LoadProgress(ctx context.Context) *models.GameProgress
	SaveProgress(ctx context.Context, progress models.GameProgress) error
}

// StatsStore persists cross-day statistics.
type StatsStore interface {
	LoadStats(ctx context.Context, slots int) models.UserStatistics
	SaveStats(ctx context.Context, stats models.UserStatistics) error
}
