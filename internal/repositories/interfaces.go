package repositories

import (
	"context"

	domain "github.com/git-bubble/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UsageLogRepository appends render events for later analysis.
type UsageLogRepository interface {
	Append(ctx context.Context, event domain.RenderEvent) error
}

// VillageRepository persists per-user village state.
type VillageRepository interface {
	FindByUsername(ctx context.Context, username string) (domain.VillageRecord, error)
	Upsert(ctx context.Context, record domain.VillageRecord) error
}

// CounterRepository provides atomic named counters, used for village visitor counts.
type CounterRepository interface {
	Next(ctx context.Context, counterID string, step int64) (int64, error)
}
