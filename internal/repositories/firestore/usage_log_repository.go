package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/git-bubble/api/internal/domain"
	pfirestore "github.com/git-bubble/api/internal/platform/firestore"
)

const usageLogsCollection = "usage_logs"

// UsageLogRepository implements repositories.UsageLogRepository backed by Firestore.
type UsageLogRepository struct {
	logs *pfirestore.BaseRepository[domain.RenderEvent]
}

// NewUsageLogRepository constructs a Firestore-backed usage log repository.
func NewUsageLogRepository(provider *pfirestore.Provider) (*UsageLogRepository, error) {
	if provider == nil {
		return nil, errors.New("usage log repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[domain.RenderEvent](provider, usageLogsCollection, nil, nil)
	return &UsageLogRepository{logs: base}, nil
}

// Append stores a render event keyed by its ULID.
func (r *UsageLogRepository) Append(ctx context.Context, event domain.RenderEvent) error {
	if r == nil || r.logs == nil {
		return errors.New("usage log repository not initialised")
	}
	if strings.TrimSpace(event.ID) == "" {
		return errors.New("usage log repository: event id is required")
	}
	if event.RenderedAt.IsZero() {
		event.RenderedAt = time.Now().UTC()
	}
	_, err := r.logs.Set(ctx, event.ID, event)
	return err
}
