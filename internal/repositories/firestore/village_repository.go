package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/git-bubble/api/internal/domain"
	pfirestore "github.com/git-bubble/api/internal/platform/firestore"
)

const villagesCollection = "villages"

// VillageRepository implements repositories.VillageRepository backed by Firestore.
type VillageRepository struct {
	villages *pfirestore.BaseRepository[domain.VillageRecord]
}

// NewVillageRepository constructs a Firestore-backed village repository.
func NewVillageRepository(provider *pfirestore.Provider) (*VillageRepository, error) {
	if provider == nil {
		return nil, errors.New("village repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[domain.VillageRecord](provider, villagesCollection, nil, nil)
	return &VillageRepository{villages: base}, nil
}

// FindByUsername fetches the village state for a user.
func (r *VillageRepository) FindByUsername(ctx context.Context, username string) (domain.VillageRecord, error) {
	if r == nil || r.villages == nil {
		return domain.VillageRecord{}, errors.New("village repository not initialised")
	}
	id := villageDocID(username)
	if id == "" {
		return domain.VillageRecord{}, errors.New("village repository: username is required")
	}
	doc, err := r.villages.Get(ctx, id)
	if err != nil {
		return domain.VillageRecord{}, err
	}
	return doc.Data, nil
}

// Upsert writes the village state, replacing any previous snapshot.
func (r *VillageRepository) Upsert(ctx context.Context, record domain.VillageRecord) error {
	if r == nil || r.villages == nil {
		return errors.New("village repository not initialised")
	}
	id := villageDocID(record.Username)
	if id == "" {
		return errors.New("village repository: username is required")
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}
	_, err := r.villages.Set(ctx, id, record)
	return err
}

// villageDocID normalises usernames so lookups are case-insensitive, matching
// how GitHub treats login names.
func villageDocID(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
