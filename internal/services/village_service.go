package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/platform/github"
	"github.com/git-bubble/api/internal/platform/requestctx"
	"github.com/git-bubble/api/internal/render/village"
	"github.com/git-bubble/api/internal/repositories"
)

const (
	// One extra resident per ten recent commits, bounded by the catalog size.
	villageBaseCharacters = 3
	villageMaxCharacters  = 12
	commitsPerCharacter   = 10

	visitorCounterPrefix = "village_visitors:"
)

// ErrVillageUsernameRequired indicates the username parameter is missing.
var ErrVillageUsernameRequired = errors.New("village: username is required")

// VillageRenderCommand carries the validated village parameters.
type VillageRenderCommand struct {
	Username string
	Width    float64
	Height   float64
	Theme    Theme
	Lang     Lang
}

// VillageRenderResult bundles the rendered scene with the activity summary behind it.
type VillageRenderResult struct {
	SVG          string
	TotalCommits int
	Visitors     int64
}

// VillageServiceDeps bundles collaborators required to construct a village service instance.
type VillageServiceDeps struct {
	Commits  CommitStatsProvider
	Villages repositories.VillageRepository
	Counters repositories.CounterRepository
	Clock    func() time.Time
}

type villageService struct {
	commits  CommitStatsProvider
	villages repositories.VillageRepository
	counters repositories.CounterRepository
	clock    func() time.Time
}

// NewVillageService constructs a service that renders villages from GitHub activity.
// Villages and Counters are optional; without them the scene still renders but
// nothing is persisted.
func NewVillageService(deps VillageServiceDeps) (VillageService, error) {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &villageService{
		commits:  deps.Commits,
		villages: deps.Villages,
		counters: deps.Counters,
		clock:    clock,
	}, nil
}

func (s *villageService) Render(ctx context.Context, cmd VillageRenderCommand) (VillageRenderResult, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return VillageRenderResult{}, ErrVillageUsernameRequired
	}

	logger := requestctx.Logger(ctx)

	totalCommits := 0
	if s.commits != nil {
		repos, err := s.commits.RecentRepoCommits(ctx, username)
		if err != nil {
			// The village renders with the base population when GitHub
			// is unavailable or the user has no public activity.
			logger.Warn("commit lookup failed", zap.String("username", username), zap.Error(err))
		} else {
			totalCommits = github.TotalRecentCommits(repos)
		}
	}

	characterCount := characterCountFor(totalCommits)
	characters := village.SelectForUser(username, characterCount)

	var visitors int64
	if s.counters != nil {
		count, err := s.counters.Next(ctx, visitorCounterPrefix+strings.ToLower(username), 1)
		if err != nil {
			logger.Warn("visitor counter increment failed", zap.String("username", username), zap.Error(err))
		} else {
			visitors = count
		}
	}

	if s.villages != nil {
		record := domain.VillageRecord{
			Username:  username,
			Commits:   totalCommits,
			Visitors:  visitors,
			UpdatedAt: s.clock().UTC(),
		}
		if err := s.villages.Upsert(ctx, record); err != nil {
			logger.Warn("village persist failed", zap.String("username", username), zap.Error(err))
		}
	}

	svg := village.Build(village.Params{
		Width:        cmd.Width,
		Height:       cmd.Height,
		Theme:        cmd.Theme,
		Characters:   characters,
		Username:     username,
		TotalCommits: totalCommits,
		Lang:         cmd.Lang,
	})

	return VillageRenderResult{
		SVG:          svg,
		TotalCommits: totalCommits,
		Visitors:     visitors,
	}, nil
}

func characterCountFor(totalCommits int) int {
	count := totalCommits/commitsPerCharacter + villageBaseCharacters
	if count < villageBaseCharacters {
		count = villageBaseCharacters
	}
	if count > villageMaxCharacters {
		count = villageMaxCharacters
	}
	return count
}
