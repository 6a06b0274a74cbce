package services

import (
	"context"
	"time"

	domain "github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/platform/fetch"
	"github.com/git-bubble/api/internal/platform/github"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Theme         = domain.Theme
	Direction     = domain.Direction
	BubbleMode    = domain.BubbleMode
	Animation     = domain.Animation
	Lang          = domain.Lang
	FeatureType   = domain.FeatureType
	RenderEvent   = domain.RenderEvent
	VillageRecord = domain.VillageRecord
)

// ImageEmbedder converts remote images into inline data URIs.
type ImageEmbedder interface {
	FetchAsDataURI(ctx context.Context, url string) (string, error)
}

// PageMetadataFetcher extracts link-preview metadata from a page.
type PageMetadataFetcher interface {
	Fetch(ctx context.Context, url string) (fetch.PageMetadata, error)
}

// CommitStatsProvider reports recent commit activity for a GitHub user.
type CommitStatsProvider interface {
	RecentRepoCommits(ctx context.Context, username string) ([]github.RepoCommits, error)
}

// RenderEventMessage is the payload published for each recorded render.
type RenderEventMessage struct {
	EventID    string    `json:"eventId"`
	Feature    string    `json:"feature"`
	Username   string    `json:"username,omitempty"`
	Theme      string    `json:"theme,omitempty"`
	FromGitHub bool      `json:"fromGithub"`
	RenderedAt time.Time `json:"renderedAt"`
}

// RenderEventPublisher delivers render events to the analytics pipeline.
type RenderEventPublisher interface {
	PublishRenderEvent(ctx context.Context, message RenderEventMessage) (string, error)
}

// AnalyticsSink forwards render events to an external analytics backend.
type AnalyticsSink interface {
	SendRenderEvent(ctx context.Context, clientID string, message RenderEventMessage) error
}

// BubbleService renders chat bubble SVGs, resolving remote profile images first.
type BubbleService interface {
	Render(ctx context.Context, cmd BubbleRenderCommand) (string, error)
}

// LinkCardService renders link preview cards from fetched page metadata.
type LinkCardService interface {
	Render(ctx context.Context, cmd LinkCardRenderCommand) (string, error)
}

// VillageService renders pixel-art villages from GitHub activity.
type VillageService interface {
	Render(ctx context.Context, cmd VillageRenderCommand) (VillageRenderResult, error)
}

// UsageService records render events as a fire-and-forget side effect.
type UsageService interface {
	RecordRender(ctx context.Context, sample UsageSample)
}

// AssetService stores uploaded images and returns their public URLs.
type AssetService interface {
	Upload(ctx context.Context, cmd AssetUploadCommand) (AssetUploadResult, error)
}
