package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	domain "github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/platform/requestctx"
	"github.com/git-bubble/api/internal/repositories"
)

const (
	eventIDPrefix = "re_"

	// Hash salt used when no deployment-specific salt is configured.
	defaultIPSalt = "git-bubble"
)

// UsageSample is the raw request context captured at the HTTP seam.
type UsageSample struct {
	Feature   FeatureType
	Username  string
	Theme     Theme
	Referer   string
	UserAgent string
	RemoteIP  string
}

// UsageServiceDeps bundles collaborators required to construct a usage service instance.
type UsageServiceDeps struct {
	Logs      repositories.UsageLogRepository
	Publisher RenderEventPublisher
	Analytics AnalyticsSink
	IPSalt    string
	Clock     func() time.Time
	IDGen     func() string
}

type usageService struct {
	logs      repositories.UsageLogRepository
	publisher RenderEventPublisher
	analytics AnalyticsSink
	ipSalt    string
	clock     func() time.Time
	idGen     func() string
}

// NewUsageService constructs a service that records render events. All
// collaborators are optional; whatever is wired receives the event.
func NewUsageService(deps UsageServiceDeps) (UsageService, error) {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return eventIDPrefix + ulid.Make().String() }
	}
	salt := deps.IPSalt
	if strings.TrimSpace(salt) == "" {
		salt = defaultIPSalt
	}
	return &usageService{
		logs:      deps.Logs,
		publisher: deps.Publisher,
		analytics: deps.Analytics,
		ipSalt:    salt,
		clock:     clock,
		idGen:     idGen,
	}, nil
}

// RecordRender persists and publishes a render event. Failures are logged and
// swallowed; usage tracking must never affect the rendered response.
func (s *usageService) RecordRender(ctx context.Context, sample UsageSample) {
	if s == nil {
		return
	}
	logger := requestctx.Logger(ctx)

	event := domain.RenderEvent{
		ID:         s.idGen(),
		Feature:    sample.Feature,
		Username:   strings.TrimSpace(sample.Username),
		Theme:      sample.Theme,
		Referer:    strings.TrimSpace(sample.Referer),
		UserAgent:  strings.TrimSpace(sample.UserAgent),
		IPHash:     HashIP(sample.RemoteIP, s.ipSalt),
		FromGitHub: IsGitHubEmbed(sample.UserAgent, sample.Referer),
		RenderedAt: s.clock().UTC(),
	}

	if s.logs != nil {
		if err := s.logs.Append(ctx, event); err != nil {
			logger.Warn("usage log append failed", zap.String("event_id", event.ID), zap.Error(err))
		}
	}

	message := RenderEventMessage{
		EventID:    event.ID,
		Feature:    string(event.Feature),
		Username:   event.Username,
		Theme:      string(event.Theme),
		FromGitHub: event.FromGitHub,
		RenderedAt: event.RenderedAt,
	}

	if s.publisher != nil {
		if _, err := s.publisher.PublishRenderEvent(ctx, message); err != nil {
			logger.Warn("render event publish failed", zap.String("event_id", event.ID), zap.Error(err))
		}
	}

	if s.analytics != nil {
		if err := s.analytics.SendRenderEvent(ctx, event.IPHash, message); err != nil {
			logger.Warn("analytics event failed", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
}

// HashIP reduces a client address to a short stable salted hash. The raw
// address is never stored.
func HashIP(ip, salt string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:8])
}

// IsGitHubEmbed reports whether the request came through GitHub's image proxy,
// which is how README embeds arrive.
func IsGitHubEmbed(userAgent, referer string) bool {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "github-camo") || strings.Contains(ua, "camo asset proxy") {
		return true
	}
	ref := strings.ToLower(referer)
	return strings.Contains(ref, "github.com")
}
