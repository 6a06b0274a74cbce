package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/git-bubble/api/internal/platform/fetch"
	"github.com/git-bubble/api/internal/platform/requestctx"
	"github.com/git-bubble/api/internal/render/linkcard"
)

// ErrLinkInvalidURL indicates the requested link URL cannot be parsed.
var ErrLinkInvalidURL = errors.New("link: invalid url")

// LinkCardRenderCommand carries the validated link card parameters.
type LinkCardRenderCommand struct {
	URL           string
	Width         float64
	Theme         Theme
	Badge         bool
	BadgeText     string
	BadgeColor    string
	BadgeImageURL string
}

// LinkCardServiceDeps bundles collaborators required to construct a link card service instance.
type LinkCardServiceDeps struct {
	Metadata PageMetadataFetcher
	Images   ImageEmbedder
}

type linkCardService struct {
	metadata PageMetadataFetcher
	images   ImageEmbedder
}

// NewLinkCardService constructs a service that fetches page metadata and renders preview cards.
func NewLinkCardService(deps LinkCardServiceDeps) (LinkCardService, error) {
	return &linkCardService{
		metadata: deps.Metadata,
		images:   deps.Images,
	}, nil
}

func (s *linkCardService) Render(ctx context.Context, cmd LinkCardRenderCommand) (string, error) {
	target, err := url.Parse(strings.TrimSpace(cmd.URL))
	if err != nil || target.Hostname() == "" {
		return "", ErrLinkInvalidURL
	}
	displayDomain := strings.TrimPrefix(target.Hostname(), "www.")

	params := linkcard.Params{
		Domain:     displayDomain,
		Width:      cmd.Width,
		Theme:      cmd.Theme,
		Badge:      cmd.Badge,
		BadgeText:  cmd.BadgeText,
		BadgeColor: cmd.BadgeColor,
	}

	logger := requestctx.Logger(ctx)

	// Metadata failures render the fallback card instead of an error so a
	// dead link never breaks a README.
	var declaredFavicon string
	if s.metadata != nil {
		meta, err := s.metadata.Fetch(ctx, target.String())
		if err != nil {
			logger.Warn("metadata fetch failed", zap.String("url", target.String()), zap.Error(err))
		} else {
			declaredFavicon = meta.FaviconURL
			params.Metadata = &linkcard.Metadata{
				Title:       meta.Title,
				Description: meta.Description,
				Image:       meta.ImageURL,
				Domain:      displayDomain,
			}
		}
	}

	if s.images != nil && params.Metadata != nil {
		if params.Metadata.Image != "" {
			if uri, err := s.images.FetchAsDataURI(ctx, params.Metadata.Image); err != nil {
				logger.Warn("thumbnail fetch failed", zap.String("url", params.Metadata.Image), zap.Error(err))
			} else {
				params.ThumbnailDataURI = uri
			}
		}
		params.FaviconDataURI = s.resolveFavicon(ctx, target.String(), declaredFavicon)
	}

	if s.images != nil && cmd.Badge && isRemoteURL(cmd.BadgeImageURL) {
		if uri, err := s.images.FetchAsDataURI(ctx, cmd.BadgeImageURL); err != nil {
			logger.Warn("badge image fetch failed", zap.String("url", cmd.BadgeImageURL), zap.Error(err))
		} else {
			params.BadgeImageDataURI = uri
		}
	}

	return linkcard.Build(params), nil
}

// resolveFavicon walks the candidate list until one fetch succeeds.
func (s *linkCardService) resolveFavicon(ctx context.Context, pageURL, declared string) string {
	for _, candidate := range fetch.FaviconCandidates(pageURL, declared) {
		uri, err := s.images.FetchAsDataURI(ctx, candidate)
		if err != nil {
			continue
		}
		return uri
	}
	return ""
}
