package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/git-bubble/api/internal/platform/requestctx"
	"github.com/git-bubble/api/internal/render/bubble"
)

// BubbleRenderCommand carries the validated bubble parameters plus the raw
// profile value, which may be a remote image URL.
type BubbleRenderCommand struct {
	Title     string
	Content   string
	Mode      BubbleMode
	Theme     Theme
	Direction Direction
	Width     float64
	FontSize  float64
	Animation Animation
	Profile   string
}

// BubbleServiceDeps bundles collaborators required to construct a bubble service instance.
type BubbleServiceDeps struct {
	Images ImageEmbedder
}

type bubbleService struct {
	images ImageEmbedder
}

// NewBubbleService constructs a service that resolves profile images and renders bubbles.
func NewBubbleService(deps BubbleServiceDeps) (BubbleService, error) {
	return &bubbleService{images: deps.Images}, nil
}

func (s *bubbleService) Render(ctx context.Context, cmd BubbleRenderCommand) (string, error) {
	profile := bubble.Profile{Value: strings.TrimSpace(cmd.Profile)}

	// A fetch failure falls back to the generated initial avatar rather
	// than failing the render.
	if s.images != nil && isRemoteURL(profile.Value) {
		uri, err := s.images.FetchAsDataURI(ctx, profile.Value)
		if err != nil {
			requestctx.Logger(ctx).Warn("profile image fetch failed",
				zap.String("url", profile.Value),
				zap.Error(err),
			)
		} else {
			profile.DataURI = uri
		}
	}

	return bubble.Build(bubble.Params{
		Title:     cmd.Title,
		Content:   cmd.Content,
		Mode:      cmd.Mode,
		Theme:     cmd.Theme,
		Direction: cmd.Direction,
		Width:     cmd.Width,
		FontSize:  cmd.FontSize,
		Animation: cmd.Animation,
		Profile:   profile,
	})
}

func isRemoteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
