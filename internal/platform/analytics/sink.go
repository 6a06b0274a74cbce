package analytics

import (
	"context"
	"errors"

	"github.com/git-bubble/api/internal/services"
)

// GA4RenderSink forwards render events to Google Analytics.
type GA4RenderSink struct {
	client *GA4Client
}

// NewGA4RenderSink wraps a GA4 client as a render event sink.
func NewGA4RenderSink(client *GA4Client) (*GA4RenderSink, error) {
	if client == nil {
		return nil, errors.New("analytics: ga4 client is required")
	}
	return &GA4RenderSink{client: client}, nil
}

// SendRenderEvent implements services.AnalyticsSink.
func (s *GA4RenderSink) SendRenderEvent(ctx context.Context, clientID string, message services.RenderEventMessage) error {
	if s == nil || s.client == nil {
		return errors.New("analytics: sink not initialised")
	}
	params := map[string]any{
		"feature":     message.Feature,
		"from_github": message.FromGitHub,
	}
	if message.Username != "" {
		params["username"] = message.Username
	}
	if message.Theme != "" {
		params["theme"] = message.Theme
	}
	return s.client.Send(ctx, clientID, Event{Name: "badge_render", Params: params})
}
