package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"

	"github.com/git-bubble/api/internal/services"
)

// PubSubRenderPublisher publishes render events to a Pub/Sub topic.
type PubSubRenderPublisher struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubRenderPublisher constructs a Pub/Sub backed render event publisher.
func NewPubSubRenderPublisher(topic *pubsub.Topic) (*PubSubRenderPublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub render publisher: topic is required")
	}
	return &PubSubRenderPublisher{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// PublishRenderEvent enqueues a render event message on the configured topic.
func (p *PubSubRenderPublisher) PublishRenderEvent(ctx context.Context, message services.RenderEventMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub render publisher: not initialised")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal render event: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "eventId", message.EventID)
	setAttr(attrs, "feature", message.Feature)
	setAttr(attrs, "username", message.Username)
	if message.FromGitHub {
		attrs["fromGithub"] = "true"
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish render event: %w", err)
	}
	return id, nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
