package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/git-bubble/api/internal/domain"
)

type stubEmbedder struct {
	uris    map[string]string
	err     error
	fetched []string
}

func (s *stubEmbedder) FetchAsDataURI(_ context.Context, url string) (string, error) {
	s.fetched = append(s.fetched, url)
	if s.err != nil {
		return "", s.err
	}
	if uri, ok := s.uris[url]; ok {
		return uri, nil
	}
	return "", errors.New("stub: unknown url")
}

func baseBubbleCommand() BubbleRenderCommand {
	return BubbleRenderCommand{
		Content:   "Go, TypeScript",
		Mode:      domain.ModeTags,
		Theme:     domain.ThemeLight,
		Direction: domain.DirectionLeft,
		Width:     400,
		FontSize:  14,
		Animation: domain.AnimationNone,
	}
}

func TestBubbleServiceEmbedsRemoteProfile(t *testing.T) {
	embedder := &stubEmbedder{uris: map[string]string{
		"https://example.com/me.png": "data:image/png;base64,QUJD",
	}}
	svc, err := NewBubbleService(BubbleServiceDeps{Images: embedder})
	if err != nil {
		t.Fatalf("NewBubbleService: %v", err)
	}

	cmd := baseBubbleCommand()
	cmd.Profile = "https://example.com/me.png"

	svg, err := svc.Render(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(svg, "data:image/png;base64,QUJD") {
		t.Error("expected embedded profile image in svg")
	}
	if len(embedder.fetched) != 1 {
		t.Fatalf("expected 1 fetch, got %d", len(embedder.fetched))
	}
}

func TestBubbleServiceFallsBackOnFetchFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("unreachable")}
	svc, err := NewBubbleService(BubbleServiceDeps{Images: embedder})
	if err != nil {
		t.Fatalf("NewBubbleService: %v", err)
	}

	cmd := baseBubbleCommand()
	cmd.Profile = "https://example.com/broken.png"

	svg, err := svc.Render(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(svg, "<image") {
		t.Error("expected generated avatar, not an image element")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected fallback circle avatar")
	}
}

func TestBubbleServiceSkipsFetchForPlainText(t *testing.T) {
	embedder := &stubEmbedder{}
	svc, err := NewBubbleService(BubbleServiceDeps{Images: embedder})
	if err != nil {
		t.Fatalf("NewBubbleService: %v", err)
	}

	cmd := baseBubbleCommand()
	cmd.Profile = "dev@example.com"

	if _, err := svc.Render(context.Background(), cmd); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(embedder.fetched) != 0 {
		t.Fatalf("expected no fetches for plain text profile, got %d", len(embedder.fetched))
	}
}

func TestBubbleServicePropagatesEmptyContentError(t *testing.T) {
	svc, err := NewBubbleService(BubbleServiceDeps{})
	if err != nil {
		t.Fatalf("NewBubbleService: %v", err)
	}

	cmd := baseBubbleCommand()
	cmd.Content = "   "

	if _, err := svc.Render(context.Background(), cmd); err == nil {
		t.Fatal("expected error for empty content")
	}
}
