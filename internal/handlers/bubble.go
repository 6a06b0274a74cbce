package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/platform/httpx"
	"github.com/git-bubble/api/internal/render/bubble"
	"github.com/git-bubble/api/internal/services"
)

// Bubble parameter bounds.
const (
	bubbleMinWidth        = 300.0
	bubbleMaxWidth        = 600.0
	bubbleDefaultWidth    = 400.0
	bubbleMinFontSize     = 10.0
	bubbleMaxFontSize     = 16.0
	bubbleDefaultFontSize = 12.0
)

// BubbleHandlers exposes the chat bubble rendering endpoint.
type BubbleHandlers struct {
	bubbles services.BubbleService
	usage   services.UsageService
}

// NewBubbleHandlers constructs a new BubbleHandlers instance.
func NewBubbleHandlers(bubbles services.BubbleService, usage services.UsageService) *BubbleHandlers {
	return &BubbleHandlers{
		bubbles: bubbles,
		usage:   usage,
	}
}

// Routes registers the /bubble endpoint.
func (h *BubbleHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.render)
}

func (h *BubbleHandlers) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bubbles == nil {
		httpx.WriteText(ctx, w, httpx.NewError("bubble_service_unavailable", "bubble service unavailable", http.StatusServiceUnavailable))
		return
	}

	q := r.URL.Query()
	content := q.Get("tags")
	if strings.TrimSpace(content) == "" {
		httpx.WriteText(ctx, w, httpx.NewError("missing_parameter", "Missing required parameter: tags", http.StatusBadRequest))
		return
	}

	cmd := services.BubbleRenderCommand{
		Title:     q.Get("title"),
		Content:   content,
		Mode:      domain.ParseBubbleMode(q.Get("mode")),
		Theme:     domain.ParseTheme(q.Get("theme")),
		Direction: domain.ResolveDirection(q.Get("direction"), queryBool(r, "isOwn")),
		Width:     domain.ClampFloat(queryFloat(r, "width", bubbleDefaultWidth), bubbleMinWidth, bubbleMaxWidth),
		FontSize:  domain.ClampFloat(queryFloat(r, "fontSize", bubbleDefaultFontSize), bubbleMinFontSize, bubbleMaxFontSize),
		Animation: domain.ParseAnimation(q.Get("animation")),
		Profile:   q.Get("profileUrl"),
	}

	svg, err := h.bubbles.Render(ctx, cmd)
	if err != nil {
		if errors.Is(err, bubble.ErrEmptyContent) {
			httpx.WriteText(ctx, w, httpx.NewError("missing_parameter", "Missing required parameter: tags", http.StatusBadRequest))
			return
		}
		httpx.WriteText(ctx, w, httpx.NewError("render_failed", "Internal server error", http.StatusInternalServerError))
		return
	}

	if h.usage != nil {
		h.usage.RecordRender(ctx, usageSampleFromRequest(r, domain.FeatureBubble, "", cmd.Theme))
	}

	writeSVG(w, svg)
}
