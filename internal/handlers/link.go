package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/platform/httpx"
	"github.com/git-bubble/api/internal/services"
)

const linkDefaultWidth = 400.0

// LinkHandlers exposes the link preview card rendering endpoint.
type LinkHandlers struct {
	cards services.LinkCardService
	usage services.UsageService
}

// NewLinkHandlers constructs a new LinkHandlers instance.
func NewLinkHandlers(cards services.LinkCardService, usage services.UsageService) *LinkHandlers {
	return &LinkHandlers{
		cards: cards,
		usage: usage,
	}
}

// Routes registers the /link endpoint.
func (h *LinkHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.render)
}

func (h *LinkHandlers) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.cards == nil {
		httpx.WriteText(ctx, w, httpx.NewError("link_service_unavailable", "link service unavailable", http.StatusServiceUnavailable))
		return
	}

	q := r.URL.Query()
	rawURL := strings.TrimSpace(q.Get("url"))
	if rawURL == "" {
		httpx.WriteText(ctx, w, httpx.NewError("missing_parameter", "Missing required parameter: url", http.StatusBadRequest))
		return
	}

	cmd := services.LinkCardRenderCommand{
		URL:           rawURL,
		Width:         queryFloat(r, "width", linkDefaultWidth),
		Theme:         domain.ParseTheme(q.Get("theme")),
		Badge:         queryBool(r, "badge"),
		BadgeText:     q.Get("badgeText"),
		BadgeColor:    safeColor(q.Get("badgeColor"), ""),
		BadgeImageURL: q.Get("badgeImage"),
	}

	svg, err := h.cards.Render(ctx, cmd)
	if err != nil {
		if errors.Is(err, services.ErrLinkInvalidURL) {
			httpx.WriteText(ctx, w, httpx.NewError("invalid_parameter", "Missing required parameter: url", http.StatusBadRequest))
			return
		}
		httpx.WriteText(ctx, w, httpx.NewError("render_failed", "Internal server error", http.StatusInternalServerError))
		return
	}

	if h.usage != nil {
		h.usage.RecordRender(ctx, usageSampleFromRequest(r, domain.FeatureLink, "", cmd.Theme))
	}

	writeSVG(w, svg)
}
