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

// Village parameter bounds.
const (
	villageDefaultWidth  = 600.0
	villageMinWidth      = 300.0
	villageMaxWidth      = 1200.0
	villageDefaultHeight = 200.0
	villageMinHeight     = 100.0
	villageMaxHeight     = 400.0
)

// VillageHandlers exposes the pixel-art village rendering endpoint.
type VillageHandlers struct {
	villages services.VillageService
	usage    services.UsageService
}

// NewVillageHandlers constructs a new VillageHandlers instance.
func NewVillageHandlers(villages services.VillageService, usage services.UsageService) *VillageHandlers {
	return &VillageHandlers{
		villages: villages,
		usage:    usage,
	}
}

// Routes registers the /village endpoint.
func (h *VillageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.render)
}

func (h *VillageHandlers) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.villages == nil {
		httpx.WriteText(ctx, w, httpx.NewError("village_service_unavailable", "village service unavailable", http.StatusServiceUnavailable))
		return
	}

	q := r.URL.Query()
	username := strings.TrimSpace(q.Get("username"))
	if username == "" {
		httpx.WriteText(ctx, w, httpx.NewError("missing_parameter", "Missing required parameter: username", http.StatusBadRequest))
		return
	}

	cmd := services.VillageRenderCommand{
		Username: username,
		Width:    domain.ClampFloat(queryFloat(r, "width", villageDefaultWidth), villageMinWidth, villageMaxWidth),
		Height:   domain.ClampFloat(queryFloat(r, "height", villageDefaultHeight), villageMinHeight, villageMaxHeight),
		Theme:    domain.ParseTheme(q.Get("theme")),
		Lang:     domain.ParseLang(q.Get("lang")),
	}

	result, err := h.villages.Render(ctx, cmd)
	if err != nil {
		if errors.Is(err, services.ErrVillageUsernameRequired) {
			httpx.WriteText(ctx, w, httpx.NewError("missing_parameter", "Missing required parameter: username", http.StatusBadRequest))
			return
		}
		httpx.WriteText(ctx, w, httpx.NewError("render_failed", "Internal server error", http.StatusInternalServerError))
		return
	}

	if h.usage != nil {
		h.usage.RecordRender(ctx, usageSampleFromRequest(r, domain.FeatureVillage, username, cmd.Theme))
	}

	writeSVG(w, result.SVG)
}
