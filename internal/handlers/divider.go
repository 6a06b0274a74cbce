package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/render/divider"
	"github.com/git-bubble/api/internal/services"
)

// Divider parameter bounds.
const (
	dividerDefaultWidth = 400.0
	dividerDefaultColor = "#000000"
	dividerMinSize      = 0.5
	dividerMaxSize      = 2.0
)

// DividerHandlers exposes the divider rendering endpoint. The builder is a
// pure function with no collaborators, so there is no service behind it.
type DividerHandlers struct {
	usage services.UsageService
}

// NewDividerHandlers constructs a new DividerHandlers instance.
func NewDividerHandlers(usage services.UsageService) *DividerHandlers {
	return &DividerHandlers{usage: usage}
}

// Routes registers the /divider endpoint.
func (h *DividerHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.render)
}

func (h *DividerHandlers) render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	theme := domain.ParseTheme(q.Get("theme"))

	svg := divider.Build(divider.Params{
		Width:     queryFloat(r, "width", dividerDefaultWidth),
		Style:     divider.ParseStyle(q.Get("style")),
		Color:     safeColor(q.Get("color"), dividerDefaultColor),
		Animation: q.Get("animation") != "false",
		Theme:     theme,
		Size:      domain.ClampFloat(queryFloat(r, "size", 1.0), dividerMinSize, dividerMaxSize),
	})

	if h.usage != nil {
		h.usage.RecordRender(r.Context(), usageSampleFromRequest(r, domain.FeatureDivider, "", theme))
	}

	writeSVG(w, svg)
}
