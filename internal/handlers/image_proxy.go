package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/git-bubble/api/internal/platform/httpx"
	"github.com/git-bubble/api/internal/services"
)

// ImageProxyHandlers exposes the data-URI image proxy used by the in-browser
// preview, which cannot fetch cross-origin images itself.
type ImageProxyHandlers struct {
	images services.ImageEmbedder
}

// NewImageProxyHandlers constructs a new ImageProxyHandlers instance.
func NewImageProxyHandlers(images services.ImageEmbedder) *ImageProxyHandlers {
	return &ImageProxyHandlers{images: images}
}

// Routes registers the /image-proxy endpoint.
func (h *ImageProxyHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.proxy)
}

func (h *ImageProxyHandlers) proxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.images == nil {
		httpx.WriteText(ctx, w, httpx.NewError("image_proxy_unavailable", "image proxy unavailable", http.StatusServiceUnavailable))
		return
	}

	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		httpx.WriteText(ctx, w, httpx.NewError("invalid_parameter", "Invalid image URL", http.StatusBadRequest))
		return
	}

	dataURI, err := h.images.FetchAsDataURI(ctx, rawURL)
	if err != nil {
		httpx.WriteText(ctx, w, httpx.NewError("fetch_failed", "Failed to load image", http.StatusBadGateway))
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/plain; charset=utf-8")
	hdr.Set("Cache-Control", proxyCacheControl)
	hdr.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dataURI))
}
