package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/git-bubble/api/internal/platform/httpx"
	"github.com/git-bubble/api/internal/services"
)

const maxAssetUploadBytes = 2 << 20

// AssetHandlers exposes the image upload endpoint backing custom thumbnails
// and badge images.
type AssetHandlers struct {
	assets services.AssetService
}

// NewAssetHandlers constructs a new AssetHandlers instance.
func NewAssetHandlers(assets services.AssetService) *AssetHandlers {
	return &AssetHandlers{assets: assets}
}

// Routes registers the asset endpoints on the provided router.
func (h *AssetHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.upload)
}

func (h *AssetHandlers) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.assets == nil {
		httpx.WriteError(ctx, w, httpx.NewError("asset_service_unavailable", "asset service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxAssetUploadBytes)
	if err != nil {
		switch {
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	result, err := h.assets.Upload(ctx, services.AssetUploadCommand{
		ContentType: r.Header.Get("Content-Type"),
		Data:        body,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAssetInvalidInput):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		case errors.Is(err, services.ErrAssetTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", err.Error(), http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("asset_upload_failed", err.Error(), http.StatusBadGateway))
		}
		return
	}

	payload := assetUploadResponse{
		URL:    result.URL,
		Object: result.Object,
	}
	if !result.UploadedAt.IsZero() {
		payload.UploadedAt = result.UploadedAt.UTC().Format(time.RFC3339)
	}

	writeJSONResponse(w, http.StatusCreated, payload)
}

type assetUploadResponse struct {
	URL        string `json:"url"`
	Object     string `json:"object"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}
