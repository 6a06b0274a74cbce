package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/git-bubble/api/internal/services"
)

type stubAssetService struct {
	uploadFunc func(ctx context.Context, cmd services.AssetUploadCommand) (services.AssetUploadResult, error)
}

func (s *stubAssetService) Upload(ctx context.Context, cmd services.AssetUploadCommand) (services.AssetUploadResult, error) {
	return s.uploadFunc(ctx, cmd)
}

func TestAssetHandlersUploadSuccess(t *testing.T) {
	now := time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	var captured services.AssetUploadCommand
	service := &stubAssetService{
		uploadFunc: func(_ context.Context, cmd services.AssetUploadCommand) (services.AssetUploadResult, error) {
			captured = cmd
			return services.AssetUploadResult{
				URL:        "https://storage.googleapis.com/assets/assets/ab12.png",
				Object:     "assets/ab12.png",
				UploadedAt: now,
			}, nil
		},
	}

	handler := NewAssetHandlers(service)
	router := NewRouter(WithAssetRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", bytes.NewReader([]byte{0x89, 'P', 'N', 'G', 1, 2, 3}))
	req.Header.Set("Content-Type", "image/png")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if captured.ContentType != "image/png" {
		t.Fatalf("expected content type forwarded, got %q", captured.ContentType)
	}
	if len(captured.Data) != 7 {
		t.Fatalf("expected body forwarded, got %d bytes", len(captured.Data))
	}

	var payload assetUploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.Object != "assets/ab12.png" {
		t.Fatalf("unexpected object %q", payload.Object)
	}
	if payload.UploadedAt != "2024-07-15T10:30:00Z" {
		t.Fatalf("unexpected timestamp %q", payload.UploadedAt)
	}
}

func TestAssetHandlersUploadEmptyBody(t *testing.T) {
	handler := NewAssetHandlers(&stubAssetService{
		uploadFunc: func(context.Context, services.AssetUploadCommand) (services.AssetUploadResult, error) {
			t.Fatal("upload should not be called")
			return services.AssetUploadResult{}, nil
		},
	})
	router := NewRouter(WithAssetRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestAssetHandlersUploadInvalidInput(t *testing.T) {
	handler := NewAssetHandlers(&stubAssetService{
		uploadFunc: func(context.Context, services.AssetUploadCommand) (services.AssetUploadResult, error) {
			return services.AssetUploadResult{}, services.ErrAssetInvalidInput
		},
	})
	router := NewRouter(WithAssetRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", bytes.NewReader([]byte("notanimage")))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestAssetHandlersUploadTooLarge(t *testing.T) {
	handler := NewAssetHandlers(&stubAssetService{
		uploadFunc: func(context.Context, services.AssetUploadCommand) (services.AssetUploadResult, error) {
			t.Fatal("upload should not be called")
			return services.AssetUploadResult{}, nil
		},
	})
	router := NewRouter(WithAssetRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", bytes.NewReader(make([]byte, maxAssetUploadBytes+1)))
	req.Header.Set("Content-Type", "image/png")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}
