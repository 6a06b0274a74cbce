package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubImageEmbedder struct {
	uri string
	err error
}

func (s *stubImageEmbedder) FetchAsDataURI(context.Context, string) (string, error) {
	return s.uri, s.err
}

func TestImageProxyHandlersSuccess(t *testing.T) {
	handler := NewImageProxyHandlers(&stubImageEmbedder{uri: "data:image/png;base64,AAAA"})
	router := NewRouter(WithImageProxyRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy?url=https://example.com/a.png", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %s", ct)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != proxyCacheControl {
		t.Fatalf("unexpected cache control %s", cc)
	}
	if body := rr.Body.String(); body != "data:image/png;base64,AAAA" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestImageProxyHandlersRejectsNonHTTP(t *testing.T) {
	handler := NewImageProxyHandlers(&stubImageEmbedder{uri: "data:image/png;base64,AAAA"})
	router := NewRouter(WithImageProxyRoutes(handler.Routes))

	for _, raw := range []string{"", "ftp://example.com/a.png", "javascript:alert(1)"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy?url="+raw, nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("url %q: expected status 400, got %d", raw, rr.Code)
		}
		if body := rr.Body.String(); body != "Invalid image URL" {
			t.Fatalf("url %q: unexpected body %q", raw, body)
		}
	}
}

func TestImageProxyHandlersFetchFailure(t *testing.T) {
	handler := NewImageProxyHandlers(&stubImageEmbedder{err: errors.New("boom")})
	router := NewRouter(WithImageProxyRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/image-proxy?url=https://example.com/a.png", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}
	if body := rr.Body.String(); body != "Failed to load image" {
		t.Fatalf("unexpected body %q", body)
	}
}
