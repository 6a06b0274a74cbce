package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pngBody() []byte {
	body := []byte("\x89PNG\r\n\x1a\n")
	return append(body, bytes.Repeat([]byte{0x00}, 200)...)
}

func TestImageFetcherFetchAsDataURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("unexpected user agent %q", got)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBody())
	}))
	defer srv.Close()

	fetcher := NewImageFetcher(WithUserAgent("test-agent"))

	uri, err := fetcher.FetchAsDataURI(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchAsDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri prefix: %.40s", uri)
	}
}

func TestImageFetcherSniffsMislabelledImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngBody())
	}))
	defer srv.Close()

	fetcher := NewImageFetcher()

	uri, err := fetcher.FetchAsDataURI(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchAsDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("expected sniffed png, got %.40s", uri)
	}
}

func TestImageFetcherRejectsTinyBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("tiny"))
	}))
	defer srv.Close()

	fetcher := NewImageFetcher()

	if _, err := fetcher.FetchAsDataURI(context.Background(), srv.URL); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("expected ErrImageTooSmall, got %v", err)
	}
}

func TestImageFetcherRejectsNonImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("<html>not an image</html>", 20)))
	}))
	defer srv.Close()

	fetcher := NewImageFetcher()

	if _, err := fetcher.FetchAsDataURI(context.Background(), srv.URL); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
}

func TestImageFetcherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewImageFetcher()

	if _, err := fetcher.FetchAsDataURI(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestImageFetcherCapsBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(bytes.Repeat([]byte{0xAB}, 4096))
	}))
	defer srv.Close()

	fetcher := NewImageFetcher(WithMaxBytes(512))

	uri, err := fetcher.FetchAsDataURI(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchAsDataURI: %v", err)
	}
	// 512 bytes encode to 684 base64 characters plus the prefix.
	if len(uri) > 800 {
		t.Fatalf("expected capped body, got %d chars", len(uri))
	}
}
