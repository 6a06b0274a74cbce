package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetadataFetcherExtractsOpenGraph(t *testing.T) {
	page := `<!DOCTYPE html><html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="OG Description">
		<meta property="og:site_name" content="Example Site">
		<meta property="og:image" content="/images/preview.png">
		<link rel="shortcut icon" href="/static/fav.png">
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	fetcher := NewMetadataFetcher()

	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if meta.Title != "OG Title" {
		t.Errorf("unexpected title %q", meta.Title)
	}
	if meta.Description != "OG Description" {
		t.Errorf("unexpected description %q", meta.Description)
	}
	if meta.SiteName != "Example Site" {
		t.Errorf("unexpected site name %q", meta.SiteName)
	}
	if meta.ImageURL != srv.URL+"/images/preview.png" {
		t.Errorf("expected resolved image url, got %q", meta.ImageURL)
	}
	if meta.FaviconURL != srv.URL+"/static/fav.png" {
		t.Errorf("expected resolved declared favicon, got %q", meta.FaviconURL)
	}
}

func TestMetadataFetcherFallsBackToTitleTag(t *testing.T) {
	page := `<html><head>
		<title>Plain Title</title>
		<meta name="description" content="Plain description">
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	fetcher := NewMetadataFetcher()

	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if meta.Title != "Plain Title" {
		t.Errorf("unexpected title %q", meta.Title)
	}
	if meta.Description != "Plain description" {
		t.Errorf("unexpected description %q", meta.Description)
	}
	if meta.SiteName == "" {
		t.Error("expected hostname fallback for site name")
	}
	if meta.FaviconURL != "" {
		t.Errorf("expected no favicon without a link element, got %q", meta.FaviconURL)
	}
}

func TestMetadataFetcherStripsMarkup(t *testing.T) {
	page := `<html><head>
		<meta property="og:title" content="Hello &lt;script&gt;alert(1)&lt;/script&gt; World">
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	fetcher := NewMetadataFetcher()

	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if strings.Contains(meta.Title, "<script>") {
		t.Fatalf("expected markup stripped, got %q", meta.Title)
	}
}

func TestMetadataFetcherRejectsInvalidURL(t *testing.T) {
	fetcher := NewMetadataFetcher()
	if _, err := fetcher.Fetch(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestFaviconCandidates(t *testing.T) {
	candidates := FaviconCandidates("https://example.com/some/page", "https://example.com/static/fav.png")
	if len(candidates) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(candidates))
	}
	if candidates[0] != "https://example.com/static/fav.png" {
		t.Errorf("expected declared favicon first, got %s", candidates[0])
	}
	if !strings.Contains(candidates[1], "google.com/s2/favicons") {
		t.Errorf("expected favicon service second, got %s", candidates[1])
	}
	if candidates[2] != "https://example.com/favicon.ico" {
		t.Errorf("unexpected third candidate %s", candidates[2])
	}
	if candidates[3] != "https://example.com/favicon.png" {
		t.Errorf("unexpected fourth candidate %s", candidates[3])
	}

	without := FaviconCandidates("https://example.com/some/page", "")
	if len(without) != 3 || strings.Contains(without[0], "fav.png") {
		t.Errorf("expected service-first chain without a declared favicon, got %v", without)
	}

	if got := FaviconCandidates("::bad::", ""); got != nil {
		t.Errorf("expected nil for invalid url, got %v", got)
	}
}
