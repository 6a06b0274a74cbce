package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// PageMetadata holds the Open Graph fields extracted from a page. FaviconURL
// is the icon the page declares via a link element, already resolved against
// the page URL; empty when the page declares none.
type PageMetadata struct {
	Title       string
	Description string
	ImageURL    string
	SiteName    string
	FaviconURL  string
}

// MetadataFetcher downloads a page and extracts link-preview metadata.
type MetadataFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
	sanitizer *bluemonday.Policy
}

// MetadataFetcherOption customises the fetcher.
type MetadataFetcherOption func(*MetadataFetcher)

// WithMetadataHTTPClient overrides the HTTP client used for page downloads.
func WithMetadataHTTPClient(client *http.Client) MetadataFetcherOption {
	return func(f *MetadataFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithMetadataMaxBytes caps the number of bytes read from a page body.
func WithMetadataMaxBytes(n int64) MetadataFetcherOption {
	return func(f *MetadataFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithMetadataUserAgent sets the User-Agent header sent on outbound requests.
func WithMetadataUserAgent(ua string) MetadataFetcherOption {
	return func(f *MetadataFetcher) {
		if strings.TrimSpace(ua) != "" {
			f.userAgent = ua
		}
	}
}

// NewMetadataFetcher constructs a MetadataFetcher.
func NewMetadataFetcher(opts ...MetadataFetcherOption) *MetadataFetcher {
	f := &MetadataFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		maxBytes:  defaultMaxBytes,
		sanitizer: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fetch downloads the page at rawURL and extracts Open Graph metadata,
// falling back to the document title and meta description. All extracted
// text is stripped of markup before it reaches the SVG layer.
func (f *MetadataFetcher) Fetch(ctx context.Context, rawURL string) (PageMetadata, error) {
	if f == nil {
		return PageMetadata{}, errors.New("fetch: metadata fetcher is nil")
	}

	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || pageURL.Host == "" {
		return PageMetadata{}, fmt.Errorf("fetch: invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return PageMetadata{}, fmt.Errorf("fetch: build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return PageMetadata{}, fmt.Errorf("fetch: get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PageMetadata{}, fmt.Errorf("fetch: get %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return PageMetadata{}, fmt.Errorf("fetch: parse page: %w", err)
	}

	meta := PageMetadata{
		Title:       f.clean(metaContent(doc, "og:title")),
		Description: f.clean(metaContent(doc, "og:description")),
		SiteName:    f.clean(metaContent(doc, "og:site_name")),
		ImageURL:    resolveRef(pageURL, metaContent(doc, "og:image")),
		FaviconURL:  resolveRef(pageURL, faviconRef(doc)),
	}

	if meta.Title == "" {
		meta.Title = f.clean(doc.Find("title").First().Text())
	}
	if meta.Description == "" {
		meta.Description = f.clean(metaNameContent(doc, "description"))
	}
	if meta.SiteName == "" {
		meta.SiteName = pageURL.Hostname()
	}

	return meta, nil
}

// FaviconCandidates returns favicon URLs in preference order for the given
// page: the icon the page declares first, then the Google favicon service,
// then the conventional root paths. Callers try each until one yields a
// usable image.
func FaviconCandidates(pageURL, declared string) []string {
	parsed, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || parsed.Host == "" {
		return nil
	}
	origin := parsed.Scheme + "://" + parsed.Host
	var candidates []string
	if declared = strings.TrimSpace(declared); declared != "" {
		candidates = append(candidates, declared)
	}
	return append(candidates,
		"https://www.google.com/s2/favicons?domain="+url.QueryEscape(parsed.Hostname())+"&sz=64",
		origin+"/favicon.ico",
		origin+"/favicon.png",
	)
}

func (f *MetadataFetcher) clean(s string) string {
	return strings.TrimSpace(f.sanitizer.Sanitize(s))
}

func metaContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(value)
}

// faviconRef finds the first link element whose rel names an icon. The rel
// attribute is token-matched, so "shortcut icon" and "icon" both qualify.
func faviconRef(doc *goquery.Document) string {
	var href string
	doc.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		for _, token := range strings.Fields(strings.ToLower(rel)) {
			if token == "icon" || token == "apple-touch-icon" {
				href, _ = s.Attr("href")
				return false
			}
		}
		return true
	})
	return strings.TrimSpace(href)
}

func metaNameContent(doc *goquery.Document, name string) string {
	value, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return strings.TrimSpace(value)
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
