package fetch

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// Responses smaller than this are treated as error pages or tracking
	// pixels rather than usable images.
	minImageBytes = 100

	defaultTimeout  = 5 * time.Second
	defaultMaxBytes = 5 << 20
)

var (
	ErrNotAnImage    = errors.New("fetch: response is not an image")
	ErrImageTooSmall = errors.New("fetch: image body too small")
)

// ImageFetcher downloads remote images and converts them to data URIs so the
// rendered SVG has no external references.
type ImageFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// ImageFetcherOption customises the fetcher.
type ImageFetcherOption func(*ImageFetcher)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) ImageFetcherOption {
	return func(f *ImageFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithMaxBytes caps the number of bytes read from a response body.
func WithMaxBytes(n int64) ImageFetcherOption {
	return func(f *ImageFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent on outbound requests.
func WithUserAgent(ua string) ImageFetcherOption {
	return func(f *ImageFetcher) {
		if strings.TrimSpace(ua) != "" {
			f.userAgent = ua
		}
	}
}

// NewImageFetcher constructs an ImageFetcher with sane bounds.
func NewImageFetcher(opts ...ImageFetcherOption) *ImageFetcher {
	f := &ImageFetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// FetchAsDataURI downloads the image at rawURL and returns it encoded as a
// base64 data URI. Responses that are not images, or too small to be one,
// yield an error so callers can fall back to generated placeholders.
func (f *ImageFetcher) FetchAsDataURI(ctx context.Context, rawURL string) (string, error) {
	if f == nil {
		return "", errors.New("fetch: image fetcher is nil")
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("fetch: url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: get %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("fetch: read body: %w", err)
	}
	if len(body) < minImageBytes {
		return "", ErrImageTooSmall
	}

	contentType := normalizeContentType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		contentType = sniffImageType(body)
	}
	if contentType == "" {
		return "", ErrNotAnImage
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	return "data:" + contentType + ";base64," + encoded, nil
}

func normalizeContentType(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	if idx := strings.IndexByte(header, ';'); idx >= 0 {
		header = strings.TrimSpace(header[:idx])
	}
	return header
}

// sniffImageType recognises the handful of formats worth embedding. Servers
// frequently mislabel avatars as text/html or octet-stream.
func sniffImageType(body []byte) string {
	switch {
	case bytes.HasPrefix(body, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(body, []byte("\xff\xd8\xff")):
		return "image/jpeg"
	case bytes.HasPrefix(body, []byte("GIF87a")) || bytes.HasPrefix(body, []byte("GIF89a")):
		return "image/gif"
	case len(body) >= 12 && bytes.Equal(body[0:4], []byte("RIFF")) && bytes.Equal(body[8:12], []byte("WEBP")):
		return "image/webp"
	case looksLikeSVG(body):
		return "image/svg+xml"
	default:
		return ""
	}
}

func looksLikeSVG(body []byte) bool {
	head := bytes.TrimSpace(body)
	if len(head) > 256 {
		head = head[:256]
	}
	return bytes.Contains(head, []byte("<svg"))
}
