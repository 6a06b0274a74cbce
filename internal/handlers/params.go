package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/services"
)

var (
	errEmptyBody    = errors.New("request body is empty")
	errBodyTooLarge = errors.New("request body too large")
)

// Shared cache policy of every rendered image response.
const (
	svgCacheControl   = "public, max-age=3600, s-maxage=3600"
	proxyCacheControl = "public, max-age=3600"
)

// queryFloat parses a numeric query value, falling back when absent or invalid.
func queryFloat(r *http.Request, name string, fallback float64) float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// queryBool treats only the literal "true" as true.
func queryBool(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

// Color values are interpolated into SVG attributes, so anything beyond a
// hex code or a plain keyword is rejected.
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[a-zA-Z]{1,20})$`)

// safeColor validates a user-supplied color, falling back when it could not
// appear verbatim inside an attribute.
func safeColor(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !colorPattern.MatchString(raw) {
		return fallback
	}
	return raw
}

// writeSVG emits a rendered document with the embed-friendly headers GitHub's
// camo proxy expects.
func writeSVG(w http.ResponseWriter, svg string) {
	h := w.Header()
	h.Set("Content-Type", "image/svg+xml")
	h.Set("Cache-Control", svgCacheControl)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

// usageSampleFromRequest captures the request attributes the usage tracker
// records alongside each render.
func usageSampleFromRequest(r *http.Request, feature domain.FeatureType, username string, theme domain.Theme) services.UsageSample {
	return services.UsageSample{
		Feature:   feature,
		Username:  username,
		Theme:     theme,
		Referer:   r.Header.Get("Referer"),
		UserAgent: r.Header.Get("User-Agent"),
		RemoteIP:  clientKey(r),
	}
}

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
