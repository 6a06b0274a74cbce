package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://www.google-analytics.com/mp/collect"

// Event is a single GA4 Measurement Protocol event.
type Event struct {
	Name   string
	Params map[string]any
}

// GA4Client ships events to Google Analytics via the Measurement Protocol.
type GA4Client struct {
	endpoint      string
	measurementID string
	apiSecret     string
	httpClient    *http.Client
}

// GA4Option customises the client.
type GA4Option func(*GA4Client)

// WithEndpoint overrides the collect endpoint, mainly for tests.
func WithEndpoint(endpoint string) GA4Option {
	return func(c *GA4Client) {
		if strings.TrimSpace(endpoint) != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) GA4Option {
	return func(c *GA4Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewGA4Client constructs a Measurement Protocol client.
func NewGA4Client(measurementID, apiSecret string, opts ...GA4Option) (*GA4Client, error) {
	measurementID = strings.TrimSpace(measurementID)
	apiSecret = strings.TrimSpace(apiSecret)
	if measurementID == "" || apiSecret == "" {
		return nil, errors.New("analytics: measurement id and api secret are required")
	}
	c := &GA4Client{
		endpoint:      defaultEndpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Send posts a single event for the given client ID. The Measurement Protocol
// accepts events with 2xx and never returns a body worth parsing.
func (c *GA4Client) Send(ctx context.Context, clientID string, event Event) error {
	if c == nil {
		return errors.New("analytics: client is nil")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		clientID = "anonymous"
	}
	if strings.TrimSpace(event.Name) == "" {
		return errors.New("analytics: event name is required")
	}

	payload := map[string]any{
		"client_id": clientID,
		"events": []map[string]any{
			{"name": event.Name, "params": event.Params},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s",
		c.endpoint, url.QueryEscape(c.measurementID), url.QueryEscape(c.apiSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: send event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("analytics: send event: unexpected status %d", resp.StatusCode)
	}
	return nil
}
