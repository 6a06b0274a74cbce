package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIBase = "https://api.github.com"

	// Only the most recently pushed repositories are inspected; older ones
	// rarely contribute commits inside the 30 day window.
	reposPerPage     = 10
	reposToInspect   = 6
	commitWindowDays = 30
)

var ErrUserNotFound = errors.New("github: user not found")

// RepoCommits summarises recent commit activity for a single repository.
type RepoCommits struct {
	Name          string
	RecentCommits int
}

// Client is a minimal GitHub REST API client covering the calls the render
// service needs. Unauthenticated use works but is subject to low rate limits.
type Client struct {
	apiBase    string
	token      string
	userAgent  string
	httpClient *http.Client
	now        func() time.Time
}

// ClientOption customises the client.
type ClientOption func(*Client)

// WithAPIBase overrides the API base URL, mainly for tests.
func WithAPIBase(base string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(base) != "" {
			c.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithToken sets the token used for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithUserAgent sets the User-Agent header. GitHub rejects requests without one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// WithClient overrides the underlying HTTP client.
func WithClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ClientOption {
	return func(c *Client) {
		if clock != nil {
			c.now = clock
		}
	}
}

// NewClient constructs a GitHub API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		apiBase:    defaultAPIBase,
		userAgent:  "git-bubble/1.0",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type repoSummary struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// RecentRepoCommits lists the user's most recently pushed repositories and
// counts each one's commits over the last 30 days. Repositories whose commit
// lookups fail are reported with a zero count rather than failing the whole
// call.
func (c *Client) RecentRepoCommits(ctx context.Context, username string) ([]RepoCommits, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("github: username is required")
	}

	repos, err := c.listRecentRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(repos) > reposToInspect {
		repos = repos[:reposToInspect]
	}

	since := c.now().AddDate(0, 0, -commitWindowDays).UTC().Format(time.RFC3339)

	out := make([]RepoCommits, 0, len(repos))
	for _, repo := range repos {
		count, err := c.countCommitsSince(ctx, repo.FullName, since)
		if err != nil {
			count = 0
		}
		out = append(out, RepoCommits{Name: repo.Name, RecentCommits: count})
	}
	return out, nil
}

// TotalRecentCommits sums RecentRepoCommits across repositories.
func TotalRecentCommits(repos []RepoCommits) int {
	total := 0
	for _, repo := range repos {
		total += repo.RecentCommits
	}
	return total
}

func (c *Client) listRecentRepos(ctx context.Context, username string) ([]repoSummary, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=pushed&per_page=%d", c.apiBase, url.PathEscape(username), reposPerPage)

	var repos []repoSummary
	if err := c.getJSON(ctx, endpoint, &repos); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("github: list repos for %s: %w", username, err)
	}
	return repos, nil
}

func (c *Client) countCommitsSince(ctx context.Context, fullName, since string) (int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/commits?since=%s&per_page=100", c.apiBase, fullName, url.QueryEscape(since))

	var commits []json.RawMessage
	if err := c.getJSON(ctx, endpoint, &commits); err != nil {
		return 0, err
	}
	return len(commits), nil
}

var errNotFound = errors.New("github: not found")

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errNotFound
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

// AvatarURL returns the canonical avatar URL for a username.
func AvatarURL(username string) string {
	return "https://github.com/" + url.PathEscape(strings.TrimSpace(username)) + ".png"
}
