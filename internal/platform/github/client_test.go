package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newGitHubStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/users/octocat/repos":
			if got := r.URL.Query().Get("sort"); got != "pushed" {
				t.Errorf("expected sort=pushed, got %q", got)
			}
			_, _ = w.Write([]byte(`[
				{"name":"alpha","full_name":"octocat/alpha"},
				{"name":"beta","full_name":"octocat/beta"},
				{"name":"gamma","full_name":"octocat/gamma"}
			]`))
		case strings.HasPrefix(r.URL.Path, "/repos/octocat/alpha/commits"):
			if r.URL.Query().Get("since") == "" {
				t.Error("expected since parameter on commits request")
			}
			_, _ = w.Write([]byte(`[{},{},{}]`))
		case strings.HasPrefix(r.URL.Path, "/repos/octocat/beta/commits"):
			_, _ = w.Write([]byte(`[{}]`))
		case strings.HasPrefix(r.URL.Path, "/repos/octocat/gamma/commits"):
			http.Error(w, `{"message":"Conflict"}`, http.StatusConflict)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestRecentRepoCommits(t *testing.T) {
	srv := newGitHubStub(t)
	defer srv.Close()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	client := NewClient(WithAPIBase(srv.URL), WithClock(func() time.Time { return now }))

	repos, err := client.RecentRepoCommits(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("RecentRepoCommits: %v", err)
	}
	if len(repos) != 3 {
		t.Fatalf("expected 3 repos, got %d", len(repos))
	}
	if repos[0].Name != "alpha" || repos[0].RecentCommits != 3 {
		t.Errorf("unexpected first repo %+v", repos[0])
	}
	if repos[1].RecentCommits != 1 {
		t.Errorf("unexpected second repo %+v", repos[1])
	}
	// Failed commit lookups degrade to zero instead of failing the call.
	if repos[2].RecentCommits != 0 {
		t.Errorf("expected zero commits for failing repo, got %+v", repos[2])
	}

	if total := TotalRecentCommits(repos); total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
}

func TestRecentRepoCommitsLimitsInspectedRepos(t *testing.T) {
	commitCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/users/busy/repos" {
			var entries []string
			for i := 0; i < 10; i++ {
				entries = append(entries, fmt.Sprintf(`{"name":"r%d","full_name":"busy/r%d"}`, i, i))
			}
			_, _ = w.Write([]byte("[" + strings.Join(entries, ",") + "]"))
			return
		}
		commitCalls++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(WithAPIBase(srv.URL))
	if _, err := client.RecentRepoCommits(context.Background(), "busy"); err != nil {
		t.Fatalf("RecentRepoCommits: %v", err)
	}
	if commitCalls != 6 {
		t.Fatalf("expected 6 commit lookups, got %d", commitCalls)
	}
}

func TestRecentRepoCommitsUserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithAPIBase(srv.URL))

	_, err := client.RecentRepoCommits(context.Background(), "ghost-user")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecentRepoCommitsRequiresUsername(t *testing.T) {
	client := NewClient()
	if _, err := client.RecentRepoCommits(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank username")
	}
}

func TestAvatarURL(t *testing.T) {
	if got := AvatarURL("octocat"); got != "https://github.com/octocat.png" {
		t.Fatalf("unexpected avatar url %s", got)
	}
}
