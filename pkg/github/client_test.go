package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rialo-labs/builders-arena/internal/config"
	"github.com/rialo-labs/builders-arena/pkg/github"
)

const userJSON = `{
	"login": "octocat",
	"avatar_url": "https://avatars.example/octocat.png",
	"bio": "I build things",
	"public_repos": 8,
	"followers": 42,
	"created_at": "2012-01-01T00:00:00Z"
}`

const reposJSON = `[
	{"name": "alpha", "html_url": "https://gh/alpha", "stargazers_count": 50, "language": "Go", "fork": false},
	{"name": "beta", "html_url": "https://gh/beta", "stargazers_count": 30, "language": "Go", "fork": false},
	{"name": "gamma", "html_url": "https://gh/gamma", "stargazers_count": 20, "language": "Rust", "fork": false},
	{"name": "forked", "html_url": "https://gh/forked", "stargazers_count": 999, "language": "C", "fork": true},
	{"name": "delta", "html_url": "https://gh/delta", "stargazers_count": 0, "language": "TypeScript", "fork": false}
]`

func testCfg(baseURL string) config.GitHubConfig {
	return config.GitHubConfig{
		BaseURL:                 baseURL,
		Timeout:                 2 * time.Second,
		Retries:                 1,
		Backoff:                 time.Millisecond,
		CacheTTL:                time.Minute,
		CircuitFailureThreshold: 3,
		CircuitReset:            time.Minute,
	}
}

func newFakeGitHub(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt64(hits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat":
			_, _ = w.Write([]byte(userJSON))
		case "/users/octocat/repos":
			_, _ = w.Write([]byte(reposJSON))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetchProfile_Aggregates(t *testing.T) {
	srv := newFakeGitHub(t, nil)
	defer srv.Close()

	client := github.NewClient(testCfg(srv.URL), srv.Client())
	defer client.Close()

	profile, err := client.FetchProfile(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}

	if profile.User.Login != "octocat" {
		t.Fatalf("unexpected login: %q", profile.User.Login)
	}
	// fork excluded from stars
	if profile.TotalStars != 100 {
		t.Fatalf("expected 100 stars, got %d", profile.TotalStars)
	}
	if profile.AllReposCount != 4 {
		t.Fatalf("expected 4 non-fork repos, got %d", profile.AllReposCount)
	}
	for _, r := range profile.Repos {
		if r.Fork {
			t.Fatalf("fork leaked into repos: %+v", r)
		}
	}
	// sorted by stars descending
	if len(profile.Repos) == 0 || profile.Repos[0].Name != "alpha" {
		t.Fatalf("expected alpha first, got %+v", profile.Repos)
	}

	// Go appears in 2 of 4 language-bearing repos => 50%
	if len(profile.TopLanguages) == 0 || profile.TopLanguages[0].Name != "Go" {
		t.Fatalf("unexpected top languages: %+v", profile.TopLanguages)
	}
	if profile.TopLanguages[0].Percentage != 50 {
		t.Fatalf("expected Go at 50%%, got %d", profile.TopLanguages[0].Percentage)
	}
}

func TestFetchProfile_CachesWithinTTL(t *testing.T) {
	var hits int64
	srv := newFakeGitHub(t, &hits)
	defer srv.Close()

	client := github.NewClient(testCfg(srv.URL), srv.Client())
	defer client.Close()

	ctx := context.Background()
	if _, err := client.FetchProfile(ctx, "octocat"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	first := atomic.LoadInt64(&hits)

	if _, err := client.FetchProfile(ctx, "octocat"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if atomic.LoadInt64(&hits) != first {
		t.Fatalf("expected cached response, server hit again (%d -> %d)", first, hits)
	}
}

func TestFetchProfile_UserNotFound(t *testing.T) {
	srv := newFakeGitHub(t, nil)
	defer srv.Close()

	client := github.NewClient(testCfg(srv.URL), srv.Client())
	defer client.Close()

	if _, err := client.FetchProfile(context.Background(), "nobody"); !errors.Is(err, github.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFetchProfile_CircuitOpensAfterFailures(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testCfg(srv.URL)
	cfg.Retries = 0
	cfg.CircuitFailureThreshold = 2
	client := github.NewClient(cfg, srv.Client())
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.FetchProfile(ctx, "octocat"); err == nil {
			t.Fatalf("expected failure #%d", i+1)
		}
	}

	before := atomic.LoadInt64(&hits)
	if _, err := client.FetchProfile(ctx, "octocat"); !errors.Is(err, github.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if atomic.LoadInt64(&hits) != before {
		t.Fatalf("open circuit still hit the server")
	}
}

func TestFetchProfile_RetriesThenSucceeds(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&hits, 1)
		if n == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat":
			_, _ = w.Write([]byte(userJSON))
		case "/users/octocat/repos":
			_, _ = w.Write([]byte(reposJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := github.NewClient(testCfg(srv.URL), srv.Client())
	defer client.Close()

	profile, err := client.FetchProfile(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if profile.User.Login != "octocat" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestSnapshot(t *testing.T) {
	srv := newFakeGitHub(t, nil)
	defer srv.Close()

	client := github.NewClient(testCfg(srv.URL), srv.Client())
	defer client.Close()

	profile, err := client.FetchProfile(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}

	snap := profile.Snapshot()
	if snap.AvatarURL != "https://avatars.example/octocat.png" {
		t.Fatalf("unexpected avatar: %q", snap.AvatarURL)
	}
	if snap.TotalStars != 100 || snap.Followers != 42 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.AccountCreated != "2012-01-01T00:00:00Z" {
		t.Fatalf("unexpected account created: %q", snap.AccountCreated)
	}
}
