// Package github aggregates public profile statistics from the GitHub REST
// API: repo count, total stars, followers and a top-languages breakdown.
// Responses are cached in-process for the configured TTL (24h by default).
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rialo-labs/builders-arena/internal/config"
	"github.com/rialo-labs/builders-arena/pkg/models"
)

var (
	ErrCircuitOpen  = errors.New("github circuit open")
	ErrUserNotFound = errors.New("github user not found")
)

// package-level logger for pkg/github; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/github. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Profile is the aggregate returned to callers and snapshotted onto
// participants at submission time.
type Profile struct {
	User          User                  `json:"user"`
	Repos         []models.GitHubRepo   `json:"repos"`
	TotalStars    int                   `json:"totalStars"`
	TopLanguages  []models.LanguageStat `json:"topLanguages"`
	AllReposCount int                   `json:"allReposCount"`
}

// User is the subset of the GitHub user payload the arena displays.
type User struct {
	Login       string `json:"login"`
	AvatarURL   string `json:"avatar_url"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	CreatedAt   string `json:"created_at"`
	HTMLURL     string `json:"html_url"`
	Blog        string `json:"blog,omitempty"`
	Location    string `json:"location,omitempty"`
	Company     string `json:"company,omitempty"`
}

type cacheEntry struct {
	profile *Profile
	expires time.Time
}

// Client wraps the GitHub REST API and adds retries, a circuit breaker and a
// TTL cache.
type Client struct {
	cfg    config.GitHubConfig
	client *http.Client

	mu    sync.RWMutex
	cache map[string]cacheEntry

	// simple circuit breaker state
	failures  int32
	openUntil int64 // unix nano
}

// NewClient creates a new GitHub client wrapper.
func NewClient(cfg config.GitHubConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		cfg:    cfg,
		client: httpClient,
		cache:  make(map[string]cacheEntry),
	}
	logger.Info("github: NewClient created", slog.String("base_url", cfg.BaseURL), slog.Duration("cache_ttl", cfg.CacheTTL))
	return c
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.failures) < int32(c.cfg.CircuitFailureThreshold) {
		return false
	}

	if time.Now().UnixNano() < atomic.LoadInt64(&c.openUntil) {
		return true
	}

	// half-open: reset failures and allow a request
	atomic.StoreInt32(&c.failures, 0)
	return false
}

func (c *Client) recordFailure() {
	v := atomic.AddInt32(&c.failures, 1)
	if v >= int32(c.cfg.CircuitFailureThreshold) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.cfg.CircuitReset).UnixNano())
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt32(&c.failures, 0)
}

// FetchProfile returns the aggregated profile for a username, from cache when
// fresh.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	c.mu.RLock()
	entry, ok := c.cache[username]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.profile, nil
	}

	if c.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	user, err := c.fetchUser(ctx, username)
	if err != nil {
		return nil, err
	}
	repos, err := c.fetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:          *user,
		Repos:         topRepos(repos, 6),
		TotalStars:    totalStars(repos),
		TopLanguages:  topLanguages(repos, 5),
		AllReposCount: len(repos),
	}

	c.mu.Lock()
	c.cache[username] = cacheEntry{profile: profile, expires: time.Now().Add(c.cfg.CacheTTL)}
	c.mu.Unlock()

	return profile, nil
}

// Snapshot converts a fetched profile into the embedded form stored on a
// participant row.
func (p *Profile) Snapshot() *models.GitHubStats {
	return &models.GitHubStats{
		AvatarURL:      p.User.AvatarURL,
		Bio:            p.User.Bio,
		PublicRepos:    p.AllReposCount,
		Followers:      p.User.Followers,
		TotalStars:     p.TotalStars,
		TopLanguages:   p.TopLanguages,
		Repos:          p.Repos,
		AccountCreated: p.User.CreatedAt,
	}
}

func (c *Client) fetchUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.cfg.BaseURL, username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) fetchRepos(ctx context.Context, username string) ([]models.GitHubRepo, error) {
	var repos []models.GitHubRepo
	url := fmt.Sprintf("%s/users/%s/repos?sort=stars&per_page=100&type=owner", c.cfg.BaseURL, username)
	if err := c.getJSON(ctx, url, &repos); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// forks don't count toward stars or languages
	out := repos[:0]
	for _, r := range repos {
		if !r.Fork {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	return out, nil
}

// getJSON performs a GET with retry/backoff and decodes the response body.
func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.Backoff * time.Duration(attempt)):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		err := c.doGet(reqCtx, url, dst)
		cancel()
		if err == nil {
			c.recordSuccess()
			return nil
		}
		// not-found is terminal, don't burn retries or trip the breaker
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		c.recordFailure()
		lastErr = err
	}
	return fmt.Errorf("github request failed after %d attempts: %w", c.cfg.Retries+1, lastErr)
}

func (c *Client) doGet(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "token "+c.cfg.Token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case res.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("github returned %d: %s", res.StatusCode, string(body))
	}

	return json.NewDecoder(res.Body).Decode(dst)
}

// Close releases idle connections held by the underlying transport. Safe to
// call multiple times.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
		tr.CloseIdleConnections()
	}
	return nil
}

func totalStars(repos []models.GitHubRepo) int {
	sum := 0
	for _, r := range repos {
		sum += r.Stars
	}
	return sum
}

func topRepos(repos []models.GitHubRepo, n int) []models.GitHubRepo {
	if len(repos) > n {
		repos = repos[:n]
	}
	return repos
}

func topLanguages(repos []models.GitHubRepo, n int) []models.LanguageStat {
	counts := make(map[string]int)
	total := 0
	for _, r := range repos {
		if r.Language != "" {
			counts[r.Language]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	stats := make([]models.LanguageStat, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, models.LanguageStat{
			Name:       name,
			Percentage: int(float64(count)/float64(total)*100 + 0.5),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percentage != stats[j].Percentage {
			return stats[i].Percentage > stats[j].Percentage
		}
		return stats[i].Name < stats[j].Name
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
