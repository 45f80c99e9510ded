package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/lora213/buddyhub/pkg/circuitbreaker"
	"github.com/lora213/buddyhub/pkg/logger"
	"github.com/lora213/buddyhub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the GitHub API client.
type ClientConfig struct {
	// BaseURL is the GitHub API base URL.
	BaseURL string

	// Token is the API token for authentication (empty for anonymous,
	// which gets a much lower rate limit).
	Token string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// MaxRepoPages caps repository pagination (100 repos per page).
	MaxRepoPages int

	// Logger for structured logging.
	Logger *logger.Logger

	// Retrier overrides the default retry policy (mainly for tests).
	Retrier *retry.Retrier

	// Breaker overrides the default circuit breaker (mainly for tests).
	Breaker *circuitbreaker.CircuitBreaker
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:      "https://api.github.com",
		Timeout:      15 * time.Second,
		MaxRepoPages: 3,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrProfileNotFound is returned when the GitHub user does not exist.
	ErrProfileNotFound = errors.New("github: profile not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the GitHub API client used by profile analysis.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker

	// Rate limit state from the last response headers.
	rateMu    sync.Mutex
	remaining int
	resetAt   time.Time
}

// NewClient creates a new GitHub API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logger.Default()
	}
	if config.Retrier == nil {
		config.Retrier = retry.GitHubRetrier()
	}
	if config.Breaker == nil {
		config.Breaker = circuitbreaker.GitHubAPIBreaker(nil)
	}
	if config.MaxRepoPages <= 0 {
		config.MaxRepoPages = 3
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:    config.Logger,
		retrier:   config.Retrier,
		breaker:   config.Breaker,
		remaining: -1,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetUser fetches a user's public profile by login.
func (c *Client) GetUser(ctx context.Context, login string) (*UserDTO, error) {
	path := fmt.Sprintf("/users/%s", url.PathEscape(login))

	var user UserDTO
	if err := c.doRequest(ctx, path, &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", login, err)
	}

	return &user, nil
}

// ListRepos fetches a user's public repositories, newest pushed first.
// Pagination is capped at MaxRepoPages: the analyzer only needs a
// representative sample, not the complete history.
func (c *Client) ListRepos(ctx context.Context, login string) ([]RepoDTO, error) {
	const perPage = 100

	var all []RepoDTO
	for page := 1; page <= c.config.MaxRepoPages; page++ {
		path := fmt.Sprintf("/users/%s/repos?sort=pushed&per_page=%d&page=%d",
			url.PathEscape(login), perPage, page)

		var repos []RepoDTO
		if err := c.doRequest(ctx, path, &repos); err != nil {
			return nil, fmt.Errorf("list repos for %s: %w", login, err)
		}

		all = append(all, repos...)
		if len(repos) < perPage {
			break
		}
	}

	return all, nil
}

// IsHealthy checks if the GitHub API is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	var status struct {
		Resources map[string]json.RawMessage `json:"resources"`
	}
	return c.doSingleRequest(ctx, "/rate_limit", &status) == nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs a GET request with circuit breaking and retries.
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			err := c.doSingleRequest(ctx, path, result)
			if err != nil && isTransient(err) {
				return retry.Retryable(err)
			}
			return err
		})
	})
}

// doSingleRequest performs a single GET request.
func (c *Client) doSingleRequest(ctx context.Context, path string, result interface{}) error {
	if err := c.checkRateLimit(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	c.recordRateLimit(resp.Header)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProfileNotFound

	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return &RateLimitError{ResetAt: c.rateLimitReset()}

	case resp.StatusCode >= 400:
		apiErr := &APIErrorDTO{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// checkRateLimit fails fast when the last response said the window
// is exhausted and has not reset yet.
func (c *Client) checkRateLimit() error {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	if c.remaining == 0 && time.Now().Before(c.resetAt) {
		return &RateLimitError{ResetAt: c.resetAt}
	}
	return nil
}

// recordRateLimit updates rate limit state from response headers.
func (c *Client) recordRateLimit(header http.Header) {
	remaining, err := strconv.Atoi(header.Get("X-RateLimit-Remaining"))
	if err != nil {
		return
	}

	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	c.remaining = remaining
	if resetUnix, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		c.resetAt = time.Unix(resetUnix, 0)
	}
}

func (c *Client) rateLimitReset() time.Time {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	return c.resetAt
}

// isTransient reports whether an error is worth retrying.
func isTransient(err error) bool {
	var apiErr *APIErrorDTO
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}

	if errors.Is(err, ErrProfileNotFound) {
		return false
	}

	// Network-level errors are generally transient.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
