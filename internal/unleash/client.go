// Package unleash implements the client for the Unleash admin REST API.
//
// The client is a thin, validated pass-through: one method per endpoint,
// no retries, no caching (freshness is the inventory layer's job). All
// methods take a context and return wrapped errors; non-2xx responses
// surface as *APIError, with 404s additionally matchable via ErrNotFound.
package unleash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// defaultTimeout bounds every request to the Unleash API.
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response we keep for messages.
	maxErrorBody = 4096
)

// ErrNotFound matches any 404 from the API via errors.Is.
var ErrNotFound = errors.New("unleash: not found")

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("unleash: %s %s returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("unleash: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// Is reports 404s as ErrNotFound so callers can errors.Is without
// digging into the status code.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Config holds the connection settings for an Unleash instance.
type Config struct {
	// BaseURL is the root of the Unleash instance, e.g. "https://app.unleash-hosted.com/demo".
	BaseURL string
	// APIToken is an admin token, sent verbatim in the Authorization header.
	APIToken string
	// Timeout overrides the default request timeout when positive.
	Timeout time.Duration
}

// Client talks to the Unleash admin API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient validates the config and builds a Client. The base URL must
// include an http(s) scheme; a trailing slash is tolerated and stripped.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("unleash: base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("unleash: parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unleash: base URL must use http or https, got %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("unleash: API token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: base,
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized instance root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ─── Projects ────────────────────────────────────────────────────────────────

// ListProjects fetches every project visible to the token.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	var resp listProjectsResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/projects", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for i := range resp.Projects {
		resp.Projects[i].URL = c.projectURL(resp.Projects[i].ID)
	}
	return resp.Projects, nil
}

// ─── Feature flags ───────────────────────────────────────────────────────────

// ListFeatureFlags fetches all flags in one project.
func (c *Client) ListFeatureFlags(ctx context.Context, projectID string) ([]FlagSummary, error) {
	if projectID == "" {
		return nil, fmt.Errorf("listing feature flags: project id is required")
	}
	var resp listFlagsResponse
	path := "/api/admin/projects/" + url.PathEscape(projectID) + "/features"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing feature flags for %q: %w", projectID, err)
	}
	for i := range resp.Features {
		resp.Features[i].URL = c.flagURL(resp.Features[i].Project, resp.Features[i].Name)
	}
	return resp.Features, nil
}

// GetFeatureFlag fetches the full details of one flag.
func (c *Client) GetFeatureFlag(ctx context.Context, projectID, flagName string) (*FlagDetails, error) {
	if projectID == "" || flagName == "" {
		return nil, fmt.Errorf("getting feature flag: project id and flag name are required")
	}
	var flag FlagDetails
	path := c.featurePath(projectID, flagName)
	if err := c.do(ctx, http.MethodGet, path, nil, &flag); err != nil {
		return nil, fmt.Errorf("getting feature flag %q: %w", flagName, err)
	}
	flag.URL = c.flagURL(projectID, flag.Name)
	return &flag, nil
}

// CreateFeatureFlag creates a new flag in the project.
func (c *Client) CreateFeatureFlag(ctx context.Context, projectID string, req CreateFlagRequest) (*FlagDetails, error) {
	if projectID == "" {
		return nil, fmt.Errorf("creating feature flag: project id is required")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("creating feature flag: flag name is required")
	}
	var flag FlagDetails
	path := "/api/admin/projects/" + url.PathEscape(projectID) + "/features"
	if err := c.do(ctx, http.MethodPost, path, req, &flag); err != nil {
		return nil, fmt.Errorf("creating feature flag %q: %w", req.Name, err)
	}
	flag.URL = c.flagURL(projectID, flag.Name)
	return &flag, nil
}

// SetFlagEnabled turns a flag on or off in one environment.
func (c *Client) SetFlagEnabled(ctx context.Context, projectID, flagName, environment string, enabled bool) error {
	if projectID == "" || flagName == "" || environment == "" {
		return fmt.Errorf("toggling feature flag: project id, flag name, and environment are required")
	}
	state := "off"
	if enabled {
		state = "on"
	}
	path := c.featurePath(projectID, flagName) + "/environments/" + url.PathEscape(environment) + "/" + state
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("turning %s %q in %q: %w", state, flagName, environment, err)
	}
	return nil
}

// ─── Strategies ──────────────────────────────────────────────────────────────

// AddStrategy attaches an activation strategy to a flag environment and
// returns the created strategy (including its server-assigned id).
func (c *Client) AddStrategy(ctx context.Context, projectID, flagName, environment string, strategy Strategy) (*Strategy, error) {
	if projectID == "" || flagName == "" || environment == "" {
		return nil, fmt.Errorf("adding strategy: project id, flag name, and environment are required")
	}
	if strategy.Name == "" {
		return nil, fmt.Errorf("adding strategy: strategy name is required")
	}
	var created Strategy
	path := c.strategiesPath(projectID, flagName, environment)
	if err := c.do(ctx, http.MethodPost, path, strategy, &created); err != nil {
		return nil, fmt.Errorf("adding strategy to %q in %q: %w", flagName, environment, err)
	}
	return &created, nil
}

// UpdateStrategy replaces an existing strategy on a flag environment.
func (c *Client) UpdateStrategy(ctx context.Context, projectID, flagName, environment, strategyID string, strategy Strategy) (*Strategy, error) {
	if projectID == "" || flagName == "" || environment == "" || strategyID == "" {
		return nil, fmt.Errorf("updating strategy: project id, flag name, environment, and strategy id are required")
	}
	var updated Strategy
	path := c.strategiesPath(projectID, flagName, environment) + "/" + url.PathEscape(strategyID)
	if err := c.do(ctx, http.MethodPut, path, strategy, &updated); err != nil {
		return nil, fmt.Errorf("updating strategy %q on %q: %w", strategyID, flagName, err)
	}
	return &updated, nil
}

// ─── Internals ───────────────────────────────────────────────────────────────

// do performs one API request. body (if non-nil) is JSON-encoded; out
// (if non-nil) receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(raw),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) featurePath(projectID, flagName string) string {
	return "/api/admin/projects/" + url.PathEscape(projectID) + "/features/" + url.PathEscape(flagName)
}

func (c *Client) strategiesPath(projectID, flagName, environment string) string {
	return c.featurePath(projectID, flagName) + "/environments/" + url.PathEscape(environment) + "/strategies"
}

func (c *Client) projectURL(projectID string) string {
	return c.baseURL + "/projects/" + url.PathEscape(projectID)
}

func (c *Client) flagURL(projectID, flagName string) string {
	return c.baseURL + "/projects/" + url.PathEscape(projectID) + "/features/" + url.PathEscape(flagName)
}
