// Package governance fetches policy-violation summaries for components from
// the governance server's REST API.
package governance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vk/depdiffgo/internal/ctxlog"
	"github.com/vk/depdiffgo/internal/gav"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultCacheSize = 256
)

// Config holds everything the client needs to reach the governance server.
type Config struct {
	// BaseURL is the server root, e.g. "https://iq.example.com".
	BaseURL string
	// ApplicationID scopes policy evaluation to one application.
	ApplicationID string
	// Username and Token authenticate via basic auth.
	Username string
	Token    string
	// Timeout bounds each lookup request. Zero means 30s.
	Timeout time.Duration
	// CacheSize bounds the summary cache. Zero means 256 entries.
	CacheSize int
}

// Client looks up policy-violation summaries, caching results (including
// absences) per component so repeated occurrences across the diff cost one
// request. Lookups are synchronous; the caller decides when to call.
type Client struct {
	baseURL       *url.URL
	applicationID string
	username      string
	token         string
	hc            *http.Client
	cache         *lru.Cache[string, *Summary]
}

// NewClient validates the config and builds a ready-to-use client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse governance server URL %q: %w", cfg.BaseURL, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("governance server URL %q has no host", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	size := cfg.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *Summary](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}

	return &Client{
		baseURL:       base,
		applicationID: cfg.ApplicationID,
		username:      cfg.Username,
		token:         cfg.Token,
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cache: cache,
	}, nil
}

// Lookup fetches the policy summary for one component. A component the
// server does not know returns (nil, nil): absence is data, not an error,
// and is cached like any other answer.
func (c *Client) Lookup(ctx context.Context, id gav.Identifier) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	cacheKey := id.String()

	if summary, ok := c.cache.Get(cacheKey); ok {
		logger.Debug("Summary cache hit.", "component", cacheKey)
		return summary, nil
	}

	endpoint := c.baseURL.JoinPath("api", "v2", "policy", "components")
	query := id.LookupQuery()
	query.Set("applicationId", c.applicationID)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query governance server for %s: %w", cacheKey, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		logger.Debug("Component unknown to governance server.", "component", cacheKey)
		c.cache.Add(cacheKey, nil)
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("governance server returned %s for %s", resp.Status, cacheKey)
	}

	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary for %s: %w", cacheKey, err)
	}

	c.cache.Add(cacheKey, &summary)
	logger.Debug("Summary fetched.", "component", cacheKey, "alerts", len(summary.Alerts))
	return &summary, nil
}

// CacheLen reports how many summaries (including absences) are cached.
func (c *Client) CacheLen() int {
	return c.cache.Len()
}
