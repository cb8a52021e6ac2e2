// Package bitbucket posts the rendered report as a pull-request comment via
// the Bitbucket Server REST API, replacing the previous report comment when
// one exists.
package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vk/depdiffgo/internal/ctxlog"
)

const (
	defaultTimeout = 30 * time.Second
	pageLimit      = 100
	// maxPages bounds the comment search; a report comment older than this
	// many activity pages is treated as gone.
	maxPages = 20
)

// Config holds everything the client needs to reach the repository host.
type Config struct {
	// BaseURL is the server root, e.g. "https://git.example.com".
	BaseURL string
	// Project and Repository address the repo the pull request lives in.
	Project    string
	Repository string
	// Token authenticates as a bearer token.
	Token string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
}

// Client is a minimal pull-request comment client.
type Client struct {
	baseURL *url.URL
	project string
	repo    string
	token   string
	hc      *http.Client
}

// NewClient validates the config and builds a ready-to-use client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository host URL %q: %w", cfg.BaseURL, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("repository host URL %q has no host", cfg.BaseURL)
	}
	if cfg.Project == "" || cfg.Repository == "" {
		return nil, fmt.Errorf("project and repository are required to address pull requests")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		project: cfg.Project,
		repo:    cfg.Repository,
		token:   cfg.Token,
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// comment is the slice of the server's comment representation we act on.
type comment struct {
	ID      int    `json:"id"`
	Version int    `json:"version"`
	Text    string `json:"text"`
}

type activity struct {
	Action  string   `json:"action"`
	Comment *comment `json:"comment"`
}

type activityPage struct {
	Values        []activity `json:"values"`
	IsLastPage    bool       `json:"isLastPage"`
	NextPageStart int        `json:"nextPageStart"`
}

// UpsertComment publishes body on the pull request. When a previous comment
// containing marker exists it is updated in place (the server's optimistic
// locking needs the comment's current version); otherwise a new comment is
// posted.
func (c *Client) UpsertComment(ctx context.Context, prID int, marker, body string) error {
	logger := ctxlog.FromContext(ctx)

	existing, err := c.findComment(ctx, prID, marker)
	if err != nil {
		return fmt.Errorf("failed to search for previous report comment: %w", err)
	}

	if existing == nil {
		if err := c.postComment(ctx, prID, body); err != nil {
			return fmt.Errorf("failed to post report comment: %w", err)
		}
		logger.Info("💬 Posted new report comment.", "pull_request", prID)
		return nil
	}

	if err := c.updateComment(ctx, prID, existing, body); err != nil {
		return fmt.Errorf("failed to update report comment %d: %w", existing.ID, err)
	}
	logger.Info("💬 Updated existing report comment.", "pull_request", prID, "comment", existing.ID)
	return nil
}

// findComment pages through pull-request activities, newest first, and
// returns the first comment containing marker, or nil when none exists.
func (c *Client) findComment(ctx context.Context, prID int, marker string) (*comment, error) {
	start := 0
	for page := 0; page < maxPages; page++ {
		endpoint := c.prPath(prID, "activities")
		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageLimit))
		q.Set("start", strconv.Itoa(start))
		endpoint.RawQuery = q.Encode()

		var activities activityPage
		if err := c.getJSON(ctx, endpoint.String(), &activities); err != nil {
			return nil, err
		}

		for _, act := range activities.Values {
			if act.Action != "COMMENTED" || act.Comment == nil {
				continue
			}
			if strings.Contains(act.Comment.Text, marker) {
				return act.Comment, nil
			}
		}

		if activities.IsLastPage {
			return nil, nil
		}
		start = activities.NextPageStart
	}
	return nil, nil
}

func (c *Client) postComment(ctx context.Context, prID int, body string) error {
	payload := struct {
		Text string `json:"text"`
	}{Text: body}
	return c.send(ctx, http.MethodPost, c.prPath(prID, "comments").String(), payload)
}

func (c *Client) updateComment(ctx context.Context, prID int, existing *comment, body string) error {
	payload := struct {
		Text    string `json:"text"`
		Version int    `json:"version"`
	}{Text: body, Version: existing.Version}
	endpoint := c.prPath(prID, "comments", strconv.Itoa(existing.ID))
	return c.send(ctx, http.MethodPut, endpoint.String(), payload)
}

// prPath builds rest/api/1.0/projects/{proj}/repos/{repo}/pull-requests/{id}/...
func (c *Client) prPath(prID int, parts ...string) *url.URL {
	segments := append([]string{
		"rest", "api", "1.0",
		"projects", c.project,
		"repos", c.repo,
		"pull-requests", strconv.Itoa(prID),
	}, parts...)
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("repository host returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("repository host returned %s", resp.Status)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
