// Package hiscores fetches the raw positional stats feed for a player
// from the official hiscores endpoint. Decoding lives in
// internal/domain/hiscore; this package only moves bytes.
package hiscores

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/runelens/pkg/metrics"
)

const (
	defaultBaseURL   = "https://secure.runescape.com/m=hiscore_oldschool"
	defaultUserAgent = "runelens stats collector"
	defaultTimeout   = 10 * time.Second

	maxUsernameLen = 12
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
var usernameBadChars = regexp.MustCompile(`[^a-zA-Z0-9 _-]`)

// ValidUsername reports whether name is 1-12 characters of letters,
// digits, spaces, underscores or dashes.
func ValidUsername(name string) bool {
	if name == "" || len(name) > maxUsernameLen {
		return false
	}
	return usernamePattern.MatchString(name)
}

// Sanitize replaces characters outside the allowed set with underscores,
// for use in filenames and queries.
func Sanitize(name string) string {
	return usernameBadChars.ReplaceAllString(name, "_")
}

// Client is a resty-backed hiscores client.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration

	http *resty.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the hiscores base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient creates a hiscores client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(c.baseURL).
		SetHeader("User-Agent", c.userAgent).
		SetTimeout(c.timeout)

	return c
}

// PlayerFeed fetches the raw comma-delimited feed for a player. The
// username is validated before any request is made; an unknown player
// maps the endpoint's 404 to ErrPlayerNotFound.
func (c *Client) PlayerFeed(ctx context.Context, username string) (string, error) {
	if !ValidUsername(username) {
		return "", fmt.Errorf("%w: %q must be 1-%d characters of letters, digits, spaces, underscores or dashes",
			ErrInvalidUsername, username, maxUsernameLen)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("player", username).
		Get("/index_lite.ws")
	metrics.RecordFetchDuration("hiscores", float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordFetchError("hiscores")
		return "", fmt.Errorf("fetching hiscores for %q: %w", username, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		metrics.RecordFetchError("hiscores")
		return "", fmt.Errorf("%w: %q", ErrPlayerNotFound, username)
	}
	if resp.IsError() {
		metrics.RecordFetchError("hiscores")
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode())
	}

	metrics.RecordFetch("hiscores")
	return string(resp.Body()), nil
}
