package gitea

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

	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

const apiPrefix = "/api/v1"

// ClientConfig represents the connection settings for one Gitea repository
type ClientConfig struct {
	BaseURL   string        `json:"base_url"`
	Token     string        `json:"-"` // Hidden for security
	Owner     string        `json:"owner"`
	Repo      string        `json:"repo"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent"`
}

// Observer receives the outcome of every upstream call
type Observer interface {
	ObserveUpstream(operation string, statusCode int, duration time.Duration)
}

// Request describes a single call to the Gitea API relative to /api/v1
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      interface{}
}

const defaultUserAgent = "gitea-bridge"

// Client performs authenticated calls against a Gitea instance. It is safe
// for concurrent use and never retries.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	rateLimiter RateLimiter
	observer    Observer
	logger      *logger.Entry
}

// Option customises a Client
type Option func(*Client)

// WithRateLimiter throttles outbound requests
func WithRateLimiter(l RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = l
	}
}

// WithObserver reports call outcomes, typically to metrics
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a Gitea API client
func NewClient(config ClientConfig, parentLogger *logger.Entry, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(config.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q", config.BaseURL)
	}
	config.BaseURL = strings.TrimRight(base.String(), "/")

	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	client := &Client{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(0, 0),
		logger: parentLogger.WithFields(logger.Fields{
			"component":  "gitea",
			"repository": config.Owner + "/" + config.Repo,
		}),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the normalised upstream base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Authenticated reports whether calls carry a token
func (c *Client) Authenticated() bool {
	return c.config.Token != ""
}

// repoPath builds /repos/{owner}/{repo}{suffix}
func (c *Client) repoPath(suffix string) string {
	return "/repos/" + url.PathEscape(c.config.Owner) + "/" + url.PathEscape(c.config.Repo) + suffix
}

// Do executes req and decodes a JSON response into out when out is non-nil
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Operation == "" {
		req.Operation = req.Path
	}

	log := c.logger.WithOperation(req.Operation).WithUpstream(req.Path).
		WithRequestID(logger.RequestIDFromContext(ctx))

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &UpstreamError{Kind: KindRateLimited, Method: req.Method, Path: req.Path, Err: err}
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return &UpstreamError{Kind: KindRequest, Method: req.Method, Path: req.Path, Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.observe(req.Operation, 0, duration)
		log.WithError(err).WithField("duration_ms", duration.Milliseconds()).Warn("Upstream request failed")
		return &UpstreamError{Kind: KindNetwork, Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	c.observe(req.Operation, resp.StatusCode, duration)

	log = log.WithFields(logger.Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		log.Warn("Upstream returned non-success status")
		return &UpstreamError{
			Kind:       KindStatus,
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	log.Debug("Upstream request completed")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Kind: KindDecode, Method: req.Method, Path: req.Path, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.config.BaseURL + apiPrefix + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "token "+c.config.Token)
	}

	return httpReq, nil
}

func (c *Client) observe(operation string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(operation, status, d)
	}
}
