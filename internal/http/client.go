// Package http implements the resilient HTTP layer under the API client:
// bearer authentication with refresh-and-replay, a bounded retry policy for
// gateway failures, optional response caching, and structured request
// logging.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// TokenManager supplies and refreshes bearer tokens.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the decoded result of an API call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against one API host.
type Client struct {
	baseURL      string
	tokenManager TokenManager
	httpClient   *retryablehttp.Client
	logger       cf.Logger
	debug        bool
	userAgent    string
	cache        cf.Cache
	cacheTTL     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for request logging.
func WithLogger(logger cf.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables per-request debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig bounds the retry policy: retryMax extra attempts with a
// fixed retryWait delay, each attempt capped at attemptTimeout.
func WithRetryConfig(retryMax int, retryWait, attemptTimeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWait
		c.httpClient.RetryWaitMax = retryWait

		if attemptTimeout > 0 {
			c.httpClient.HTTPClient.Timeout = attemptTimeout
		}
	}
}

// WithTransport replaces the underlying round tripper, e.g. to trust
// self-signed certificates or to record metrics.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Transport = transport
	}
}

// WithCache enables read-through caching of GET responses.
func WithCache(cache cf.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache

		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a client for baseURL. The token manager may be nil for
// unauthenticated endpoints.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryDelay
	retryClient.RetryWaitMax = constants.DefaultRetryDelay
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry
	retryClient.Backoff = fixedBackoff

	// Surface the last response instead of a generic "giving up" error so
	// the caller sees the upstream failure that exhausted the budget.
	retryClient.ErrorHandler = func(resp *http.Response, err error, numTries int) (*http.Response, error) {
		if resp != nil {
			return resp, nil
		}

		return nil, fmt.Errorf("%w after %d attempt(s): %w", cf.ErrRetryBudgetExhausted, numTries, err)
	}

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		httpClient:   retryClient,
		cacheTTL:     constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Transport failures that recur identically on every attempt, matched on
// the inner client's error text.
var (
	redirectLoopRe = regexp.MustCompile(`stopped after \d+ redirects\z`)
	badSchemeRe    = regexp.MustCompile(`unsupported protocol scheme`)
)

// checkRetry retries gateway failures and recoverable transport errors
// only. Client errors, including 401, pass straight through, as do
// transport failures that would fail the same way on every attempt.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && !recoverable(urlErr) {
			return false, urlErr
		}

		// Connection resets and per-attempt timeouts are transient.
		return true, nil
	}

	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	default:
		return false, nil
	}
}

// recoverable reports whether a transport failure can resolve on a resend.
// Certificate rejections, redirect loops, and unsupported schemes cannot.
func recoverable(urlErr *url.Error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(urlErr.Err, &certErr) {
		return false
	}

	msg := urlErr.Error()

	return !redirectLoopRe.MatchString(msg) && !badSchemeRe.MatchString(msg)
}

// fixedBackoff waits the same delay between attempts.
func fixedBackoff(minWait, _ time.Duration, _ int, _ *http.Response) time.Duration {
	return minWait
}

// Do executes the request. A 401 response triggers one token refresh and a
// single replay; the replay result is final.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokenManager != nil {
		if c.debug && c.logger != nil {
			c.logger.Debug("Refreshing token after 401", map[string]interface{}{
				"method": req.Method,
				"path":   req.Path,
			})
		}

		if refreshErr := c.tokenManager.RefreshToken(ctx); refreshErr != nil {
			return resp, fmt.Errorf("refreshing token: %w", refreshErr)
		}

		resp, err = c.execute(ctx, req)
		if err != nil {
			return resp, err
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, cf.ParseResponseError(resp.Body, resp.StatusCode)
	}

	return resp, nil
}

// execute performs one pass through the retry pipeline.
func (c *Client) execute(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	cacheKey := req.Method + " " + fullURL

	if cached := c.fromCache(ctx, req, cacheKey); cached != nil {
		return cached, nil
	}

	var bodyReader io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":   req.Method,
			"url":      fullURL,
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
		})
	}

	c.toCache(ctx, req, cacheKey, resp)

	return resp, nil
}

// fromCache serves a GET from the response cache when a live entry exists.
func (c *Client) fromCache(ctx context.Context, req *Request, cacheKey string) *Response {
	if c.cache == nil || req.Method != http.MethodGet {
		return nil
	}

	entry, err := c.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil
	}

	return &Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{"X-Cache": []string{"HIT"}},
		Body:       entry.Data,
	}
}

// toCache stores a successful GET response.
func (c *Client) toCache(ctx context.Context, req *Request, cacheKey string, resp *Response) {
	if c.cache == nil || req.Method != http.MethodGet || resp.StatusCode != http.StatusOK {
		return
	}

	entry := &cf.CacheEntry{
		Data:      resp.Body,
		ExpiresAt: time.Now().Add(c.cacheTTL),
		ETag:      resp.Headers.Get("ETag"),
	}

	if err := c.cache.Set(ctx, cacheKey, entry); err != nil && c.logger != nil {
		c.logger.Warn("Failed to cache response", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
