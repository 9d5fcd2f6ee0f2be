package trustsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// Client talks to the trust service the way a browser would: session
// cookies live in its jar and the CSRF token is echoed on mutating requests.
// A Client represents one caller and is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	retryOnForbidden bool

	mu        sync.RWMutex
	csrfToken string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. A cookie jar is added when hc
// has none since the service keeps its session in cookies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithCSRFRetry makes a mutating request that fails with 403 fetch a fresh
// CSRF token and try again, once.
func WithCSRFRetry() Option {
	return func(c *Client) { c.retryOnForbidden = true }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.HTTPClient.Jar == nil {
		// cookiejar.New only fails on a bad PublicSuffixList.
		jar, _ := cookiejar.New(nil)
		c.HTTPClient.Jar = jar
	}
	return c
}

// CachedCSRFToken returns the token the client currently echoes, if any.
func (c *Client) CachedCSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

func (c *Client) setCSRFToken(token string) {
	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()
}

// send performs one API call. Mutating calls carry the cached CSRF token and
// may be retried once after a 403 when WithCSRFRetry is set.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusForbidden || !c.retryOnForbidden || !isMutating(method) {
		return resp, nil
	}

	forbidden := readError(resp)
	if _, err := c.CSRFToken(ctx); err != nil {
		return nil, forbidden
	}
	return c.doRequest(ctx, method, path, payload)
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if isMutating(method) {
		if token := c.CachedCSRFToken(); token != "" {
			req.Header.Set(CSRFHeader, token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
