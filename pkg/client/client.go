// Package client is the Go SDK for the foodcourt API: an authenticated HTTP
// client with transparent access-token refresh, thin per-resource modules,
// session state and a local cart.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Client struct {
	baseURL  string
	http     *http.Client
	store    TokenStore
	onLogout func()

	// refreshMu serializes token refreshes so simultaneous 401s from
	// several in-flight requests produce a single refresh call.
	refreshMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.store = s }
}

// WithLogoutHook registers the callback run after a forced logout (refresh
// failed or kept failing). The UI equivalent of redirecting to /auth.
func WithLogoutHook(fn func()) Option {
	return func(c *Client) { c.onLogout = fn }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		}
	}
	return c
}

func (c *Client) TokenStore() TokenStore { return c.store }

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// skipAuthRefresh marks the auth endpoints themselves, so a 401 from
	// them never recurses into another refresh.
	skipAuthRefresh bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		var err error
		payload, err = json.Marshal(cl.body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("encode request: %v", err)}
		}
	}

	token := c.store.Get()
	status, respBody, err := c.send(ctx, cl.method, cl.path, cl.query, payload, token)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	if status < http.StatusMultipleChoices {
		return decode(cl.out, respBody)
	}

	if status == http.StatusUnauthorized && !cl.skipAuthRefresh {
		if rErr := c.refreshToken(ctx, token); rErr != nil {
			c.forceLogout(ctx)
			return errorFromResponse(status, respBody)
		}

		// at most one replay per original request
		retryStatus, retryBody, err := c.send(ctx, cl.method, cl.path, cl.query, payload, c.store.Get())
		if err != nil {
			return &APIError{Message: err.Error()}
		}
		if retryStatus < http.StatusMultipleChoices {
			return decode(cl.out, retryBody)
		}
		if retryStatus == http.StatusUnauthorized {
			c.forceLogout(ctx)
		}
		return errorFromResponse(retryStatus, retryBody)
	}

	return errorFromResponse(status, respBody)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// refreshToken exchanges the refresh cookie for a new access token. The
// staleToken argument lets a caller that waited on the mutex detect that
// another request already rotated the token.
func (c *Client) refreshToken(ctx context.Context, staleToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.store.Get(); current != "" && current != staleToken {
		return nil
	}

	status, body, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, nil, staleToken)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	if status >= http.StatusMultipleChoices {
		return errorFromResponse(status, body)
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.AccessToken == "" {
		return &APIError{Message: "refresh returned no token"}
	}
	return c.store.Set(out.AccessToken)
}

// forceLogout clears local credentials after an unrecoverable auth failure.
// The server-side logout is best effort.
func (c *Client) forceLogout(ctx context.Context) {
	_, _, _ = c.send(ctx, http.MethodPost, "/auth/logout", nil, nil, c.store.Get())
	_ = c.store.Clear()
	if c.onLogout != nil {
		c.onLogout()
	}
}

func decode(out any, data []byte) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
