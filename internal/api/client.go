// Package api is a client for the remote studywithme backend.
package api

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TokenStore supplies the bearer token and forgets it when the session
// expires.
type TokenStore interface {
	Token() (string, error)
	Clear() error
}

// Client sends JSON requests to the backend. Calls are independent; nothing
// is retried.
type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	tokens         TokenStore
	onUnauthorized func()
	log            *log.Logger

	Auth  *AuthService
	Todos *TodoService
	Users *UserService
}

type Option func(*Client)

// WithHTTPClient sets the transport settings to start from. The client is
// copied, never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request; zero keeps the http client's own value.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler sets the hook run after a 401 cleared the stored
// credentials; it should send the user back to login.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client rooted at baseURL (e.g. http://localhost:3001/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	var hc http.Client
	if c.http != nil {
		hc = *c.http
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	c.Auth = &AuthService{c: c}
	c.Todos = &TodoService{c: c}
	c.Users = &UserService{c: c}
	return c, nil
}

// interceptRequest stamps every outgoing request.
func (c *Client) interceptRequest(req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// interceptResponse ends the session on a 401.
func (c *Client) interceptResponse(resp *http.Response) {
	if resp.StatusCode != http.StatusUnauthorized {
		return
	}
	c.log.Warn("session expired", "path", resp.Request.URL.Path)
	if c.tokens != nil {
		if err := c.tokens.Clear(); err != nil {
			c.log.Error("clear credentials", "err", err)
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (*Envelope[T], error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if err := c.interceptRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"), "took", time.Since(start))

	c.interceptResponse(resp)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var env Envelope[json.RawMessage]
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Message = env.Error
			if apiErr.Message == "" {
				apiErr.Message = env.Message
			}
		}
		return nil, apiErr
	}

	env := &Envelope[T]{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

// IsUnauthorized reports whether err came from a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
