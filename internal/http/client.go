// Package http implements the request engine used by every resource client:
// an immutable Request, a Response interface with one adapter per transport
// library, the redirect state machine, and an auth-aware Client.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/logging"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Auth states whether a call needs a valid token first.
type Auth int

const (
	// RequiresAuth authorizes before building the request.
	RequiresAuth Auth = iota
	// SkipAuth builds the request without authorizing. A held token is still
	// attached.
	SkipAuth
)

// Authorizer guarantees a usable token.
type Authorizer interface {
	Authorize(ctx context.Context) error
	CurrentToken() *oauth2.Token
}

// DefaultUserAgent is sent unless overridden.
const DefaultUserAgent = "vra-client-go/1.0"

// Client builds requests against a base URL and executes them with an Engine.
type Client struct {
	baseURL    string
	engine     *Engine
	authorizer Authorizer
	verifyTLS  bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for tracing.
func WithLogger(logger vra.Logger) Option {
	return func(c *Client) {
		c.engine.tracer.logger = logger
	}
}

// WithDebug enables tracing of every hop.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.engine.tracer.enabled = c.engine.tracer.enabled || debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithVerifyTLS sets certificate validation for every call.
func WithVerifyTLS(verify bool) Option {
	return func(c *Client) {
		c.verifyTLS = verify
	}
}

// WithObserver records metrics for every hop.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.engine.observer = observer
	}
}

// WithMaxRedirects overrides the redirect hop limit.
func WithMaxRedirects(hops int) Option {
	return func(c *Client) {
		if hops >= 0 {
			c.engine.maxHops = hops
		}
	}
}

// NewClient creates a client for baseURL. Tracing is enabled when
// VRA_HTTP_TRACE is set; without a logger it goes to stderr through logrus.
func NewClient(baseURL string, transport Transport, opts ...Option) *Client {
	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		engine:    NewEngine(transport),
		verifyTLS: true,
		userAgent: DefaultUserAgent,
	}

	client.engine.tracer.enabled = os.Getenv(constants.EnvHTTPTrace) != ""

	for _, opt := range opts {
		opt(client)
	}

	if client.engine.tracer.enabled && client.engine.tracer.logger == nil {
		client.engine.tracer.logger = logging.NewDefault(logrus.DebugLevel)
	}

	return client
}

// SetAuthorizer sets the token source. It is separate from NewClient because
// the token manager itself issues calls through this client.
func (c *Client) SetAuthorizer(authorizer Authorizer) {
	c.authorizer = authorizer
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path and query onto the base URL.
func (c *Client) URL(path string, query url.Values) string {
	full := c.baseURL + "/" + strings.TrimLeft(path, "/")

	if len(query) > 0 {
		separator := "?"
		if strings.Contains(full, "?") {
			separator = "&"
		}

		full += separator + query.Encode()
	}

	return full
}

// NewRequest builds a request for path. With RequiresAuth the authorizer is
// consulted first. The body is sent as is when it is a []byte and JSON
// encoded otherwise.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body interface{}, auth Auth) (Request, error) {
	if auth == RequiresAuth && c.authorizer != nil {
		err := c.authorizer.Authorize(ctx)
		if err != nil {
			return Request{}, fmt.Errorf("authorizing request: %w", err)
		}
	}

	payload, err := encodeBody(body)
	if err != nil {
		return Request{}, err
	}

	req := NewRequest(method, c.URL(path, query), payload, c.verifyTLS).
		WithHeader("Accept", "application/json").
		WithHeader("Content-Type", "application/json").
		WithHeader("User-Agent", c.userAgent)

	if c.authorizer != nil {
		if token := c.authorizer.CurrentToken(); token != nil && token.AccessToken != "" {
			req = req.WithHeader("Authorization", token.Type()+" "+token.AccessToken)
		}
	}

	return req, nil
}

// Do executes req.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	return c.engine.Execute(ctx, req)
}

// Call builds and executes a request.
func (c *Client) Call(ctx context.Context, method, path string, query url.Values, body interface{}, auth Auth) (Response, error) {
	req, err := c.NewRequest(ctx, method, path, query, body, auth)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, auth Auth) (Response, error) {
	return c.Call(ctx, http.MethodGet, path, query, nil, auth)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, path string, auth Auth) (Response, error) {
	return c.Call(ctx, http.MethodHead, path, nil, nil, auth)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body interface{}, auth Auth) (Response, error) {
	return c.Call(ctx, http.MethodPost, path, query, body, auth)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, auth Auth) (Response, error) {
	return c.Call(ctx, http.MethodDelete, path, nil, nil, auth)
}

// GetJSON performs a GET request and decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v interface{}) error {
	resp, err := c.Get(ctx, path, query, RequiresAuth)
	if err != nil {
		return err
	}

	err = json.Unmarshal(resp.Body(), v)
	if err != nil {
		return fmt.Errorf("parsing response from %s: %w", path, err)
	}

	return nil
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		return data, nil
	}
}
