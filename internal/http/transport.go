package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/logging"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// Transport performs exactly one HTTP exchange. Implementations must not
// follow redirects and must honor Request.VerifyTLS.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// TransportOptions configures the transports.
type TransportOptions struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       vra.Logger
}

func (o TransportOptions) withDefaults() TransportOptions {
	if o.Timeout <= 0 {
		o.Timeout = constants.DefaultHTTPTimeout
	}

	if o.RetryWaitMin <= 0 {
		o.RetryWaitMin = constants.DefaultRetryWaitMin
	}

	if o.RetryWaitMax <= 0 {
		o.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	return o
}

// NewTransport returns the transport for kind.
func NewTransport(kind vra.TransportKind, opts TransportOptions) (Transport, error) {
	switch kind {
	case vra.TransportRetryable, "":
		return NewRetryableTransport(opts), nil
	case vra.TransportResty:
		return NewRestyTransport(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", vra.ErrUnknownTransport, kind)
	}
}

func tlsConfig(verify bool) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !verify, // #nosec G402 -- only when the caller disabled verification
	}
}

// noFollow stops net/http from following redirects so the engine sees every
// 3xx response.
func noFollow(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// RetryableTransport performs requests with go-retryablehttp. One client is
// kept per TLS verification mode so that an insecure request never shares a
// connection pool with a verifying one.
type RetryableTransport struct {
	opts TransportOptions

	mu       sync.Mutex
	secure   *retryablehttp.Client
	insecure *retryablehttp.Client
}

// NewRetryableTransport creates a retryablehttp backed transport.
func NewRetryableTransport(opts TransportOptions) *RetryableTransport {
	return &RetryableTransport{opts: opts.withDefaults()}
}

func (t *RetryableTransport) client(verify bool) *retryablehttp.Client {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot := &t.insecure
	if verify {
		slot = &t.secure
	}

	if *slot == nil {
		*slot = newRetryableClient(t.opts, verify)
	}

	return *slot
}

func newRetryableClient(opts TransportOptions, verify bool) *retryablehttp.Client {
	baseTransport, _ := http.DefaultTransport.(*http.Transport)
	if baseTransport == nil {
		baseTransport = &http.Transport{}
	}

	transport := baseTransport.Clone()
	transport.TLSClientConfig = tlsConfig(verify)

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Timeout:       opts.Timeout,
		Transport:     transport,
		CheckRedirect: noFollow,
	}
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = opts.RetryWaitMin
	client.RetryWaitMax = opts.RetryWaitMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if opts.Logger != nil {
		client.Logger = logging.NewLeveled(opts.Logger)
	} else {
		client.Logger = nil
	}

	return client
}

// Do implements Transport.
func (t *RetryableTransport) Do(ctx context.Context, req Request) (Response, error) {
	var body interface{}
	if len(req.body) > 0 {
		body = req.body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for name, values := range req.headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	resp, err := t.client(req.verifyTLS).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &bufferedResponse{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		body:       respBody,
	}, nil
}

// RestyTransport performs requests with resty.
type RestyTransport struct {
	opts TransportOptions

	mu       sync.Mutex
	secure   *resty.Client
	insecure *resty.Client
}

// NewRestyTransport creates a resty backed transport.
func NewRestyTransport(opts TransportOptions) *RestyTransport {
	return &RestyTransport{opts: opts.withDefaults()}
}

func (t *RestyTransport) client(verify bool) *resty.Client {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot := &t.insecure
	if verify {
		slot = &t.secure
	}

	if *slot == nil {
		*slot = newRestyClient(t.opts, verify)
	}

	return *slot
}

func newRestyClient(opts TransportOptions, verify bool) *resty.Client {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetTLSClientConfig(tlsConfig(verify)).
		SetRedirectPolicy(resty.RedirectPolicyFunc(noFollow)).
		SetRetryCount(opts.RetryMax).
		SetRetryWaitTime(opts.RetryWaitMin).
		SetRetryMaxWaitTime(opts.RetryWaitMax)

	if opts.Logger != nil {
		client.SetLogger(logging.NewResty(opts.Logger))
	}

	return client
}

// Do implements Transport.
func (t *RestyTransport) Do(ctx context.Context, req Request) (Response, error) {
	restyReq := t.client(req.verifyTLS).R().SetContext(ctx)

	for name, values := range req.headers {
		for _, v := range values {
			restyReq.Header.Add(name, v)
		}
	}

	if len(req.body) > 0 {
		restyReq.SetBody(req.body)
	}

	resp, err := restyReq.Execute(req.method, req.url)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return &restyResponse{resp: resp}, nil
}
