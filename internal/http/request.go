package http

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Request is an immutable description of one HTTP exchange. Every With*
// method and redirect helper returns a new Request and leaves the receiver
// untouched, so a Request can be reused safely across redirect hops.
type Request struct {
	method    string
	url       string
	headers   http.Header
	body      []byte
	verifyTLS bool
}

// NewRequest creates a Request. The body is copied.
func NewRequest(method, rawURL string, body []byte, verifyTLS bool) Request {
	return Request{
		method:    strings.ToUpper(method),
		url:       rawURL,
		headers:   http.Header{},
		body:      slices.Clone(body),
		verifyTLS: verifyTLS,
	}
}

// Method returns the HTTP method.
func (r Request) Method() string { return r.method }

// URL returns the absolute request URL.
func (r Request) URL() string { return r.url }

// Body returns a copy of the request body.
func (r Request) Body() []byte { return slices.Clone(r.body) }

// VerifyTLS reports whether certificates must be validated.
func (r Request) VerifyTLS() bool { return r.verifyTLS }

// Header returns the first value of the named header.
func (r Request) Header(name string) string { return r.headers.Get(name) }

// Headers returns a copy of all headers.
func (r Request) Headers() http.Header { return r.headers.Clone() }

// WithHeader returns a copy of the request with the header set.
func (r Request) WithHeader(name, value string) Request {
	r.headers = r.headers.Clone()
	if r.headers == nil {
		r.headers = http.Header{}
	}

	r.headers.Set(name, value)

	return r
}

// WithoutHeader returns a copy of the request with the header removed.
func (r Request) WithoutHeader(name string) Request {
	r.headers = r.headers.Clone()
	r.headers.Del(name)

	return r
}

// WithBody returns a copy of the request with the body replaced.
func (r Request) WithBody(body []byte) Request {
	r.body = slices.Clone(body)

	return r
}

// Redirectable reports whether 301, 302 and 307 responses may be followed.
func (r Request) Redirectable() bool {
	return r.method == http.MethodGet || r.method == http.MethodHead
}

// RedirectTo returns the request re-pointed at location with the same method.
// Relative locations resolve against the current URL.
func (r Request) RedirectTo(location string) (Request, error) {
	target, err := r.resolve(location)
	if err != nil {
		return Request{}, err
	}

	r.headers = r.headers.Clone()
	r.url = target

	return r, nil
}

// SeeOther returns a GET request for location without a body.
func (r Request) SeeOther(location string) (Request, error) {
	next, err := r.RedirectTo(location)
	if err != nil {
		return Request{}, err
	}

	next.method = http.MethodGet
	next.body = nil
	next.headers.Del("Content-Length")
	next.headers.Del("Content-Type")

	return next, nil
}

func (r Request) resolve(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("%w: %s %s", vra.ErrMissingLocation, r.method, r.url)
	}

	base, err := url.Parse(r.url)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing Location header: %w", err)
	}

	return base.ResolveReference(ref).String(), nil
}
