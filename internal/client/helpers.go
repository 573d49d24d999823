package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Static errors for err113 compliance.
var (
	ErrIDRequired    = errors.New("ID is required")
	ErrEmptyResponse = errors.New("response carried no items")
)

// getOne fetches a single object. A 404 names the missing object.
func getOne[T any](ctx context.Context, httpClient *http.Client, path, kind, id string) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("getting %s: %w", kind, ErrIDRequired)
	}

	var v T

	err := httpClient.GetJSON(ctx, path, nil, &v)
	if err != nil {
		return nil, notFound(err, kind, id)
	}

	return &v, nil
}

// notFound rewords a 404 as "<kind> ID <id> does not exist". The result
// still matches vra.ErrNotFound.
func notFound(err error, kind, id string) error {
	if vra.IsNotFound(err) {
		return fmt.Errorf("%s ID %s does not exist: %w", kind, id, err)
	}

	return fmt.Errorf("getting %s %s: %w", kind, id, err)
}

// submitError wraps HTTP failures of a submission in a *vra.RequestError.
func submitError(op string, err error) error {
	var httpErr *vra.HTTPError
	if errors.As(err, &httpErr) {
		return &vra.RequestError{Op: op, Err: err}
	}

	return fmt.Errorf("submitting %s: %w", op, err)
}

// requestIDFromLocation returns the last path segment of the Location
// header.
func requestIDFromLocation(resp http.Response) (string, error) {
	location := resp.Header("Location")
	if location == "" {
		return "", vra.ErrMissingLocation
	}

	if parsed, err := url.Parse(location); err == nil && parsed.Path != "" {
		location = parsed.Path
	}

	location = strings.TrimRight(location, "/")

	return location[strings.LastIndex(location, "/")+1:], nil
}

// contentOf decodes the content array of a single, unpaged list response.
func contentOf[T any](ctx context.Context, httpClient *http.Client, path string) ([]T, error) {
	var envelope vra.ListEnvelope

	err := httpClient.GetJSON(ctx, path, nil, &envelope)
	if err != nil {
		return nil, err
	}

	return decodeAll[T](envelope.Content)
}

func decodeJSON(body []byte, v interface{}, what string) error {
	err := json.Unmarshal(body, v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", what, err)
	}

	return nil
}
