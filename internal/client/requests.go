package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// RequestsClient implements vra.RequestsClient.
type RequestsClient struct {
	httpClient *http.Client
	paginator  *Paginator
}

// NewRequestsClient creates a new requests client.
func NewRequestsClient(httpClient *http.Client, paginator *Paginator) *RequestsClient {
	return &RequestsClient{
		httpClient: httpClient,
		paginator:  paginator,
	}
}

// List implements vra.RequestsClient.List.
func (c *RequestsClient) List(ctx context.Context, opts *vra.ListOptions) ([]vra.Request, error) {
	requests, err := fetchAll[vra.Request](ctx, c.paginator, constants.PathConsumerRequests, opts)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	return requests, nil
}

// Get implements vra.RequestsClient.Get.
func (c *RequestsClient) Get(ctx context.Context, id string) (*vra.Request, error) {
	return getOne[vra.Request](ctx, c.httpClient, constants.PathConsumerRequests+"/"+url.PathEscape(id), "request", id)
}

// Resources implements vra.RequestsClient.Resources.
func (c *RequestsClient) Resources(ctx context.Context, id string) ([]vra.Resource, error) {
	path := constants.PathConsumerRequests + "/" + url.PathEscape(id) + "/resources"

	resources, err := fetchAll[vra.Resource](ctx, c.paginator, path, nil)
	if err != nil {
		if vra.IsNotFound(err) {
			return nil, fmt.Errorf("resources for request ID %s are not found: %w", id, err)
		}

		return nil, fmt.Errorf("listing resources of request %s: %w", id, err)
	}

	return resources, nil
}
