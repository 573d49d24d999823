package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// CatalogTypesClient implements vra.CatalogTypesClient.
type CatalogTypesClient struct {
	httpClient *http.Client
	paginator  *Paginator
}

// NewCatalogTypesClient creates a new catalog types client.
func NewCatalogTypesClient(httpClient *http.Client, paginator *Paginator) *CatalogTypesClient {
	return &CatalogTypesClient{
		httpClient: httpClient,
		paginator:  paginator,
	}
}

// List implements vra.CatalogTypesClient.List.
func (c *CatalogTypesClient) List(ctx context.Context, opts *vra.ListOptions) ([]vra.CatalogType, error) {
	types, err := fetchAll[vra.CatalogType](ctx, c.paginator, constants.PathCatalogTypes, opts)
	if err != nil {
		return nil, fmt.Errorf("listing catalog types: %w", err)
	}

	return types, nil
}

// Get implements vra.CatalogTypesClient.Get.
func (c *CatalogTypesClient) Get(ctx context.Context, id string) (*vra.CatalogType, error) {
	return getOne[vra.CatalogType](ctx, c.httpClient, constants.PathCatalogTypes+"/"+url.PathEscape(id), "catalog type", id)
}
