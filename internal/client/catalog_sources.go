package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// CatalogSourcesClient implements vra.CatalogSourcesClient.
type CatalogSourcesClient struct {
	httpClient *http.Client
	paginator  *Paginator
}

// NewCatalogSourcesClient creates a new catalog sources client.
func NewCatalogSourcesClient(httpClient *http.Client, paginator *Paginator) *CatalogSourcesClient {
	return &CatalogSourcesClient{
		httpClient: httpClient,
		paginator:  paginator,
	}
}

// List implements vra.CatalogSourcesClient.List.
func (c *CatalogSourcesClient) List(ctx context.Context, opts *vra.ListOptions) ([]vra.CatalogSource, error) {
	sources, err := fetchAll[vra.CatalogSource](ctx, c.paginator, constants.PathCatalogSources, opts)
	if err != nil {
		return nil, fmt.Errorf("listing catalog sources: %w", err)
	}

	return sources, nil
}

// Get implements vra.CatalogSourcesClient.Get.
func (c *CatalogSourcesClient) Get(ctx context.Context, id string) (*vra.CatalogSource, error) {
	return getOne[vra.CatalogSource](ctx, c.httpClient, constants.PathCatalogSources+"/"+url.PathEscape(id), "catalog source", id)
}

// Create implements vra.CatalogSourcesClient.Create.
func (c *CatalogSourcesClient) Create(ctx context.Context, request *vra.CatalogSourceCreateRequest) (*vra.CatalogSource, error) {
	if request == nil {
		request = &vra.CatalogSourceCreateRequest{}
	}

	err := vra.ValidateStruct("unable to create catalog source", *request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, constants.PathCatalogSources, nil, createSourcePayload(request), http.RequiresAuth)
	if err != nil {
		return nil, submitError("catalog source", err)
	}

	var source vra.CatalogSource

	err = decodeJSON(resp.Body(), &source, "catalog source")
	if err != nil {
		return nil, err
	}

	return &source, nil
}

func createSourcePayload(request *vra.CatalogSourceCreateRequest) map[string]interface{} {
	return map[string]interface{}{
		"name":   request.Name,
		"typeId": request.TypeID,
		"config": map[string]string{"sourceProjectId": request.ProjectID},
	}
}

// Entitle implements vra.CatalogSourcesClient.Entitle. The source is
// fetched first for its project.
func (c *CatalogSourcesClient) Entitle(ctx context.Context, id string) (*vra.Entitlement, error) {
	source, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entitlement := vra.Entitlement{
		ProjectID: source.ProjectID(),
		Definition: vra.EntitlementDefinition{
			Type: constants.EntitlementTypeCatalogSource,
			ID:   source.ID,
		},
	}

	query := url.Values{"project_id": {entitlement.ProjectID}}

	resp, err := c.httpClient.Post(ctx, constants.PathCatalogEntitlements, query, entitlement, http.RequiresAuth)
	if err != nil {
		return nil, submitError("entitlement", err)
	}

	var created vra.Entitlement

	err = decodeJSON(resp.Body(), &created, "entitlement")
	if err != nil {
		return nil, err
	}

	return &created, nil
}
