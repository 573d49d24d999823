package vra

import (
	"context"
	"net/url"
)

// ListOptions narrows a list call. A nil *ListOptions lists everything.
type ListOptions struct {
	// Filter is passed as the OData $filter expression.
	Filter string
	// Query holds any additional query parameters.
	Query url.Values
}

// ToValues converts the options to query parameters. Paging parameters are
// added by the fetcher and never taken from here.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	for key, vals := range o.Query {
		for _, v := range vals {
			values.Add(key, v)
		}
	}

	if o.Filter != "" {
		values.Set("$filter", o.Filter)
	}

	return values
}

// CatalogClient defines operations on catalog items.
type CatalogClient interface {
	ListItems(ctx context.Context, opts *ListOptions) ([]CatalogItem, error)
	ListEntitledItems(ctx context.Context, opts *ListOptions) ([]CatalogItem, error)
	GetItem(ctx context.Context, id string) (*CatalogItem, error)
	// SubmitCatalogRequest submits a catalog service request and returns a
	// Request holding only the new request's ID.
	SubmitCatalogRequest(ctx context.Context, request *CatalogRequest) (*Request, error)
	// SubmitDeploymentRequest requests a deployment of catalogID and returns
	// the created deployment.
	SubmitDeploymentRequest(ctx context.Context, catalogID string, request *DeploymentRequest) (*Deployment, error)
}

// CatalogSourcesClient defines operations on catalog sources.
type CatalogSourcesClient interface {
	List(ctx context.Context, opts *ListOptions) ([]CatalogSource, error)
	Get(ctx context.Context, id string) (*CatalogSource, error)
	Create(ctx context.Context, request *CatalogSourceCreateRequest) (*CatalogSource, error)
	Entitle(ctx context.Context, id string) (*Entitlement, error)
}

// CatalogTypesClient defines operations on catalog types.
type CatalogTypesClient interface {
	List(ctx context.Context, opts *ListOptions) ([]CatalogType, error)
	Get(ctx context.Context, id string) (*CatalogType, error)
}

// DeploymentsClient defines operations on deployments.
type DeploymentsClient interface {
	List(ctx context.Context, opts *ListOptions) ([]Deployment, error)
	Get(ctx context.Context, id string) (*Deployment, error)
	Actions(ctx context.Context, id string) ([]Action, error)
	Resources(ctx context.Context, id string) ([]Resource, error)
	Requests(ctx context.Context, id string) ([]Request, error)
	PowerOn(ctx context.Context, id, reason string) (*Request, error)
	PowerOff(ctx context.Context, id, reason string) (*Request, error)
	Destroy(ctx context.Context, id, reason string) (*Request, error)
}

// RequestsClient defines operations on catalog service requests.
type RequestsClient interface {
	List(ctx context.Context, opts *ListOptions) ([]Request, error)
	Get(ctx context.Context, id string) (*Request, error)
	Resources(ctx context.Context, id string) ([]Resource, error)
}

// ResourcesClient defines operations on provisioned resources.
type ResourcesClient interface {
	List(ctx context.Context, opts *ListOptions) ([]Resource, error)
	Get(ctx context.Context, id string) (*Resource, error)
	// Destroy submits the resource's Destroy action and returns a Request
	// holding only the new request's ID.
	Destroy(ctx context.Context, id string) (*Request, error)
}
