package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// ResourcesClient implements vra.ResourcesClient.
type ResourcesClient struct {
	httpClient *http.Client
	paginator  *Paginator
}

// NewResourcesClient creates a new resources client.
func NewResourcesClient(httpClient *http.Client, paginator *Paginator) *ResourcesClient {
	return &ResourcesClient{
		httpClient: httpClient,
		paginator:  paginator,
	}
}

// List implements vra.ResourcesClient.List.
func (c *ResourcesClient) List(ctx context.Context, opts *vra.ListOptions) ([]vra.Resource, error) {
	resources, err := fetchAll[vra.Resource](ctx, c.paginator, constants.PathConsumerResources, opts)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}

	return resources, nil
}

// Get implements vra.ResourcesClient.Get.
func (c *ResourcesClient) Get(ctx context.Context, id string) (*vra.Resource, error) {
	return getOne[vra.Resource](ctx, c.httpClient, constants.PathConsumerResources+"/"+url.PathEscape(id), "resource", id)
}

// Destroy implements vra.ResourcesClient.Destroy.
func (c *ResourcesClient) Destroy(ctx context.Context, id string) (*vra.Request, error) {
	resource, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return c.destroy(ctx, resource)
}

// DestroyResource submits the Destroy action of an already fetched
// resource. Listings usually omit operations; the resource is fetched again
// when they are missing.
func (c *ResourcesClient) DestroyResource(ctx context.Context, resource *vra.Resource) (*vra.Request, error) {
	if resource.Operations == nil {
		fetched, err := c.Get(ctx, resource.ID)
		if err != nil {
			return nil, err
		}

		resource = fetched
	}

	return c.destroy(ctx, resource)
}

func (c *ResourcesClient) destroy(ctx context.Context, resource *vra.Resource) (*vra.Request, error) {
	action := vra.FindAction(resource.Operations, vra.ActionDestroyResource)
	if action == nil {
		return nil, fmt.Errorf("%w: no destroy action found for resource %s", vra.ErrNotFound, resource.ID)
	}

	resp, err := c.httpClient.Post(ctx, constants.PathConsumerRequests, nil, resourceActionPayload(resource, action.ID), http.RequiresAuth)
	if err != nil {
		return nil, submitError("destroy action", err)
	}

	requestID, err := requestIDFromLocation(resp)
	if err != nil {
		return nil, fmt.Errorf("submitting destroy action: %w", err)
	}

	return &vra.Request{ID: requestID}, nil
}

func resourceActionPayload(resource *vra.Resource, actionID string) map[string]interface{} {
	organization := vra.Organization{}
	if resource.Organization != nil {
		organization = *resource.Organization
	}

	return map[string]interface{}{
		"@type":             constants.RequestTypeResourceAction,
		"resourceRef":       map[string]string{"id": resource.ID},
		"resourceActionRef": map[string]string{"id": actionID},
		"organization": map[string]string{
			"tenantRef":      organization.TenantRef,
			"tenantLabel":    organization.TenantLabel,
			"subtenantRef":   organization.SubtenantRef,
			"subtenantLabel": organization.SubtenantLabel,
		},
		"state":         constants.RequestStateSubmitted,
		"requestNumber": 0,
		"requestData":   map[string]interface{}{"entries": []interface{}{}},
	}
}
