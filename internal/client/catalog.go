package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Request data keys of catalog item requests.
const (
	entryBlueprintID         = "provider-blueprintId"
	entryProvisioningGroupID = "provider-provisioningGroupId"
	entryRequestedFor        = "requestedFor"
	entryCPUCount            = "provider-VirtualMachine.CPU.Count"
	entryMemorySize          = "provider-VirtualMachine.Memory.Size"
	entryLeaseDays           = "provider-VirtualMachine.LeaseDays"
	entryNotes               = "provider-__Notes"
)

// placeholder satisfies required fields that are filled in after a lookup.
const placeholder = "-"

// CatalogClient implements vra.CatalogClient.
type CatalogClient struct {
	httpClient *http.Client
	paginator  *Paginator
}

// NewCatalogClient creates a new catalog client.
func NewCatalogClient(httpClient *http.Client, paginator *Paginator) *CatalogClient {
	return &CatalogClient{
		httpClient: httpClient,
		paginator:  paginator,
	}
}

// ListItems implements vra.CatalogClient.ListItems.
func (c *CatalogClient) ListItems(ctx context.Context, opts *vra.ListOptions) ([]vra.CatalogItem, error) {
	items, err := fetchAll[vra.CatalogItem](ctx, c.paginator, constants.PathCatalogItems, opts)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}

	return items, nil
}

// ListEntitledItems implements vra.CatalogClient.ListEntitledItems.
func (c *CatalogClient) ListEntitledItems(ctx context.Context, opts *vra.ListOptions) ([]vra.CatalogItem, error) {
	entitled, err := fetchAll[vra.EntitledCatalogItem](ctx, c.paginator, constants.PathEntitledCatalogItems, opts)
	if err != nil {
		return nil, fmt.Errorf("listing entitled catalog items: %w", err)
	}

	items := make([]vra.CatalogItem, 0, len(entitled))
	for _, e := range entitled {
		items = append(items, e.CatalogItem)
	}

	return items, nil
}

// GetItem implements vra.CatalogClient.GetItem.
func (c *CatalogClient) GetItem(ctx context.Context, id string) (*vra.CatalogItem, error) {
	return getOne[vra.CatalogItem](ctx, c.httpClient, constants.PathCatalogItems+"/"+url.PathEscape(id), "catalog", id)
}

// SubmitCatalogRequest implements vra.CatalogClient.SubmitCatalogRequest.
//
// Every field except SubtenantID is validated before any call. The catalog
// item is then fetched for its tenant and blueprint, and SubtenantID falls
// back to the item's business group.
func (c *CatalogClient) SubmitCatalogRequest(ctx context.Context, request *vra.CatalogRequest) (*vra.Request, error) {
	if request == nil {
		request = &vra.CatalogRequest{}
	}

	precheck := *request
	if precheck.SubtenantID == "" {
		precheck.SubtenantID = placeholder
	}

	err := vra.ValidateStruct("unable to submit request", precheck)
	if err != nil {
		return nil, err
	}

	item, err := c.GetItem(ctx, request.CatalogID)
	if err != nil {
		return nil, err
	}

	resolved := *request
	if resolved.SubtenantID == "" {
		resolved.SubtenantID = item.SubtenantID()
	}

	err = vra.ValidateStruct("unable to submit request", resolved)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, constants.PathConsumerRequests, nil, catalogRequestPayload(&resolved, item), http.RequiresAuth)
	if err != nil {
		return nil, submitError("request", err)
	}

	id, err := requestIDFromLocation(resp)
	if err != nil {
		return nil, fmt.Errorf("submitting request: %w", err)
	}

	return &vra.Request{ID: id}, nil
}

func catalogRequestPayload(request *vra.CatalogRequest, item *vra.CatalogItem) map[string]interface{} {
	params := []vra.RequestParameter{
		{Key: entryBlueprintID, Type: vra.ParameterTypeString, Value: item.BlueprintID()},
		{Key: entryProvisioningGroupID, Type: vra.ParameterTypeString, Value: request.SubtenantID},
		{Key: entryRequestedFor, Type: vra.ParameterTypeString, Value: request.RequestedFor},
		{Key: entryCPUCount, Type: vra.ParameterTypeInteger, Value: *request.CPUs},
		{Key: entryMemorySize, Type: vra.ParameterTypeInteger, Value: *request.Memory},
		{Key: entryLeaseDays, Type: vra.ParameterTypeInteger, Value: request.LeaseDays},
		{Key: entryNotes, Type: vra.ParameterTypeString, Value: request.Notes},
	}
	params = append(params, request.Parameters...)

	entries := make([]map[string]interface{}, 0, len(params))
	for _, p := range params {
		entries = append(entries, p.Entry())
	}

	return map[string]interface{}{
		"@type":          constants.RequestTypeCatalogItem,
		"catalogItemRef": map[string]string{"id": request.CatalogID},
		"organization": map[string]string{
			"tenantRef":    item.TenantID(),
			"subtenantRef": request.SubtenantID,
		},
		"requestedFor":  request.RequestedFor,
		"state":         constants.RequestStateSubmitted,
		"requestNumber": 0,
		"requestData":   map[string]interface{}{"entries": entries},
	}
}

type deploymentRequestResult struct {
	DeploymentID string `json:"deploymentId"`
}

// SubmitDeploymentRequest implements vra.CatalogClient.SubmitDeploymentRequest.
func (c *CatalogClient) SubmitDeploymentRequest(ctx context.Context, catalogID string, request *vra.DeploymentRequest) (*vra.Deployment, error) {
	if request == nil {
		request = &vra.DeploymentRequest{}
	}

	err := vra.ValidateStruct("unable to submit request", *request)
	if err != nil {
		return nil, err
	}

	if catalogID == "" {
		return nil, &vra.ValidationError{Subject: "unable to submit request", Missing: []string{"catalog_id"}}
	}

	path := constants.PathCatalogRequestItems + "/" + url.PathEscape(catalogID) + "/request"

	resp, err := c.httpClient.Post(ctx, path, nil, deploymentRequestPayload(request), http.RequiresAuth)
	if err != nil {
		return nil, submitError("request", err)
	}

	var results []deploymentRequestResult

	err = decodeJSON(resp.Body(), &results, "deployment request response")
	if err != nil {
		return nil, err
	}

	if len(results) == 0 || results[0].DeploymentID == "" {
		return nil, fmt.Errorf("submitting request: %w", ErrEmptyResponse)
	}

	return NewDeploymentsClient(c.httpClient, c.paginator).Get(ctx, results[0].DeploymentID)
}

// deploymentRequestPayload builds the request body. Parameters are merged
// into inputs and override count, image and flavor.
func deploymentRequestPayload(request *vra.DeploymentRequest) map[string]interface{} {
	count := request.Count
	if count == 0 {
		count = 1
	}

	inputs := map[string]interface{}{
		"count":  count,
		"image":  request.ImageMapping,
		"flavor": request.FlavorMapping,
	}

	for _, p := range request.Parameters {
		inputs[p.Key] = p.FormattedValue()
	}

	payload := map[string]interface{}{
		"deploymentName": request.Name,
		"projectId":      request.ProjectID,
		"version":        request.Version,
		"inputs":         inputs,
	}

	if request.Reason != "" {
		payload["reason"] = request.Reason
	}

	return payload
}
