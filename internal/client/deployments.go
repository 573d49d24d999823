package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// DeploymentsClient implements vra.DeploymentsClient.
type DeploymentsClient struct {
	httpClient *http.Client
	paginator  *Paginator
}

// NewDeploymentsClient creates a new deployments client.
func NewDeploymentsClient(httpClient *http.Client, paginator *Paginator) *DeploymentsClient {
	return &DeploymentsClient{
		httpClient: httpClient,
		paginator:  paginator,
	}
}

func deploymentPath(id string, sub ...string) string {
	path := constants.PathDeployments + "/" + url.PathEscape(id)
	for _, s := range sub {
		path += "/" + s
	}

	return path
}

// List implements vra.DeploymentsClient.List.
func (c *DeploymentsClient) List(ctx context.Context, opts *vra.ListOptions) ([]vra.Deployment, error) {
	deployments, err := fetchAll[vra.Deployment](ctx, c.paginator, constants.PathDeployments, opts)
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}

	return deployments, nil
}

// Get implements vra.DeploymentsClient.Get.
func (c *DeploymentsClient) Get(ctx context.Context, id string) (*vra.Deployment, error) {
	return getOne[vra.Deployment](ctx, c.httpClient, deploymentPath(id), "deployment", id)
}

// Actions implements vra.DeploymentsClient.Actions.
func (c *DeploymentsClient) Actions(ctx context.Context, id string) ([]vra.Action, error) {
	var actions []vra.Action

	err := c.httpClient.GetJSON(ctx, deploymentPath(id, "actions"), nil, &actions)
	if err != nil {
		return nil, notFound(err, "deployment", id)
	}

	return actions, nil
}

// Resources implements vra.DeploymentsClient.Resources.
func (c *DeploymentsClient) Resources(ctx context.Context, id string) ([]vra.Resource, error) {
	resources, err := contentOf[vra.Resource](ctx, c.httpClient, deploymentPath(id, "resources"))
	if err != nil {
		return nil, notFound(err, "deployment", id)
	}

	return resources, nil
}

// Requests implements vra.DeploymentsClient.Requests.
func (c *DeploymentsClient) Requests(ctx context.Context, id string) ([]vra.Request, error) {
	requests, err := contentOf[vra.Request](ctx, c.httpClient, deploymentPath(id, "requests"))
	if err != nil {
		return nil, notFound(err, "deployment", id)
	}

	return requests, nil
}

// PowerOn implements vra.DeploymentsClient.PowerOn.
func (c *DeploymentsClient) PowerOn(ctx context.Context, id, reason string) (*vra.Request, error) {
	return c.submitAction(ctx, id, vra.ActionPowerOn, "power-on", reason)
}

// PowerOff implements vra.DeploymentsClient.PowerOff.
func (c *DeploymentsClient) PowerOff(ctx context.Context, id, reason string) (*vra.Request, error) {
	return c.submitAction(ctx, id, vra.ActionPowerOff, "power-off", reason)
}

// Destroy implements vra.DeploymentsClient.Destroy.
func (c *DeploymentsClient) Destroy(ctx context.Context, id, reason string) (*vra.Request, error) {
	return c.submitAction(ctx, id, vra.ActionDeleteDeployment, "destroy", reason)
}

type actionRequest struct {
	ActionID string                 `json:"actionId"`
	Inputs   map[string]interface{} `json:"inputs"`
	Reason   string                 `json:"reason"`
}

func (c *DeploymentsClient) submitAction(ctx context.Context, id, actionName, label, reason string) (*vra.Request, error) {
	actions, err := c.Actions(ctx, id)
	if err != nil {
		return nil, err
	}

	action := vra.FindAction(actions, actionName)
	if action == nil {
		return nil, fmt.Errorf("%w: no %s action found for deployment %s", vra.ErrNotFound, label, id)
	}

	resp, err := c.httpClient.Post(ctx, deploymentPath(id, "requests"), nil, actionRequest{
		ActionID: action.ID,
		Inputs:   map[string]interface{}{},
		Reason:   reason,
	}, http.RequiresAuth)
	if err != nil {
		return nil, submitError(label+" action", err)
	}

	var request vra.Request

	err = decodeJSON(resp.Body(), &request, "action request")
	if err != nil {
		return nil, err
	}

	return &request, nil
}
