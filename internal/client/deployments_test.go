package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deploymentActions = `[
	{"id":"Deployment.PowerOn","name":"PowerOn","valid":true},
	{"id":"Deployment.PowerOff","name":"PowerOff","valid":true},
	{"id":"Deployment.Delete","name":"Delete","valid":true}
]`

func TestDeploymentsClient_Get(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation[vra.Deployment]{
		{
			Name:         "successful deployment",
			ID:           "dep-1",
			ExpectedPath: "/deployment/api/deployments/dep-1",
			StatusCode:   http.StatusOK,
			Response:     map[string]interface{}{"id": "dep-1", "name": "web", "status": "CREATE_SUCCESSFUL"},
			Check: func(t *testing.T, deployment *vra.Deployment) {
				t.Helper()
				assert.True(t, deployment.Successful())
				assert.True(t, deployment.Completed())
			},
		},
		{
			Name:         "missing deployment",
			ID:           "dep-x",
			ExpectedPath: "/deployment/api/deployments/dep-x",
			StatusCode:   http.StatusNotFound,
			Response:     notFoundBody("not found"),
			WantErr:      true,
			ErrMessage:   "deployment ID dep-x does not exist",
		},
	}, func(c *Client) func(context.Context, string) (*vra.Deployment, error) {
		return c.Deployments().Get
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDeploymentsClient_Children(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.handle("/deployment/api/deployments", pagedHandler(t,
			page(2, map[string]interface{}{"id": "dep-1"}),
			page(2, map[string]interface{}{"id": "dep-2"}),
		))

		deployments, err := NewTestClient(t, server).Deployments().List(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, deployments, 2)
		assert.Equal(t, "dep-2", deployments[1].ID)
	})

	t.Run("actions", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.handle("/deployment/api/deployments/dep-1/actions", func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(deploymentActions))
		})

		actions, err := NewTestClient(t, server).Deployments().Actions(context.Background(), "dep-1")
		require.NoError(t, err)
		require.Len(t, actions, 3)
		assert.Equal(t, "Deployment.PowerOff", vra.FindAction(actions, vra.ActionPowerOff).ID)
	})

	t.Run("resources come from a single page", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.respond("/deployment/api/deployments/dep-1/resources", http.StatusOK, map[string]interface{}{
			"content": []map[string]interface{}{
				{"id": "res-1", "name": "vm-1", "type": "Cloud.vSphere.Machine"},
				{"id": "res-2", "name": "net-1", "type": "Cloud.Network"},
			},
			"totalPages": 3,
		})

		resources, err := NewTestClient(t, server).Deployments().Resources(context.Background(), "dep-1")
		require.NoError(t, err)
		require.Len(t, resources, 2)
		assert.Equal(t, "Cloud.vSphere.Machine", resources[0].TypeName())
		assert.Len(t, server.recorded(), 1)
	})

	t.Run("requests", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.respond("/deployment/api/deployments/dep-1/requests", http.StatusOK, map[string]interface{}{
			"content": []map[string]interface{}{{"id": "req-1", "status": "SUCCESSFUL"}},
		})

		requests, err := NewTestClient(t, server).Deployments().Requests(context.Background(), "dep-1")
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.True(t, requests[0].Successful())
	})

	t.Run("missing deployment", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.respond("/deployment/api/deployments/dep-x/resources", http.StatusNotFound, notFoundBody("not found"))

		_, err := NewTestClient(t, server).Deployments().Resources(context.Background(), "dep-x")
		require.ErrorIs(t, err, vra.ErrNotFound)
		assert.Contains(t, err.Error(), "deployment ID dep-x does not exist")
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDeploymentsClient_Actions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		submit   func(vra.DeploymentsClient) (*vra.Request, error)
		actionID string
		reason   string
	}{
		{
			name: "power on",
			submit: func(d vra.DeploymentsClient) (*vra.Request, error) {
				return d.PowerOn(context.Background(), "dep-1", "")
			},
			actionID: "Deployment.PowerOn",
		},
		{
			name: "power off",
			submit: func(d vra.DeploymentsClient) (*vra.Request, error) {
				return d.PowerOff(context.Background(), "dep-1", "maintenance")
			},
			actionID: "Deployment.PowerOff",
			reason:   "maintenance",
		},
		{
			name: "destroy",
			submit: func(d vra.DeploymentsClient) (*vra.Request, error) {
				return d.Destroy(context.Background(), "dep-1", "no longer needed")
			},
			actionID: "Deployment.Delete",
			reason:   "no longer needed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t)
			server.handle("/deployment/api/deployments/dep-1/actions", func(writer http.ResponseWriter, _ *http.Request) {
				_, _ = writer.Write([]byte(deploymentActions))
			})
			server.handle("/deployment/api/deployments/dep-1/requests", func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, http.MethodPost, request.Method)
				_, _ = writer.Write([]byte(`{"id":"req-7","status":"PENDING","deploymentId":"dep-1"}`))
			})

			request, err := tt.submit(NewTestClient(t, server).Deployments())
			require.NoError(t, err)
			assert.Equal(t, "req-7", request.ID)
			assert.True(t, request.InProgress())

			assert.Equal(t, map[string]interface{}{
				"actionId": tt.actionID,
				"inputs":   map[string]interface{}{},
				"reason":   tt.reason,
			}, server.lastBody(t))
		})
	}

	t.Run("unavailable action", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.handle("/deployment/api/deployments/dep-1/actions", func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`[{"id":"Deployment.Delete","name":"Delete"}]`))
		})

		_, err := NewTestClient(t, server).Deployments().PowerOn(context.Background(), "dep-1", "")
		require.ErrorIs(t, err, vra.ErrNotFound)
		assert.Contains(t, err.Error(), "no power-on action found for deployment dep-1")
		assert.Len(t, server.recorded(), 1)
	})

	t.Run("rejected action", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.handle("/deployment/api/deployments/dep-1/actions", func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(deploymentActions))
		})
		server.respond("/deployment/api/deployments/dep-1/requests", http.StatusBadRequest,
			map[string]interface{}{"message": "deployment is busy"})

		_, err := NewTestClient(t, server).Deployments().Destroy(context.Background(), "dep-1", "")

		var requestErr *vra.RequestError
		require.ErrorAs(t, err, &requestErr)
		assert.Equal(t, "destroy action", requestErr.Op)
		assert.Contains(t, err.Error(), "trace: deployment is busy")
	})
}
