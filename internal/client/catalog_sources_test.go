package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogSourceFixture() map[string]interface{} {
	return map[string]interface{}{
		"id":     "source-1",
		"name":   "Cloud Assembly",
		"typeId": "com.vmw.blueprint",
		"config": map[string]interface{}{"sourceProjectId": "pro-123"},
	}
}

func TestCatalogSourcesClient_Get(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation[vra.CatalogSource]{
		{
			Name:         "found",
			ID:           "source-1",
			ExpectedPath: "/catalog/api/admin/sources/source-1",
			StatusCode:   http.StatusOK,
			Response:     catalogSourceFixture(),
			Check: func(t *testing.T, source *vra.CatalogSource) {
				t.Helper()
				assert.Equal(t, "Cloud Assembly", source.Name)
				assert.Equal(t, "pro-123", source.ProjectID())
			},
		},
		{
			Name:         "not found",
			ID:           "gone",
			ExpectedPath: "/catalog/api/admin/sources/gone",
			StatusCode:   http.StatusNotFound,
			Response:     notFoundBody("not found"),
			WantErr:      true,
			ErrMessage:   "catalog source ID gone does not exist",
		},
	}, func(c *Client) func(context.Context, string) (*vra.CatalogSource, error) {
		return c.CatalogSources().Get
	})
}

func TestCatalogSourcesClient_List(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.handle("/catalog/api/admin/sources", pagedHandler(t, page(1, catalogSourceFixture())))

	sources, err := NewTestClient(t, server).CatalogSources().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "com.vmw.blueprint", sources[0].TypeID)
}

func TestCatalogSourcesClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("posts the source", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)
		server.respond("/catalog/api/admin/sources", http.StatusCreated, catalogSourceFixture())

		source, err := NewTestClient(t, server).CatalogSources().Create(context.Background(), &vra.CatalogSourceCreateRequest{
			Name:      "Cloud Assembly",
			TypeID:    "com.vmw.blueprint",
			ProjectID: "pro-123",
		})
		require.NoError(t, err)
		assert.Equal(t, "source-1", source.ID)

		assert.Equal(t, map[string]interface{}{
			"name":   "Cloud Assembly",
			"typeId": "com.vmw.blueprint",
			"config": map[string]interface{}{"sourceProjectId": "pro-123"},
		}, server.lastBody(t))
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t)

		_, err := NewTestClient(t, server).CatalogSources().Create(context.Background(), &vra.CatalogSourceCreateRequest{
			Name: "Cloud Assembly",
		})

		var validationErr *vra.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"type_id", "project_id"}, validationErr.Missing)
		assert.Empty(t, server.recorded())
	})
}

func TestCatalogSourcesClient_Entitle(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.respond("/catalog/api/admin/sources/source-1", http.StatusOK, catalogSourceFixture())
	server.handle("/catalog/api/admin/entitlements", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "pro-123", request.URL.Query().Get("project_id"))

		_, _ = writer.Write([]byte(`{"id":"ent-1","projectId":"pro-123","definition":{"type":"CatalogSourceIdentifier","id":"source-1","name":"Cloud Assembly"}}`))
	})

	entitlement, err := NewTestClient(t, server).CatalogSources().Entitle(context.Background(), "source-1")
	require.NoError(t, err)
	assert.Equal(t, "ent-1", entitlement.ID)
	assert.Equal(t, "Cloud Assembly", entitlement.Definition.Name)

	assert.Equal(t, map[string]interface{}{
		"projectId": "pro-123",
		"definition": map[string]interface{}{
			"type": "CatalogSourceIdentifier",
			"id":   "source-1",
		},
	}, server.lastBody(t))
}
