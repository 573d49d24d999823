package vraclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/fivetwenty-io/vra-client/pkg/vraclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := vraclient.New(context.Background(), nil)
		require.ErrorIs(t, err, vra.ErrConfigRequired)
	})

	t.Run("empty base URL", func(t *testing.T) {
		t.Parallel()

		_, err := vraclient.New(context.Background(), &vra.Config{BaseURL: " / "})
		require.ErrorIs(t, err, vra.ErrBaseURLRequired)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		_, err := vraclient.New(context.Background(), &vra.Config{BaseURL: "https://vra.example.com"})
		require.ErrorIs(t, err, vra.ErrValidation)
		assert.Contains(t, err.Error(), "failed to create new client")
	})

	t.Run("caller config is left untouched", func(t *testing.T) {
		t.Parallel()

		config := &vra.Config{
			BaseURL:  "vra.example.com/",
			Username: "admin",
			Password: "secret",
			Domain:   "example.com",
		}

		client, err := vraclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "vra.example.com/", config.BaseURL)
		assert.Empty(t, config.AuthMode)
	})
}

func TestNewWithDomain(t *testing.T) {
	t.Parallel()

	client, err := vraclient.NewWithDomain(context.Background(), "https://vra.example.com", "admin", "secret", "example.com")
	require.NoError(t, err)
	assert.Empty(t, client.Token())
}

func TestNewWithTenant(t *testing.T) {
	t.Parallel()

	_, err := vraclient.NewWithTenant(context.Background(), "https://vra.example.com", "admin", "secret", "")

	var validationErr *vra.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"tenant"}, validationErr.Missing)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodPost && request.URL.Path == "/identity/api/tokens":
			_ = json.NewEncoder(writer).Encode(map[string]string{"id": "bearer-1"})
		case request.Method == http.MethodHead && request.URL.Path == "/identity/api/tokens/bearer-1":
			writer.WriteHeader(http.StatusNoContent)
		case request.URL.Path == "/catalog-service/api/consumer/entitledCatalogItems":
			assert.Equal(t, "Bearer bearer-1", request.Header.Get("Authorization"))
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"content": []map[string]interface{}{
					{"catalogItem": map[string]interface{}{"id": "cat-1", "name": "CentOS"}},
				},
				"totalPages": 1,
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := vraclient.NewWithTenant(context.Background(), server.URL, "admin", "secret", "vsphere.local")
	require.NoError(t, err)

	items, err := client.Catalog().ListEntitledItems(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CentOS", items[0].Name)
	assert.Equal(t, "bearer-1", client.Token())
}
