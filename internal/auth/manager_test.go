package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	vrahttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// identityServer fakes the bearer-token endpoints. Probes answer 204 for the
// issued token and 401 for anything else.
type identityServer struct {
	*httptest.Server

	logins atomic.Int32
	probes atomic.Int32
	status int
	token  string
}

func newIdentityServer(t *testing.T, status int, token string) *identityServer {
	t.Helper()

	server := &identityServer{status: status, token: token}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodPost && request.URL.Path == "/identity/api/tokens":
			server.logins.Add(1)
			assert.Empty(t, request.Header.Get("Authorization"))

			var body map[string]string
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "admin", body["username"])
			assert.Equal(t, "secret", body["password"])
			assert.Equal(t, "vsphere.local", body["tenant"])

			writer.WriteHeader(server.status)

			if server.status == http.StatusOK {
				_ = json.NewEncoder(writer).Encode(map[string]string{"id": server.token})

				return
			}

			_, _ = writer.Write([]byte(`{"errors":[{"message":"bad credentials"}]}`))
		case request.Method == http.MethodHead && request.URL.Path == "/identity/api/tokens/"+server.token:
			server.probes.Add(1)
			assert.Equal(t, "Bearer "+server.token, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusNoContent)
		default:
			server.probes.Add(1)
			writer.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func bearerCredentials() auth.Credentials {
	return auth.Credentials{
		Username: "admin",
		Password: "secret",
		Tenant:   "vsphere.local",
		Mode:     vra.AuthModeBearer,
	}
}

func newManager(serverURL string, creds auth.Credentials) (*auth.Manager, *vrahttp.Client) {
	client := vrahttp.NewClient(serverURL, vrahttp.NewRetryableTransport(vrahttp.TransportOptions{}))

	return auth.NewManager(client, creds, nil), client
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestManager_Bearer(t *testing.T) {
	t.Parallel()

	t.Run("login stores the returned id", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusOK, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())

		require.NoError(t, manager.GenerateToken(context.Background()))
		assert.Equal(t, "12345", manager.Token())
		assert.True(t, manager.IsAuthorized(context.Background()))
		assert.Equal(t, int32(1), server.logins.Load())
	})

	t.Run("authorize is idempotent", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusOK, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())

		require.NoError(t, manager.Authorize(context.Background()))
		assert.Equal(t, int32(1), server.logins.Load())
		assert.Equal(t, int32(1), server.probes.Load())

		require.NoError(t, manager.Authorize(context.Background()))
		assert.Equal(t, int32(1), server.logins.Load(), "a valid token must not trigger another login")
		assert.Equal(t, int32(2), server.probes.Load())
	})

	t.Run("rejected token is regenerated", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusOK, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())
		manager.SetToken(&oauth2.Token{AccessToken: "stale"})

		require.NoError(t, manager.Authorize(context.Background()))
		assert.Equal(t, "12345", manager.Token())
		assert.Equal(t, int32(1), server.logins.Load())
	})

	t.Run("unauthorized login", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusUnauthorized, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())

		err := manager.Authorize(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, vra.ErrUnauthorized)
		assert.Contains(t, err.Error(), "bad credentials")
		assert.Empty(t, manager.Token())
	})

	t.Run("server error on login is unauthorized", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusInternalServerError, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())

		err := manager.GenerateToken(context.Background())
		require.ErrorIs(t, err, vra.ErrUnauthorized)
	})

	t.Run("no token means not authorized without a call", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusOK, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())

		assert.False(t, manager.IsAuthorized(context.Background()))
		assert.Equal(t, int32(0), server.probes.Load())
		assert.Equal(t, int32(0), server.logins.Load())
	})

	t.Run("probe rejection", func(t *testing.T) {
		t.Parallel()

		server := newIdentityServer(t, http.StatusOK, "12345")
		manager, _ := newManager(server.URL, bearerCredentials())
		manager.SetToken(&oauth2.Token{AccessToken: "other"})

		assert.False(t, manager.IsAuthorized(context.Background()))
		assert.Equal(t, int32(1), server.probes.Load())
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		manager, _ := newManager(url, bearerCredentials())

		err := manager.GenerateToken(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, vra.ErrUnauthorized)

		var httpErr *vra.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 0, httpErr.StatusCode)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestManager_AccessToken(t *testing.T) {
	t.Parallel()

	t.Run("login stores access and refresh tokens", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/csp/gateway/am/api/login":
				assert.Equal(t, http.MethodPost, request.Method)

				var body map[string]string
				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.Equal(t, "System Domain", body["domain"])

				_, _ = writer.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1"}`))
			case "/csp/gateway/am/api/loggedin/user":
				assert.Equal(t, http.MethodGet, request.Method)

				if request.Header.Get("Authorization") != "Bearer access-1" {
					writer.WriteHeader(http.StatusUnauthorized)

					return
				}

				_, _ = writer.Write([]byte(`{"username":"admin"}`))
			default:
				t.Errorf("unexpected request to %s", request.URL.Path)
			}
		}))
		defer server.Close()

		manager, _ := newManager(server.URL, auth.Credentials{
			Username: "admin",
			Password: "secret",
			Domain:   "System Domain",
			Mode:     vra.AuthModeAccessToken,
		})

		require.NoError(t, manager.Authorize(context.Background()))
		assert.Equal(t, "access-1", manager.Token())
		assert.Equal(t, "refresh-1", manager.CurrentToken().RefreshToken)
	})

	t.Run("refresh token is exchanged", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/csp/gateway/am/api/login":
				_, _ = writer.Write([]byte(`{"refresh_token":"refresh-1"}`))
			case "/iaas/api/login":
				var body map[string]string
				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.Equal(t, "refresh-1", body["refreshToken"])
				assert.Empty(t, request.Header.Get("Authorization"))

				_, _ = writer.Write([]byte(`{"token":"exchanged"}`))
			default:
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		manager, _ := newManager(server.URL, auth.Credentials{
			Username: "admin",
			Password: "secret",
			Domain:   "System Domain",
		})

		require.NoError(t, manager.GenerateToken(context.Background()))
		assert.Equal(t, "exchanged", manager.Token())
	})

	t.Run("empty login response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{}`))
		}))
		defer server.Close()

		manager, _ := newManager(server.URL, auth.Credentials{
			Username: "admin",
			Password: "secret",
			Domain:   "System Domain",
		})

		err := manager.GenerateToken(context.Background())
		require.ErrorIs(t, err, auth.ErrNoTokenInResponse)
		require.ErrorIs(t, err, vra.ErrUnauthorized)
	})
}

func TestManager_CredentialValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		creds   auth.Credentials
		missing []string
	}{
		{
			name:    "missing username and password",
			creds:   auth.Credentials{Tenant: "t", Mode: vra.AuthModeBearer},
			missing: []string{"username", "password"},
		},
		{
			name:    "bearer without tenant",
			creds:   auth.Credentials{Username: "u", Password: "p", Mode: vra.AuthModeBearer},
			missing: []string{"tenant"},
		},
		{
			name:    "access token without domain",
			creds:   auth.Credentials{Username: "u", Password: "p", Mode: vra.AuthModeAccessToken},
			missing: []string{"domain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))
			defer server.Close()

			manager, _ := newManager(server.URL, tt.creds)

			err := manager.GenerateToken(context.Background())
			require.ErrorIs(t, err, vra.ErrValidation)

			var validationErr *vra.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.missing, validationErr.Missing)
			assert.False(t, called)
		})
	}
}

func TestManager_AuthorizesClientCalls(t *testing.T) {
	t.Parallel()

	server := newIdentityServer(t, http.StatusOK, "12345")
	manager, client := newManager(server.URL, bearerCredentials())

	_, err := client.Head(context.Background(), "/identity/api/tokens/12345", vrahttp.RequiresAuth)
	require.NoError(t, err)

	assert.Equal(t, "12345", manager.Token())
	assert.Equal(t, int32(1), server.logins.Load())
}
