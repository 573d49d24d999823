package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// recordedRequest is one non-auth request seen by a testServer.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// testServer fakes the platform. Bearer logins and token probes are
// answered automatically, every other path goes to the registered handlers.
type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	mux      *http.ServeMux
	requests []recordedRequest
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	server := &testServer{mux: http.NewServeMux()}
	server.Server = httptest.NewServer(http.HandlerFunc(server.serve(t)))
	t.Cleanup(server.Close)

	return server
}

func (s *testServer) serve(t *testing.T) func(http.ResponseWriter, *http.Request) {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodPost && request.URL.Path == "/identity/api/tokens":
			_ = json.NewEncoder(writer).Encode(map[string]string{"id": testToken})

			return
		case request.Method == http.MethodHead && strings.HasPrefix(request.URL.Path, "/identity/api/tokens/"):
			writer.WriteHeader(http.StatusNoContent)

			return
		}

		assert.Equal(t, "Bearer "+testToken, request.Header.Get("Authorization"))

		body, _ := io.ReadAll(request.Body)

		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  request.URL.RawQuery,
			Body:   body,
		})
		s.mu.Unlock()

		s.mux.ServeHTTP(writer, request)
	}
}

// handle registers a handler for pattern.
func (s *testServer) handle(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, handler)
}

// respond registers a handler answering pattern with status and the JSON
// encoding of body.
func (s *testServer) respond(pattern string, status int, body interface{}) {
	s.handle(pattern, func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)

		if body != nil {
			_ = json.NewEncoder(writer).Encode(body)
		}
	})
}

// recorded returns the non-auth requests seen so far.
func (s *testServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]recordedRequest(nil), s.requests...)
}

// lastBody decodes the body of the last recorded request.
func (s *testServer) lastBody(t *testing.T) map[string]interface{} {
	t.Helper()

	requests := s.recorded()
	require.NotEmpty(t, requests)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(requests[len(requests)-1].Body, &body))

	return body
}

func testConfig(baseURL string) *vra.Config {
	return &vra.Config{
		BaseURL:    baseURL,
		Username:   "admin",
		Password:   "secret",
		Tenant:     "vsphere.local",
		AuthMode:   vra.AuthModeBearer,
		Pagination: vra.PaginationPageLimit,
		PageSize:   2,
	}
}

// NewTestClient creates a client authenticated against server.
func NewTestClient(t *testing.T, server *testServer) *Client {
	t.Helper()

	client, err := New(context.Background(), testConfig(server.URL))
	require.NoError(t, err)

	return client
}

// notFoundBody is the platform's 404 envelope.
func notFoundBody(msg string) map[string]interface{} {
	return map[string]interface{}{
		"errors": []map[string]interface{}{{"code": 10101, "message": msg}},
	}
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
	Check        func(t *testing.T, result *TResponse)
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t)
			server.handle(testCase.ExpectedPath, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, http.MethodGet, request.Method)
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			})

			client := NewTestClient(t, server)

			result, err := getFunc(client)(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				if testCase.StatusCode == http.StatusNotFound {
					assert.True(t, vra.IsNotFound(err))
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// page builds one page of a page/limit style listing.
func page(totalPages int, items ...interface{}) map[string]interface{} {
	if items == nil {
		items = []interface{}{}
	}

	return map[string]interface{}{
		"content":  items,
		"metadata": map[string]interface{}{"totalPages": totalPages},
	}
}

// pagedHandler serves pages by their 1-based page query parameter.
func pagedHandler(t *testing.T, pages ...map[string]interface{}) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		number, _ := strconv.Atoi(request.URL.Query().Get("page"))
		index := number - 1

		if index < 0 || index >= len(pages) {
			t.Errorf("unexpected page %q", request.URL.Query().Get("page"))
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(pages[index])
	}
}
