package http_test

import (
	"net/http"
	"testing"

	vrahttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   int
		expected vrahttp.Outcome
	}{
		{200, vrahttp.OutcomeSuccess},
		{201, vrahttp.OutcomeSuccess},
		{204, vrahttp.OutcomeSuccess},
		{207, vrahttp.OutcomeSuccess},
		{208, vrahttp.OutcomeError},
		{301, vrahttp.OutcomeRedirect},
		{302, vrahttp.OutcomeRedirect},
		{307, vrahttp.OutcomeRedirect},
		{303, vrahttp.OutcomeSeeOther},
		{304, vrahttp.OutcomeError},
		{308, vrahttp.OutcomeError},
		{400, vrahttp.OutcomeError},
		{503, vrahttp.OutcomeError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, vrahttp.Classify(tt.status), "status %d", tt.status)
	}
}

func TestRequest_Immutable(t *testing.T) {
	t.Parallel()

	body := []byte(`{"a":1}`)
	original := vrahttp.NewRequest("post", "https://vra.example.com/a/b", body, false).
		WithHeader("Accept", "application/json")

	body[0] = 'x'

	withHeader := original.WithHeader("X-Trace", "1")
	withBody := original.WithBody([]byte("other"))

	assert.Equal(t, http.MethodPost, original.Method())
	assert.Equal(t, `{"a":1}`, string(original.Body()))
	assert.Empty(t, original.Header("X-Trace"))
	assert.Equal(t, "1", withHeader.Header("X-Trace"))
	assert.Equal(t, "other", string(withBody.Body()))
	assert.Equal(t, `{"a":1}`, string(original.Body()))

	headers := original.Headers()
	headers.Set("Accept", "text/plain")
	assert.Equal(t, "application/json", original.Header("Accept"))
}

func TestRequest_RedirectTo(t *testing.T) {
	t.Parallel()

	original := vrahttp.NewRequest(http.MethodGet, "https://vra.example.com/a/b?x=1", nil, false).
		WithHeader("Authorization", "Bearer t")

	t.Run("relative location", func(t *testing.T) {
		t.Parallel()

		next, err := original.RedirectTo("/c/d")
		require.NoError(t, err)

		assert.Equal(t, "https://vra.example.com/c/d", next.URL())
		assert.Equal(t, http.MethodGet, next.Method())
		assert.False(t, next.VerifyTLS())
		assert.Equal(t, "Bearer t", next.Header("Authorization"))
		assert.Equal(t, "https://vra.example.com/a/b?x=1", original.URL())
	})

	t.Run("absolute location", func(t *testing.T) {
		t.Parallel()

		next, err := original.RedirectTo("https://other.example.com/z")
		require.NoError(t, err)
		assert.Equal(t, "https://other.example.com/z", next.URL())
	})

	t.Run("missing location", func(t *testing.T) {
		t.Parallel()

		_, err := original.RedirectTo("")
		require.ErrorIs(t, err, vra.ErrMissingLocation)
	})
}

func TestRequest_SeeOther(t *testing.T) {
	t.Parallel()

	original := vrahttp.NewRequest(http.MethodPost, "https://vra.example.com/submit", []byte(`{"a":1}`), true).
		WithHeader("Content-Type", "application/json").
		WithHeader("Accept", "application/json")

	next, err := original.SeeOther("/result/1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, next.Method())
	assert.Empty(t, next.Body())
	assert.Empty(t, next.Header("Content-Type"))
	assert.Equal(t, "application/json", next.Header("Accept"))
	assert.Equal(t, "application/json", original.Header("Content-Type"))
	assert.Equal(t, "https://vra.example.com/result/1", next.URL())
	assert.True(t, next.VerifyTLS())
	assert.Equal(t, http.MethodPost, original.Method())
	assert.NotEmpty(t, original.Body())
}

func TestRequest_Redirectable(t *testing.T) {
	t.Parallel()

	for method, expected := range map[string]bool{
		http.MethodGet:    true,
		http.MethodHead:   true,
		http.MethodPost:   false,
		http.MethodPut:    false,
		http.MethodDelete: false,
	} {
		assert.Equal(t, expected, vrahttp.NewRequest(method, "https://x", nil, true).Redirectable(), method)
	}
}

func TestRedactPasswords(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"username":"admin","password":"s3cr\"et","tenant":"vsphere.local"}`)

	redacted := vrahttp.RedactPasswords(payload)

	assert.Equal(t, `{"username":"admin","password":"********","tenant":"vsphere.local"}`, redacted)
	assert.NotContains(t, redacted, "s3cr")
}
