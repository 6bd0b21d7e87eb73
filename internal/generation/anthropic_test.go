package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salon-admin/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAnthropic(srv.URL, "sk-test", "claude-3-5-sonnet-20241022", 4000)
}

func TestAnthropicComplete(t *testing.T) {
	a := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-5-sonnet-20241022", req.Model)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"title\":\"T\"}"}]}`))
	})

	text, err := a.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, text)
}

func TestAnthropicStatusKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   apperr.Kind
	}{
		{http.StatusUnauthorized, apperr.Unauthorized},
		{http.StatusTooManyRequests, apperr.RateLimited},
		{http.StatusInternalServerError, apperr.ProviderError},
		{http.StatusBadRequest, apperr.ProviderError},
	}
	for _, tt := range tests {
		a := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"type":"error","error":{"type":"x","message":"nope"}}`))
		})
		_, err := a.Complete(context.Background(), "p")
		assert.Equal(t, tt.kind, apperr.KindOf(err), "status %d", tt.status)
	}
}

func TestAnthropicMalformedBody(t *testing.T) {
	a := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err := a.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)

	a = anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"tool_use"}]}`))
	})
	_, err = a.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
}

func TestAnthropicNotConfigured(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	a := NewAnthropic(srv.URL, "", "m", 10)
	_, err := a.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)
	assert.False(t, called)
}

func TestAnthropicTimeout(t *testing.T) {
	release := make(chan struct{})
	a := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := a.Complete(ctx, "p")
	assert.ErrorIs(t, err, apperr.ErrTimeout)
}
