package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"salon-admin/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMOIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/llm-proxy/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "moi-key", r.Header.Get("moi-key"))

		var body struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "qwen-plus", body.Model)
		assert.False(t, body.Stream)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)

		w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"M\"}"}}]}`))
	}))
	defer srv.Close()

	text, err := NewMOI(srv.URL+"/", "moi-key", "qwen-plus").Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"M"}`, text)
}

func TestMOIErrors(t *testing.T) {
	_, err := NewMOI("", "k", "m").Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()
	_, err = NewMOI(srv.URL, "k", "m").Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
}
