package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"salon-admin/internal/apperr"
)

const anthropicVersion = "2023-06-01"

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Anthropic calls the Messages API directly. It never retries.
type Anthropic struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewAnthropic(baseURL, apiKey, model string, maxTokens int) *Anthropic {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &Anthropic{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{},
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", apperr.New(apperr.NotConfigured, "anthropic api key is not configured")
	}

	payload, err := json.Marshal(anthropicRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.ProviderError, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", apperr.Wrap(apperr.ProviderError, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", transportError("anthropic call", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError("read response", err)
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return "", err
	}

	var out anthropicResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", apperr.Wrap(apperr.MalformedResponse, "decode anthropic response", err)
	}
	if out.Error != nil {
		return "", apperr.New(apperr.ProviderError, out.Error.Message)
	}
	if len(out.Content) == 0 || out.Content[0].Type != "text" {
		return "", apperr.New(apperr.MalformedResponse, "unexpected anthropic content block")
	}
	return out.Content[0].Text, nil
}

// statusError maps a non-2xx provider status to its kind.
func statusError(code int, body []byte) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return apperr.New(apperr.Unauthorized, "provider rejected credentials")
	case code == http.StatusTooManyRequests:
		return apperr.New(apperr.RateLimited, "provider rate limit reached")
	}
	return apperr.New(apperr.ProviderError, fmt.Sprintf("provider status %d: %s", code, truncate(string(body), 300)))
}

func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, op, err)
	}
	return apperr.Wrap(apperr.ProviderError, op, err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
