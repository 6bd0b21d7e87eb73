package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"salon-admin/internal/apperr"
)

// MOI calls the OpenAI-compatible LLM proxy of the MOI catalog service.
type MOI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewMOI(baseURL, apiKey, model string) *MOI {
	return &MOI{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, client: &http.Client{}}
}

func (m *MOI) Name() string { return "moi" }

func (m *MOI) Complete(ctx context.Context, prompt string) (string, error) {
	if m.apiKey == "" || m.baseURL == "" {
		return "", apperr.New(apperr.NotConfigured, "moi endpoint or key is not configured")
	}

	body := map[string]interface{}{
		"model":  m.model,
		"stream": false,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", apperr.Wrap(apperr.ProviderError, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/llm-proxy/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", apperr.Wrap(apperr.ProviderError, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("moi-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", transportError("llm call", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError("read response", err)
	}
	if err := statusError(resp.StatusCode, data); err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", apperr.Wrap(apperr.MalformedResponse, "decode response", err)
	}
	if len(result.Choices) == 0 {
		return "", apperr.New(apperr.MalformedResponse, "empty choices")
	}
	return result.Choices[0].Message.Content, nil
}
