package generation

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"salon-admin/internal/apperr"

	"google.golang.org/genai"
)

// Gemini generates through the Gemini API. The SDK client is created on first
// use so a missing key only fails the calls that need it.
type Gemini struct {
	apiKey    string
	model     string
	maxTokens int

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGemini(apiKey, model string, maxTokens int) *Gemini {
	return &Gemini{apiKey: apiKey, model: model, maxTokens: maxTokens}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", apperr.New(apperr.NotConfigured, "gemini api key is not configured")
	}
	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.initErr != nil {
		return "", apperr.Wrap(apperr.NotConfigured, "create gemini client", g.initErr)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxTokens),
	})
	if err != nil {
		return "", classifyGemini(err)
	}
	text := resp.Text()
	if text == "" {
		return "", apperr.New(apperr.MalformedResponse, "gemini returned no text")
	}
	return text, nil
}

func classifyGemini(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, "gemini call", err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperr.Wrap(apperr.Unauthorized, apiErr.Status, err)
		case http.StatusTooManyRequests:
			return apperr.Wrap(apperr.RateLimited, apiErr.Status, err)
		}
	}
	return apperr.Wrap(apperr.ProviderError, "gemini call", err)
}
