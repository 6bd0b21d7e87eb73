// Package generation turns source text into structured content through an
// LLM provider. It builds the prompt, makes one provider call and parses the
// JSON object out of the reply. Nothing is persisted here.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/config"
	"salon-admin/internal/logger"
)

type Template string

const (
	TemplateBlogPost     Template = "blog_post"
	TemplateOwnerMessage Template = "owner_message"
)

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
)

const DefaultTargetLength = 1500

type Options struct {
	Template     Template
	TargetLength int
	Tone         Tone
	// MonthLabel names the month in owner-message prompts, e.g. "5月".
	MonthLabel string
}

func (o Options) withDefaults() Options {
	if o.Template == "" {
		o.Template = TemplateBlogPost
	}
	if o.TargetLength <= 0 {
		o.TargetLength = DefaultTargetLength
	}
	switch o.Tone {
	case ToneProfessional, ToneFriendly, ToneCasual:
	default:
		o.Tone = ToneProfessional
	}
	return o
}

// Result is the parsed provider reply. Content holds the body for both
// templates (blog HTML or owner-message markdown).
type Result struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	SuggestedTags []string `json:"suggestedTags"`
	Highlights    []string `json:"highlights"`
}

// Provider sends one prompt as a single user message and returns the
// assistant text. Implementations classify failures with apperr kinds.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	provider Provider
	timeout  time.Duration
}

func NewClient(p Provider, timeout time.Duration) *Client {
	return &Client{provider: p, timeout: timeout}
}

// New builds the client for cfg.Provider. An unknown provider is a
// configuration error; a missing key is not, it surfaces as NotConfigured on
// the first call.
func New(cfg config.GenerationConfig) (*Client, error) {
	var p Provider
	switch cfg.Provider {
	case "anthropic", "":
		p = NewAnthropic(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.MaxTokens)
	case "gemini":
		p = NewGemini(cfg.APIKey, cfg.Model, cfg.MaxTokens)
	case "moi":
		p = NewMOI(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
	return NewClient(p, cfg.Timeout), nil
}

// Generate renders the prompt for opts.Template, calls the provider once and
// parses the reply. A context without deadline gets the client timeout.
func (c *Client) Generate(ctx context.Context, log *slog.Logger, source string, opts Options) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts = opts.withDefaults()
	prompt := BuildPrompt(source, opts)
	log = log.With(logger.KeyCategory, "generation", "provider", c.provider.Name(), "template", string(opts.Template))
	log.Info("generation started", "prompt_len", len(prompt))

	start := time.Now()
	text, err := c.provider.Complete(ctx, prompt)
	if err != nil {
		log.Error("generation failed", "kind", string(apperr.KindOf(err)), "err", err)
		return nil, err
	}

	res, err := ParseResponse(text, opts)
	if err != nil {
		log.Error("generation response unparsable", "response_len", len(text), "err", err)
		return nil, err
	}
	log.Info("generation completed", "elapsed", time.Since(start).String(), "title", res.Title)
	return res, nil
}
