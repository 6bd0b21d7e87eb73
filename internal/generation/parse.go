package generation

import (
	"encoding/json"
	"strings"

	"salon-admin/internal/apperr"
)

type reply struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	BodyMD        string   `json:"body_md"`
	Excerpt       string   `json:"excerpt"`
	SuggestedTags []string `json:"suggestedTags"`
	Highlights    []string `json:"highlights"`
}

// ParseResponse extracts the JSON object spanning the first '{' to the last
// '}' of text. Missing fields default to "" and empty lists, a missing title
// to the template's placeholder.
func ParseResponse(text string, opts Options) (*Result, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, apperr.New(apperr.MalformedResponse, "no JSON object in response")
	}

	var r reply
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return nil, apperr.Wrap(apperr.MalformedResponse, "decode response", err)
	}

	res := &Result{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		SuggestedTags: r.SuggestedTags,
		Highlights:    r.Highlights,
	}
	if res.Content == "" {
		res.Content = r.BodyMD
	}
	if res.Title == "" {
		res.Title = defaultTitle(opts)
	}
	if res.SuggestedTags == nil {
		res.SuggestedTags = []string{}
	}
	if res.Highlights == nil {
		res.Highlights = []string{}
	}
	return res, nil
}

func defaultTitle(opts Options) string {
	if opts.Template == TemplateOwnerMessage {
		return opts.MonthLabel + "のオーナーメッセージ"
	}
	return "タイトルなし"
}
