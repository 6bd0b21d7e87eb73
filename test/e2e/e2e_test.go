package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// These tests drive a running server:
//
//	E2E_BASE_URL=http://localhost:9871 E2E_ADMIN_EMAIL=... E2E_ADMIN_PASSWORD=... go test ./...
//
// E2E_GENERATE=1 also runs the cases that call the generation provider.

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
}

// api wraps an http.Client with a base URL, a bearer token and test helpers.
type api struct {
	t     *testing.T
	base  string
	token string
	http  *http.Client
}

func newAPI(t *testing.T) *api {
	t.Helper()
	base := os.Getenv("E2E_BASE_URL")
	if base == "" {
		t.Skip("E2E_BASE_URL not set")
	}
	return &api{t: t, base: strings.TrimRight(base, "/"), http: &http.Client{Timeout: 120 * time.Second}}
}

func (a *api) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.base+path, rd)
	if err != nil {
		a.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Session", "e2e-"+a.t.Name())
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &env); err != nil {
		a.t.Fatalf("%s %s: bad body %q", method, path, raw)
	}
	return resp.StatusCode, env
}

func (a *api) mustOK(method, path string, body, out any) envelope {
	a.t.Helper()
	code, env := a.do(method, path, body)
	if code != http.StatusOK || !env.Success {
		a.t.Fatalf("%s %s: %d %s (%s)", method, path, code, env.Error, env.Kind)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

func (a *api) login() {
	a.t.Helper()
	email, password := os.Getenv("E2E_ADMIN_EMAIL"), os.Getenv("E2E_ADMIN_PASSWORD")
	if email == "" || password == "" {
		a.t.Skip("E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD not set")
	}
	var out struct {
		Token string `json:"token"`
	}
	a.mustOK("POST", "/api/login", map[string]string{"email": email, "password": password}, &out)
	if out.Token == "" {
		a.t.Fatal("login returned no token")
	}
	a.token = out.Token
}

// --- Tests ---

func TestHealth(t *testing.T) {
	a := newAPI(t)
	a.mustOK("GET", "/api/health", nil, nil)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	a := newAPI(t)
	code, env := a.do("POST", "/api/login", map[string]string{"email": "nobody@example.com", "password": "wrong"})
	if code != http.StatusUnauthorized || env.Success {
		t.Fatalf("want 401, got %d %+v", code, env)
	}
}

func TestAdminRoutesNeedToken(t *testing.T) {
	a := newAPI(t)
	code, _ := a.do("GET", "/api/blog/posts", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", code)
	}
}

func TestDailyReportAndBlogSave(t *testing.T) {
	a := newAPI(t)
	a.login()

	today := time.Now().Format("2006-01-02")
	content := fmt.Sprintf("e2e %d: 新しいトリートメントを試しました", time.Now().UnixNano())
	var report struct {
		ID string `json:"id"`
	}
	a.mustOK("POST", "/api/daily-reports", map[string]string{"date": today, "content": content}, &report)
	if report.ID == "" {
		t.Fatal("daily report has no id")
	}

	var post struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	env := a.mustOK("POST", "/api/blog/save", map[string]any{
		"title":         "e2e 下書き",
		"content":       "# e2e\n本文",
		"suggestedTags": []string{"e2e"},
	}, &post)
	if post.Status != "draft" || env.Message == "" {
		t.Fatalf("unexpected save result: %+v %q", post, env.Message)
	}

	a.mustOK("PATCH", "/api/blog/posts/"+post.ID, map[string]string{"status": "published"}, &post)
	if post.Status != "published" {
		t.Fatalf("post not published: %+v", post)
	}
	code, _ := a.do("PATCH", "/api/blog/posts/"+post.ID, map[string]string{"status": "draft"})
	if code != http.StatusBadRequest {
		t.Fatalf("revert to draft: want 400, got %d", code)
	}
	a.mustOK("DELETE", "/api/blog/posts/"+post.ID, nil, nil)
}

func TestOwnerMessageRejectsBadMonth(t *testing.T) {
	a := newAPI(t)
	a.login()
	code, env := a.do("POST", "/api/owner-message/generate", map[string]string{"yearMonth": "2024-13"})
	if code != http.StatusBadRequest || env.Kind != "invalid_input" {
		t.Fatalf("want 400 invalid_input, got %d %+v", code, env)
	}
}

func TestOwnerMessageGenerateAndPublish(t *testing.T) {
	if os.Getenv("E2E_GENERATE") == "" {
		t.Skip("E2E_GENERATE not set")
	}
	a := newAPI(t)
	a.login()

	month := time.Now().Format("2006-01")
	a.mustOK("POST", "/api/daily-reports", map[string]string{"content": "e2e: 常連のお客様が新メニューを気に入ってくれました"}, nil)

	var msg struct {
		ID        string `json:"id"`
		YearMonth string `json:"year_month"`
		Status    string `json:"status"`
	}
	a.mustOK("POST", "/api/owner-message/generate", map[string]string{"yearMonth": month}, &msg)
	if msg.YearMonth != month || msg.Status != "draft" {
		t.Fatalf("unexpected draft: %+v", msg)
	}

	code, env := a.do("POST", "/api/owner-message/publish", map[string]string{"id": msg.ID})
	switch {
	case code == http.StatusOK:
		a.mustOK("DELETE", "/api/owner-message/publish?id="+msg.ID, nil, nil)
	case code == http.StatusConflict:
		t.Logf("month %s already has a published message: %s", month, env.Error)
	default:
		t.Fatalf("publish: %d %+v", code, env)
	}
	a.mustOK("DELETE", "/api/owner-message/list?id="+msg.ID, nil, nil)
}

func TestBlogGenerate(t *testing.T) {
	if os.Getenv("E2E_GENERATE") == "" {
		t.Skip("E2E_GENERATE not set")
	}
	a := newAPI(t)
	a.login()

	var draft struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"suggestedTags"`
	}
	a.mustOK("POST", "/api/blog/generate", map[string]any{
		"dailyReport":  "今日はヘッドスパのご予約が多く、リピーターのお客様から好評でした。",
		"targetLength": 800,
		"tone":         "friendly",
	}, &draft)
	if draft.Title == "" || draft.Content == "" {
		t.Fatalf("empty draft: %+v", draft)
	}
}
