package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/config"
	"salon-admin/internal/generation"
	"salon-admin/internal/logger"
	"salon-admin/internal/middleware"
	"salon-admin/internal/model"
	"salon-admin/internal/service"
	"salon-admin/internal/store"
	"salon-admin/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var secret = []byte("handler-test")

type stubGen struct {
	res generation.Result
	err error
}

func (g *stubGen) Generate(context.Context, *slog.Logger, string, generation.Options) (*generation.Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	res := g.res
	return &res, nil
}

type env struct {
	router *gin.Engine
	db     *gorm.DB
	gen    *stubGen
	ring   *logger.Ring
	admin  string
	staff  string
	staffM *model.Staff
}

func newEnv(t *testing.T, dev bool) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := storetest.OpenDB(t)
	st := store.New(db, db, 5*time.Second)
	gen := &stubGen{res: generation.Result{Title: "T", Content: "C", Excerpt: "E", SuggestedTags: []string{"tag"}, Highlights: []string{"h"}}}
	adminCfg := config.AdminConfig{Name: "管理者", Email: "admin@example.com"}

	ring := logger.NewRing(100)
	base := slog.New(logger.NewRingHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil), ring))

	rt := Routes{
		Auth:         NewAuthHandler(service.NewAuthService(st), secret, time.Hour),
		Blog:         NewBlogHandler(service.NewBlogService(st, gen, service.NewAdminIdentity(st, adminCfg), nil)),
		Reports:      NewReportHandler(service.NewDailyReportService(st, nil)),
		OwnerMessage: NewOwnerMessageHandler(service.NewOwnerMessageService(st, gen)),
		Store:        st,
		Secret:       secret,
		TokenTTL:     time.Hour,
	}
	if dev {
		rt.Logs = NewLogHandler(ring)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(base))
	Register(r, rt)

	hash, err := service.HashPassword("pw")
	require.NoError(t, err)
	staff := &model.Staff{Name: "佐藤", Email: "sato@example.com", PasswordHash: hash}
	require.NoError(t, db.Create(staff).Error)

	adminTok, err := middleware.IssueToken(secret, time.Hour, "admin-id", "管理者", model.RoleAdmin)
	require.NoError(t, err)
	staffTok, err := middleware.IssueToken(secret, time.Hour, staff.ID, staff.Name, model.RoleStaff)
	require.NoError(t, err)

	return &env{router: r, db: db, gen: gen, ring: ring, admin: adminTok, staff: staffTok, staffM: staff}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
}

func (e *env) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestLoginAndHealth(t *testing.T) {
	e := newEnv(t, false)

	code, out := e.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "sato@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, code)
	resp := decode[model.LoginResponse](t, out.Data)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, e.staffM.ID, resp.User.ID)

	code, out = e.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "sato@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, out.Success)

	code, _ = e.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "sato@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = e.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.Success)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e := newEnv(t, false)

	code, _ := e.do(t, http.MethodGet, "/api/blog/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = e.do(t, http.MethodGet, "/api/blog/posts", e.staff, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do(t, http.MethodGet, "/api/blog/posts", e.admin, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestBlogFlow(t *testing.T) {
	e := newEnv(t, false)

	code, out := e.do(t, http.MethodPost, "/api/blog/generate", e.admin, gin.H{"dailyReport": "今日の日報", "tone": "casual"})
	require.Equal(t, http.StatusOK, code)
	draft := decode[model.BlogDraft](t, out.Data)
	assert.Equal(t, model.BlogDraft{Title: "T", Content: "C", Excerpt: "E", SuggestedTags: []string{"tag"}}, draft)

	code, out = e.do(t, http.MethodPost, "/api/blog/generate", e.admin, gin.H{"dailyReport": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(apperr.InvalidInput), out.Kind)

	code, out = e.do(t, http.MethodPost, "/api/blog/save", e.admin, gin.H{
		"title": draft.Title, "content": draft.Content, "excerpt": draft.Excerpt,
		"suggestedTags": draft.SuggestedTags, "status": "draft", "originalReport": "今日の日報",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "下書きとして保存しました", out.Message)
	post := decode[model.BlogPost](t, out.Data)
	require.NotNil(t, post.OriginalReportID)

	code, out = e.do(t, http.MethodGet, "/api/blog/save", e.admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.BlogPost](t, out.Data), 1)

	code, out = e.do(t, http.MethodPatch, "/api/blog/posts/"+post.ID, e.admin, gin.H{"status": "published"})
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, decode[model.BlogPost](t, out.Data).PublishedAt)

	code, out = e.do(t, http.MethodGet, "/api/blog/posts?status=draft", e.admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]model.BlogPost](t, out.Data))

	code, _ = e.do(t, http.MethodDelete, "/api/blog/posts/"+post.ID, e.admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, out = e.do(t, http.MethodDelete, "/api/blog/posts/"+post.ID, e.admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, string(apperr.NotFound), out.Kind)
}

func TestGenerationErrorsMapToStatus(t *testing.T) {
	e := newEnv(t, false)

	tests := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.RateLimited, http.StatusInternalServerError},
		{apperr.NotConfigured, http.StatusInternalServerError},
		{apperr.Timeout, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		e.gen.err = apperr.New(tt.kind, "x")
		code, out := e.do(t, http.MethodPost, "/api/blog/generate", e.admin, gin.H{"dailyReport": "r"})
		assert.Equal(t, tt.status, code)
		assert.Equal(t, string(tt.kind), out.Kind)
		assert.Equal(t, tt.kind.Message(), out.Error)
	}
}

func TestOwnerMessageFlow(t *testing.T) {
	e := newEnv(t, false)
	storetest.SeedReport(t, e.db, e.staffM.ID, "2024-05-02", "a")

	code, out := e.do(t, http.MethodPost, "/api/owner-message/generate", e.admin, gin.H{"yearMonth": "2024-13"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(apperr.InvalidInput), out.Kind)

	code, out = e.do(t, http.MethodPost, "/api/owner-message/generate", e.admin, gin.H{"yearMonth": "2024-06"})
	assert.Equal(t, http.StatusNotFound, code)

	code, out = e.do(t, http.MethodPost, "/api/owner-message/generate", e.admin, gin.H{"yearMonth": "2024-05"})
	require.Equal(t, http.StatusOK, code)
	first := decode[model.OwnerMessage](t, out.Data)
	assert.Equal(t, "2024-05", first.YearMonth)

	other := &model.OwnerMessage{YearMonth: "2024-05", Title: "other"}
	require.NoError(t, e.db.Create(other).Error)

	code, _ = e.do(t, http.MethodPost, "/api/owner-message/publish", e.admin, gin.H{"id": first.ID})
	require.Equal(t, http.StatusOK, code)

	code, out = e.do(t, http.MethodPost, "/api/owner-message/publish", e.admin, gin.H{"id": other.ID})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, apperr.Conflict.Message(), out.Error)

	code, out = e.do(t, http.MethodGet, "/api/owner-message/list?status=published", e.admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.OwnerMessage](t, out.Data), 1)

	code, _ = e.do(t, http.MethodDelete, "/api/owner-message/publish?id="+first.ID, e.admin, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodPost, "/api/owner-message/publish", e.admin, gin.H{"id": other.ID})
	assert.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodDelete, "/api/owner-message/list?id="+first.ID, e.admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodDelete, "/api/owner-message/list?id="+first.ID, e.admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDailyReports(t *testing.T) {
	e := newEnv(t, false)

	code, out := e.do(t, http.MethodPost, "/api/daily-reports", e.staff, gin.H{"date": "2024-05-02", "content": "施術の記録"})
	require.Equal(t, http.StatusOK, code)
	r := decode[model.DailyReport](t, out.Data)
	assert.Equal(t, e.staffM.ID, r.StaffID)

	code, _ = e.do(t, http.MethodPost, "/api/daily-reports", e.staff, gin.H{"date": "05/02", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = e.do(t, http.MethodGet, "/api/daily-reports?month=2024-05", e.staff, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.DailyReport](t, out.Data), 1)

	code, out = e.do(t, http.MethodGet, "/api/daily-reports?from=2024-06-01", e.staff, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]model.DailyReport](t, out.Data))
}

func TestLogViewer(t *testing.T) {
	e := newEnv(t, true)

	code, _ := e.do(t, http.MethodPost, "/api/logs", "", gin.H{"level": "info", "message": "noise"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(t, http.MethodPost, "/api/logs", "", gin.H{"level": "error", "message": "render failed", "data": gin.H{"page": "blog"}})
	require.Equal(t, http.StatusOK, code)

	code, out := e.do(t, http.MethodGet, "/api/logs?category=client", "", nil)
	require.Equal(t, http.StatusOK, code)
	entries := decode[[]logger.Entry](t, out.Data)
	require.Len(t, entries, 1)
	assert.Equal(t, "render failed", entries[0].Message)
	assert.Equal(t, "blog", entries[0].Data["page"])
	assert.NotEmpty(t, entries[0].SessionID)

	req := httptest.NewRequest(http.MethodGet, "/api/logs/export", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "render failed")

	code, _ = e.do(t, http.MethodDelete, "/api/logs", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, e.ring.Len()) // the DELETE request's own access log
}

func TestLogViewerHiddenOutsideDev(t *testing.T) {
	e := newEnv(t, false)
	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
