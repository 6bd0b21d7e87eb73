package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/logger"
	"salon-admin/internal/middleware"
	"salon-admin/internal/model"

	"github.com/gin-gonic/gin"
)

// LogHandler serves the in-memory log viewer. It is only routed in dev mode.
type LogHandler struct{ ring *logger.Ring }

func NewLogHandler(ring *logger.Ring) *LogHandler { return &LogHandler{ring: ring} }

// GET /api/logs?level=&category=&q=
func (h *LogHandler) List(c *gin.Context) {
	ok(c, h.ring.Entries(logger.Filter{
		Level:    c.Query("level"),
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}))
}

// GET /api/logs/export
func (h *LogHandler) Export(c *gin.Context) {
	data, err := h.ring.Export()
	if err != nil {
		fail(c, err)
		return
	}
	name := fmt.Sprintf("salon-admin-logs-%s.json", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// DELETE /api/logs
func (h *LogHandler) Clear(c *gin.Context) {
	h.ring.Clear()
	okMsg(c, gin.H{"count": 0}, "ログをクリアしました")
}

// POST /api/logs accepts warn and error entries from the admin frontend.
func (h *LogHandler) Client(c *gin.Context) {
	var req model.ClientLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	level, known := logger.ParseEntryLevel(req.Level)
	if !known || level < slog.LevelWarn {
		fail(c, apperr.New(apperr.InvalidInput, "only warn and error entries are accepted"))
		return
	}
	category := req.Category
	if category == "" {
		category = "client"
	}
	args := []any{logger.KeyCategory, category, logger.KeyUserAgent, c.GetHeader("User-Agent")}
	for k, v := range req.Data {
		args = append(args, k, v)
	}
	middleware.Logger(c).Log(c.Request.Context(), level, req.Message, args...)
	ok(c, gin.H{"accepted": true})
}
