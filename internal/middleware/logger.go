package middleware

import (
	"log/slog"
	"time"

	"salon-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderSession = "X-Admin-Session"
	HeaderRequest = "X-Request-ID"
	ctxLogger     = "logger"
)

// RequestLogger attaches a per-request logger carrying the admin session and
// a request id, then logs the outcome.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.GetHeader(HeaderSession)
		if session == "" {
			session = logger.NewSessionID()
		}
		reqID := uuid.NewString()
		c.Header(HeaderSession, session)
		c.Header(HeaderRequest, reqID)

		log := base.With(logger.KeySession, session, "request_id", reqID)
		c.Set(ctxLogger, log)

		start := time.Now()
		c.Next()

		attrs := []any{
			logger.KeyCategory, "api",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if id := c.GetString(CtxStaffID); id != "" {
			attrs = append(attrs, "staff_id", id)
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", attrs...)
		case c.Writer.Status() >= 400:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}

// Logger returns the request logger, or the default logger outside
// RequestLogger.
func Logger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
