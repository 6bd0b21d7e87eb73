package handler

import (
	"context"
	"net/http"
	"time"

	"salon-admin/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Routes struct {
	Auth         *AuthHandler
	Blog         *BlogHandler
	Reports      *ReportHandler
	OwnerMessage *OwnerMessageHandler
	// Logs is nil outside dev mode.
	Logs     *LogHandler
	Store    Pinger
	Secret   []byte
	TokenTTL time.Duration
}

// Register mounts the admin API on r.
func Register(r *gin.Engine, rt Routes) {
	r.POST("/api/login", rt.Auth.Login)
	r.GET("/api/health", health(rt.Store))

	api := r.Group("/api", middleware.JWTAuth(rt.Secret, rt.TokenTTL))
	api.POST("/daily-reports", rt.Reports.Create)
	api.GET("/daily-reports", rt.Reports.List)

	admin := api.Group("", middleware.RequireAdmin())
	admin.POST("/blog/generate", rt.Blog.Generate)
	admin.POST("/blog/save", rt.Blog.Save)
	admin.GET("/blog/save", rt.Blog.List)
	admin.GET("/blog/posts", rt.Blog.List)
	admin.PATCH("/blog/posts/:id", rt.Blog.Update)
	admin.DELETE("/blog/posts/:id", rt.Blog.Delete)

	admin.POST("/owner-message/generate", rt.OwnerMessage.Generate)
	admin.GET("/owner-message/list", rt.OwnerMessage.List)
	admin.DELETE("/owner-message/list", rt.OwnerMessage.Delete)
	admin.POST("/owner-message/publish", rt.OwnerMessage.Publish)
	admin.DELETE("/owner-message/publish", rt.OwnerMessage.Unpublish)

	if rt.Logs != nil {
		// the viewer is reachable without a token, dev only
		r.GET("/api/logs", rt.Logs.List)
		r.GET("/api/logs/export", rt.Logs.Export)
		r.DELETE("/api/logs", rt.Logs.Clear)
		r.POST("/api/logs", rt.Logs.Client)
	}
}

func health(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			middleware.Logger(c).Error("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "database unreachable"})
			return
		}
		ok(c, gin.H{"status": "ok"})
	}
}
