package handler

import (
	"net/http"

	"salon-admin/internal/apperr"
	"salon-admin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func okMsg(c *gin.Context, data any, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "message": msg})
}

// fail writes the static message of err's kind. Unclassified errors count as
// storage failures.
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.StorageError
	}
	status := kind.Status()
	log := middleware.Logger(c)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "kind", string(kind), "err", err)
	} else {
		log.Warn("request rejected", "kind", string(kind), "err", err)
	}
	c.JSON(status, gin.H{"success": false, "error": kind.Message(), "kind": kind})
}

func badRequest(c *gin.Context, err error) {
	fail(c, apperr.Wrap(apperr.InvalidInput, "bind request", err))
}
