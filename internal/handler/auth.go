package handler

import (
	"errors"
	"net/http"
	"time"

	"salon-admin/internal/middleware"
	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
	ttl    time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, ttl: ttl}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	log := middleware.Logger(c)
	m, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		log.Warn("login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "メールアドレスまたはパスワードが正しくありません", "kind": "unauthorized"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.IssueToken(h.secret, h.ttl, m.ID, m.Name, m.Role)
	if err != nil {
		fail(c, err)
		return
	}
	log.Info("login.ok", "staff_id", m.ID, "name", m.Name)
	ok(c, model.LoginResponse{
		Token: token,
		User:  model.User{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role},
	})
}
