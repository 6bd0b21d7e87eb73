package handler

import (
	"salon-admin/internal/middleware"
	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type OwnerMessageHandler struct{ svc *service.OwnerMessageService }

func NewOwnerMessageHandler(svc *service.OwnerMessageService) *OwnerMessageHandler {
	return &OwnerMessageHandler{svc: svc}
}

// POST /api/owner-message/generate  body: {"yearMonth":"2024-05"}
func (h *OwnerMessageHandler) Generate(c *gin.Context) {
	var req model.GenerateOwnerMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.svc.GenerateForMonth(c.Request.Context(), middleware.Logger(c), req.YearMonth)
	if err != nil {
		fail(c, err)
		return
	}
	okMsg(c, m, "オーナーメッセージが生成されました")
}

// GET /api/owner-message/list?status=&yearMonth=
func (h *OwnerMessageHandler) List(c *gin.Context) {
	msgs, err := h.svc.List(c.Request.Context(), model.OwnerMessageFilter{
		Status:    model.Status(c.Query("status")),
		YearMonth: c.Query("yearMonth"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []model.OwnerMessage{}
	}
	ok(c, msgs)
}

// DELETE /api/owner-message/list?id=
func (h *OwnerMessageHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if err := h.svc.Delete(c.Request.Context(), middleware.Logger(c), id); err != nil {
		fail(c, err)
		return
	}
	okMsg(c, gin.H{"id": id}, "オーナーメッセージを削除しました")
}

// POST /api/owner-message/publish  body: {"id":"..."}
func (h *OwnerMessageHandler) Publish(c *gin.Context) {
	var req model.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.svc.Publish(c.Request.Context(), middleware.Logger(c), req.ID)
	if err != nil {
		fail(c, err)
		return
	}
	okMsg(c, m, "オーナーメッセージを公開しました")
}

// DELETE /api/owner-message/publish?id=
func (h *OwnerMessageHandler) Unpublish(c *gin.Context) {
	m, err := h.svc.Unpublish(c.Request.Context(), middleware.Logger(c), c.Query("id"))
	if err != nil {
		fail(c, err)
		return
	}
	okMsg(c, m, "オーナーメッセージを非公開にしました")
}
