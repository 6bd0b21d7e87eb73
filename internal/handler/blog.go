package handler

import (
	"salon-admin/internal/middleware"
	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct{ svc *service.BlogService }

func NewBlogHandler(svc *service.BlogService) *BlogHandler { return &BlogHandler{svc: svc} }

// POST /api/blog/generate
func (h *BlogHandler) Generate(c *gin.Context) {
	var req model.GenerateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	draft, err := h.svc.CreateFromReport(c.Request.Context(), middleware.Logger(c), req.DailyReport, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, draft)
}

// POST /api/blog/save
func (h *BlogHandler) Save(c *gin.Context) {
	var req model.SaveBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Save(c.Request.Context(), middleware.Logger(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "記事を公開しました"
	if p.Status == model.StatusDraft {
		msg = "下書きとして保存しました"
	}
	okMsg(c, p, msg)
}

// GET /api/blog/posts?status=
func (h *BlogHandler) List(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context(), model.Status(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}
	ok(c, posts)
}

// PATCH /api/blog/posts/:id
func (h *BlogHandler) Update(c *gin.Context) {
	var patch model.BlogPostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), middleware.Logger(c), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

// DELETE /api/blog/posts/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.Logger(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	okMsg(c, gin.H{"id": c.Param("id")}, "記事を削除しました")
}
