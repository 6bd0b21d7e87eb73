package handler

import (
	"salon-admin/internal/middleware"
	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{ svc *service.DailyReportService }

func NewReportHandler(svc *service.DailyReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// POST /api/daily-reports  body: {"date":"2024-05-02","content":"..."}
func (h *ReportHandler) Create(c *gin.Context) {
	var req model.CreateDailyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.svc.Submit(c.Request.Context(), middleware.Logger(c), c.GetString(middleware.CtxStaffID), req)
	if err != nil {
		fail(c, err)
		return
	}
	okMsg(c, r, "日報を保存しました")
}

// GET /api/daily-reports?month=YYYY-MM or ?from=&to=
func (h *ReportHandler) List(c *gin.Context) {
	var (
		reports []model.DailyReport
		err     error
	)
	if month := c.Query("month"); month != "" {
		reports, err = h.svc.ListMonth(c.Request.Context(), month)
	} else {
		reports, err = h.svc.List(c.Request.Context(), c.Query("from"), c.Query("to"))
	}
	if err != nil {
		fail(c, err)
		return
	}
	if reports == nil {
		reports = []model.DailyReport{}
	}
	ok(c, reports)
}
