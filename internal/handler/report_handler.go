package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/handler/dto"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
)

// ReportHandler жалобы на вопросы
type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Report POST /api/questions/report
func (h *ReportHandler) Report(c *gin.Context) {
	var req dto.ReportQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	report := &entity.QuestionReport{
		QuestionID:   req.QuestionID,
		QuestionText: req.QuestionText,
		Reason:       req.Reason,
		Comment:      req.Comment,
		UserID:       middleware.UserID(c),
	}
	if err := h.reportService.Report(c.Request.Context(), report); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// List GET /api/admin/reports?status=
func (h *ReportHandler) List(c *gin.Context) {
	items, err := h.reportService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []entity.QuestionReport{}
	}
	c.JSON(http.StatusOK, dto.ReportListResponse{Items: items})
}
