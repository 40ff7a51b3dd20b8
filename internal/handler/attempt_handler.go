package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/handler/dto"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
)

// AttemptHandler принимает результаты викторин
type AttemptHandler struct {
	attemptService *service.AttemptService
}

func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Submit POST /api/attempts
func (h *AttemptHandler) Submit(c *gin.Context) {
	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	attempt := &entity.QuizAttempt{}
	if err := copier.Copy(attempt, &req); err != nil {
		respondError(c, err)
		return
	}
	attempt.Questions = req.Questions
	attempt.UserID = middleware.UserID(c)

	res, err := h.attemptService.Submit(c.Request.Context(), attempt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SubmitAttemptResponse{Attempt: res.Attempt, PaymentRequest: res.Payment})
}

// History GET /api/attempts
func (h *AttemptHandler) History(c *gin.Context) {
	items, err := h.attemptService.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []entity.QuizAttempt{}
	}
	c.JSON(http.StatusOK, dto.AttemptListResponse{Items: items})
}

// MarkReviewed POST /api/attempts/:id/review
func (h *AttemptHandler) MarkReviewed(c *gin.Context) {
	if err := h.attemptService.MarkReviewed(c.Request.Context(), middleware.UserID(c), c.GetString(ParamID)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
