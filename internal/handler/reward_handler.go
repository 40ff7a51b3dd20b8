package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
)

// RewardHandler отдаёт скретч-карты
type RewardHandler struct {
	rewardService *service.RewardService
}

func NewRewardHandler(rewardService *service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// List GET /api/rewards
func (h *RewardHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.rewardService.RewardCards(c.Request.Context(), middleware.UserID(c))})
}

// Scratch POST /api/rewards/:slotId/scratch
func (h *RewardHandler) Scratch(c *gin.Context) {
	slotID := strings.TrimSpace(c.Param("slotId"))
	if err := h.rewardService.Scratch(c.Request.Context(), middleware.UserID(c), slotID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dismiss DELETE /api/rewards/:slotId
func (h *RewardHandler) Dismiss(c *gin.Context) {
	slotID := strings.TrimSpace(c.Param("slotId"))
	if err := h.rewardService.Dismiss(c.Request.Context(), middleware.UserID(c), slotID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
