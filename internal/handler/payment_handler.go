package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/handler/dto"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PaymentHandler админские операции с выплатами
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List GET /api/admin/payments?status=
func (h *PaymentHandler) List(c *gin.Context) {
	items, err := h.paymentService.List(c.Request.Context(), entity.PaymentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []entity.PaymentRequest{}
	}
	c.JSON(http.StatusOK, dto.PaymentListResponse{Items: items})
}

// Stats GET /api/admin/payments/stats
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.paymentService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Complete POST /api/admin/payments/:id/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	var req dto.CompletePaymentRequest
	// тело необязательно
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	if err := h.paymentService.MarkCompleted(c.Request.Context(), c.GetString(ParamID), middleware.UserID(c), req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.GetString(ParamID), "status": entity.PaymentCompleted})
}

// Fail POST /api/admin/payments/:id/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	var req dto.FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.paymentService.MarkFailed(c.Request.Context(), c.GetString(ParamID), middleware.UserID(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.GetString(ParamID), "status": entity.PaymentFailed})
}

// Export GET /api/admin/payments/export?status=
func (h *PaymentHandler) Export(c *gin.Context) {
	status := entity.PaymentStatus(c.Query("status"))

	var buf bytes.Buffer
	if err := h.paymentService.ExportXLSX(c.Request.Context(), status, &buf); err != nil {
		respondError(c, err)
		return
	}

	name := "payments"
	if status != "" {
		name += "_" + string(status)
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
