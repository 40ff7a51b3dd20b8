package dto

import "github.com/yourusername/indcric-api/internal/domain/entity"

// CompletePaymentRequest отметка о выплате
type CompletePaymentRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// FailPaymentRequest отказ в выплате
type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// PaymentListResponse список запросов на выплату
type PaymentListResponse struct {
	Items []entity.PaymentRequest `json:"items"`
}
