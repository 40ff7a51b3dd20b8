package dto

import "github.com/yourusername/indcric-api/internal/domain/entity"

// SubmitAttemptRequest завершённая попытка от клиента. Время отправки ставит сервер.
type SubmitAttemptRequest struct {
	SlotID         string                   `json:"slot_id" binding:"required,max=128"`
	Format         string                   `json:"format" binding:"max=32"`
	Brand          string                   `json:"brand" binding:"max=100"`
	Score          int                      `json:"score" binding:"gte=0"`
	TotalQuestions int                      `json:"total_questions" binding:"gte=0"`
	Reason         string                   `json:"reason" binding:"max=255"`
	Questions      []entity.AttemptQuestion `json:"questions"`
}

// SubmitAttemptResponse сохранённая попытка и, при идеальном результате, запрос на выплату
type SubmitAttemptResponse struct {
	Attempt        *entity.QuizAttempt    `json:"attempt"`
	PaymentRequest *entity.PaymentRequest `json:"payment_request,omitempty"`
}

// AttemptListResponse история попыток
type AttemptListResponse struct {
	Items []entity.QuizAttempt `json:"items"`
}
