package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus статус запроса на выплату
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid проверяет статус
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// PaymentRequest запрос на выплату за идеальный результат.
// Контактные данные копируются из профиля в момент создания.
type PaymentRequest struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string        `gorm:"size:128;not null;index" json:"user_id"`
	UserName       string        `gorm:"size:100;not null;default:''" json:"user_name"`
	UserEmail      string        `gorm:"size:100;not null;default:''" json:"user_email"`
	UserPhone      string        `gorm:"size:20;not null;default:''" json:"user_phone"`
	UserUPI        string        `gorm:"column:user_upi;size:320;not null;default:''" json:"user_upi"`
	Amount         int           `gorm:"not null" json:"amount"`
	AttemptID      string        `gorm:"type:uuid;not null;uniqueIndex" json:"attempt_id"`
	Score          int           `gorm:"not null" json:"score"`
	TotalQuestions int           `gorm:"not null" json:"total_questions"`
	Status         PaymentStatus `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CompletedBy    string        `gorm:"size:128;not null;default:''" json:"completed_by,omitempty"`
	Notes          string        `gorm:"size:1000;not null;default:''" json:"notes,omitempty"`
	FailureReason  string        `gorm:"size:1000;not null;default:''" json:"failure_reason,omitempty"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (PaymentRequest) TableName() string {
	return "payment_requests"
}

// BeforeCreate назначает идентификатор
func (p *PaymentRequest) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PaymentStats агрегаты по запросам на выплату
type PaymentStats struct {
	TotalRequests   int64 `json:"total_requests"`
	PendingCount    int64 `json:"pending_count"`
	CompletedCount  int64 `json:"completed_count"`
	FailedCount     int64 `json:"failed_count"`
	TotalAmount     int64 `json:"total_amount"`
	PendingAmount   int64 `json:"pending_amount"`
	CompletedAmount int64 `json:"completed_amount"`
}
