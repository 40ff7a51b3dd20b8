package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatusNew статус нового обращения
const ReportStatusNew = "new"

// QuestionReport жалоба пользователя на вопрос викторины
type QuestionReport struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID   string    `gorm:"size:128;not null;index" json:"question_id"`
	QuestionText string    `gorm:"size:1000;not null" json:"question_text"`
	Reason       string    `gorm:"size:100;not null" json:"reason"`
	Comment      string    `gorm:"size:1000;not null;default:''" json:"comment"`
	UserID       string    `gorm:"size:128;not null;index" json:"user_id"`
	Status       string    `gorm:"size:16;not null;default:'new';index" json:"status"`
	ReportedAt   time.Time `gorm:"not null" json:"reported_at"`
}

// TableName определяет имя таблицы для GORM
func (QuestionReport) TableName() string {
	return "question_reports"
}

// BeforeCreate назначает идентификатор
func (r *QuestionReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
