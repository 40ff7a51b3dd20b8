package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
)

// AttemptQuestion вопрос в составе сохранённой попытки вместе с ответом пользователя
type AttemptQuestion struct {
	QuizQuestion
	UserAnswer string `json:"user_answer"`
}

// QuizAttempt представляет одну завершённую попытку прохождения викторины
type QuizAttempt struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"size:128;not null;uniqueIndex:idx_attempt_user_slot" json:"user_id"`
	// SlotID идентифицирует конкретный запланированный экземпляр викторины:
	// одна попытка на слот и единица дедупликации наград
	SlotID         string `gorm:"size:128;not null;uniqueIndex:idx_attempt_user_slot" json:"slot_id"`
	Format         string `gorm:"size:32;not null;default:''" json:"format"`
	Brand          string `gorm:"size:100;not null;default:''" json:"brand"`
	Score          int    `gorm:"not null;default:0" json:"score"`
	TotalQuestions int    `gorm:"not null;default:0" json:"total_questions"`
	// Timestamp приходит из внешних клиентов в разных формах
	Timestamp timeutil.Timestamp `gorm:"column:timestamp;index" json:"timestamp"`
	// Reason заполнен только у дисквалифицированных попыток
	Reason    string                               `gorm:"size:255;not null;default:''" json:"reason,omitempty"`
	Reviewed  bool                                 `gorm:"not null;default:false" json:"reviewed"`
	Questions datatypes.JSONSlice[AttemptQuestion] `gorm:"type:jsonb" json:"questions,omitempty"`
	CreatedAt time.Time                            `json:"created_at"`
	UpdatedAt time.Time                            `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// BeforeCreate назначает идентификатор
func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsPerfectScore проверяет условие "все ответы верны"
func (a *QuizAttempt) IsPerfectScore() bool {
	return a.TotalQuestions > 0 && a.Score == a.TotalQuestions
}

// IsDisqualified сообщает, была ли попытка дисквалифицирована античитом
func (a *QuizAttempt) IsDisqualified() bool {
	return strings.TrimSpace(a.Reason) != ""
}

// EligibleForPayout единое условие создания запроса на выплату.
// Используется и при сохранении попытки, и при показе наград.
func (a *QuizAttempt) EligibleForPayout() bool {
	return a.IsPerfectScore() && !a.IsDisqualified()
}
