package repository

import (
	"context"
	"time"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками прохождения викторин
type AttemptRepository interface {
	// Create сохраняет попытку. Повторная попытка на тот же слот даёт apperrors.ErrConflict.
	Create(ctx context.Context, attempt *entity.QuizAttempt) error

	// GetByID возвращает попытку по ID
	GetByID(ctx context.Context, id string) (*entity.QuizAttempt, error)

	// ListByUser возвращает историю пользователя, новые первыми
	ListByUser(ctx context.Context, userID string) ([]entity.QuizAttempt, error)

	// ListRecentByUser возвращает последние limit попыток пользователя
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.QuizAttempt, error)

	// MarkReviewed помечает попытку пользователя как просмотренную
	MarkReviewed(ctx context.Context, userID, attemptID string) error

	// CountActiveUsersSince считает уникальных пользователей с попытками после since
	CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error)

	// Counts возвращает общее число попыток, идеальных и дисквалифицированных
	Counts(ctx context.Context) (total, perfect, disqualified int64, err error)
}
