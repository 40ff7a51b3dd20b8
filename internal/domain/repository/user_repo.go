package repository

import (
	"context"
	"time"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// EnsureExists создаёт пустой профиль при первом входе
	EnsureExists(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error
	UpdateLastPlayed(ctx context.Context, userID string, at time.Time) error
	// ListWithLastQuiz возвращает пользователей с последней попыткой и общим количеством
	ListWithLastQuiz(ctx context.Context, limit, offset int) ([]entity.UserWithLastQuiz, int64, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}
