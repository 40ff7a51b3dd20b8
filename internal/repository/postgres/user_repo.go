package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureExists создаёт профиль, если его ещё нет, и возвращает сохранённую версию
func (r *UserRepo) EnsureExists(ctx context.Context, user *entity.User) (*entity.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, user.ID)
}

// UpdateProfile обновляет поля профиля
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateLastPlayed сохраняет время последней игры
func (r *UserRepo) UpdateLastPlayed(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_played_at", at).Error
}

// ListWithLastQuiz возвращает страницу пользователей с данными последней попытки
func (r *UserRepo) ListWithLastQuiz(ctx context.Context, limit, offset int) ([]entity.UserWithLastQuiz, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []entity.UserWithLastQuiz
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.*,
			COALESCE(la.format, '') AS last_quiz_format,
			COALESCE(la.brand, '') AS last_quiz_brand,
			la.timestamp AS last_quiz_at,
			COALESCE(ac.cnt, 0) AS attempts_count
		FROM users u
		LEFT JOIN LATERAL (
			SELECT a.format, a.brand, a.timestamp
			FROM quiz_attempts a
			WHERE a.user_id = u.id
			ORDER BY a.timestamp DESC NULLS LAST
			LIMIT 1
		) la ON TRUE
		LEFT JOIN (
			SELECT user_id, COUNT(*) AS cnt FROM quiz_attempts GROUP BY user_id
		) ac ON ac.user_id = u.id
		ORDER BY u.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Count возвращает общее число пользователей
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error
	return count, err
}

// Delete удаляет профиль пользователя. История попыток и выплат сохраняется.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
