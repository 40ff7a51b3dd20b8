package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создаёт новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create сохраняет попытку; уникальный индекс (user_id, slot_id) даёт ErrConflict
func (r *AttemptRepo) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	return mapError(r.db.WithContext(ctx).Create(attempt).Error)
}

// GetByID возвращает попытку по ID
func (r *AttemptRepo) GetByID(ctx context.Context, id string) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, mapError(err)
	}
	return &attempt, nil
}

// ListByUser возвращает всю историю пользователя
func (r *AttemptRepo) ListByUser(ctx context.Context, userID string) ([]entity.QuizAttempt, error) {
	var attempts []entity.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC NULLS LAST, created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// ListRecentByUser возвращает последние limit попыток
func (r *AttemptRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.QuizAttempt, error) {
	var attempts []entity.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// MarkReviewed выставляет флаг просмотра ответов
func (r *AttemptRepo) MarkReviewed(ctx context.Context, userID, attemptID string) error {
	result := r.db.WithContext(ctx).Model(&entity.QuizAttempt{}).
		Where("id = ? AND user_id = ?", attemptID, userID).
		Updates(map[string]interface{}{"reviewed": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountActiveUsersSince считает уникальных пользователей с попытками после since
func (r *AttemptRepo) CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.QuizAttempt{}).
		Where("timestamp >= ?", since).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// Counts возвращает агрегаты по попыткам одним запросом
func (r *AttemptRepo) Counts(ctx context.Context) (total, perfect, disqualified int64, err error) {
	var row struct {
		Total        int64
		Perfect      int64
		Disqualified int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE total_questions > 0 AND score = total_questions AND reason = '') AS perfect,
			COUNT(*) FILTER (WHERE reason <> '') AS disqualified
		FROM quiz_attempts`).Scan(&row).Error
	return row.Total, row.Perfect, row.Disqualified, err
}
