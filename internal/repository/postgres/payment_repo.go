package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// PaymentRepo реализует repository.PaymentRepository
type PaymentRepo struct {
	db *gorm.DB
}

// NewPaymentRepo создаёт новый репозиторий выплат
func NewPaymentRepo(db *gorm.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create сохраняет запрос на выплату
func (r *PaymentRepo) Create(ctx context.Context, req *entity.PaymentRequest) error {
	return mapError(r.db.WithContext(ctx).Create(req).Error)
}

// GetByID возвращает запрос по ID
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.PaymentRequest, error) {
	var req entity.PaymentRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, mapError(err)
	}
	return &req, nil
}

// List возвращает запросы, новые первыми
func (r *PaymentRepo) List(ctx context.Context, status entity.PaymentStatus) ([]entity.PaymentRequest, error) {
	var reqs []entity.PaymentRequest
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

// Resolve меняет статус только у ожидающего запроса
func (r *PaymentRepo) Resolve(ctx context.Context, id string, status entity.PaymentStatus, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := make(map[string]interface{}, len(updates)+2)
		for k, v := range updates {
			fields[k] = v
		}
		fields["status"] = status
		fields["updated_at"] = time.Now()

		result := tx.Model(&entity.PaymentRequest{}).
			Where("id = ? AND status = ?", id, entity.PaymentPending).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		// Различаем "нет такого запроса" и "уже обработан"
		var count int64
		if err := tx.Model(&entity.PaymentRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	})
}

// Stats возвращает количество и суммы по статусам
func (r *PaymentRepo) Stats(ctx context.Context) (*entity.PaymentStats, error) {
	var rows []struct {
		Status string
		Cnt    int64
		Amount int64
	}
	err := r.db.WithContext(ctx).Model(&entity.PaymentRequest{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(amount), 0) AS amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &entity.PaymentStats{}
	for _, row := range rows {
		stats.TotalRequests += row.Cnt
		stats.TotalAmount += row.Amount
		switch entity.PaymentStatus(row.Status) {
		case entity.PaymentPending:
			stats.PendingCount = row.Cnt
			stats.PendingAmount = row.Amount
		case entity.PaymentCompleted:
			stats.CompletedCount = row.Cnt
			stats.CompletedAmount = row.Amount
		case entity.PaymentFailed:
			stats.FailedCount = row.Cnt
		}
	}
	return stats, nil
}
