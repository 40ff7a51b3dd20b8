package repository

import (
	"context"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// PaymentRepository определяет методы для работы с запросами на выплату
type PaymentRepository interface {
	// Create сохраняет запрос. Второй запрос на ту же попытку даёт apperrors.ErrConflict.
	Create(ctx context.Context, req *entity.PaymentRequest) error
	GetByID(ctx context.Context, id string) (*entity.PaymentRequest, error)
	// List возвращает запросы, новые первыми. Пустой status означает все.
	List(ctx context.Context, status entity.PaymentStatus) ([]entity.PaymentRequest, error)
	// Resolve переводит запрос из pending в итоговый статус.
	// Если запрос уже обработан, возвращает apperrors.ErrConflict.
	Resolve(ctx context.Context, id string, status entity.PaymentStatus, updates map[string]interface{}) error
	Stats(ctx context.Context) (*entity.PaymentStats, error)
}
