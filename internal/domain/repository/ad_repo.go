package repository

import (
	"context"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// AdRepository определяет методы для работы с рекламой
type AdRepository interface {
	// Create создаёт новую рекламу
	Create(ctx context.Context, ad *entity.Ad) error

	// GetByID возвращает рекламу по ID
	GetByID(ctx context.Context, id string) (*entity.Ad, error)

	// List возвращает всю рекламу, новые первыми
	List(ctx context.Context) ([]entity.Ad, error)

	// ListActive возвращает только активную рекламу
	ListActive(ctx context.Context) ([]entity.Ad, error)

	// ListActiveBySlot возвращает активную рекламу слота в стабильном порядке
	ListActiveBySlot(ctx context.Context, slot entity.AdSlot) ([]entity.Ad, error)

	// Update сохраняет изменённые поля рекламы (счётчики не затрагиваются)
	Update(ctx context.Context, ad *entity.Ad) error

	// SetActive включает или выключает рекламу
	SetActive(ctx context.Context, id string, active bool) error

	// Delete удаляет рекламу по ID
	Delete(ctx context.Context, id string) error

	// RecordEvent атомарно увеличивает счётчик рекламы и пишет строку журнала
	RecordEvent(ctx context.Context, event *entity.AdEvent) error

	// ListEvents возвращает журнал событий рекламы, новые первыми
	ListEvents(ctx context.Context, adID string, eventType entity.AdEventType) ([]entity.AdEvent, error)

	// Analytics возвращает сводку по рекламе
	Analytics(ctx context.Context) (*entity.AdAnalytics, error)
}
