package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// AdRepo реализует repository.AdRepository
type AdRepo struct {
	db *gorm.DB
}

// NewAdRepo создаёт новый репозиторий рекламы
func NewAdRepo(db *gorm.DB) *AdRepo {
	return &AdRepo{db: db}
}

// Create создаёт новую рекламу
func (r *AdRepo) Create(ctx context.Context, ad *entity.Ad) error {
	return mapError(r.db.WithContext(ctx).Create(ad).Error)
}

// GetByID возвращает рекламу по ID
func (r *AdRepo) GetByID(ctx context.Context, id string) (*entity.Ad, error) {
	var ad entity.Ad
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, mapError(err)
	}
	return &ad, nil
}

// List возвращает всю рекламу
func (r *AdRepo) List(ctx context.Context) ([]entity.Ad, error) {
	var ads []entity.Ad
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// ListActive возвращает активную рекламу
func (r *AdRepo) ListActive(ctx context.Context) ([]entity.Ad, error) {
	var ads []entity.Ad
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&ads).Error
	return ads, err
}

// ListActiveBySlot возвращает активную рекламу слота.
// Порядок по created_at и id фиксирован, от него зависит выбор "первой" рекламы.
func (r *AdRepo) ListActiveBySlot(ctx context.Context, slot entity.AdSlot) ([]entity.Ad, error) {
	var ads []entity.Ad
	err := r.db.WithContext(ctx).
		Where("ad_slot = ? AND is_active = ?", slot, true).
		Order("created_at ASC, id ASC").
		Find(&ads).Error
	return ads, err
}

// Update сохраняет редактируемые поля рекламы. Счётчики не перезаписываются.
func (r *AdRepo) Update(ctx context.Context, ad *entity.Ad) error {
	result := r.db.WithContext(ctx).Model(&entity.Ad{}).
		Where("id = ?", ad.ID).
		Updates(map[string]interface{}{
			"company_name": ad.CompanyName,
			"ad_slot":      ad.Slot,
			"ad_type":      ad.MediaKind,
			"media_url":    ad.MediaURL,
			"redirect_url": ad.RedirectURL,
			"revenue":      ad.Revenue,
			"is_active":    ad.IsActive,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetActive включает или выключает рекламу
func (r *AdRepo) SetActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).Model(&entity.Ad{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет рекламу и её журнал событий
func (r *AdRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ad_id = ?", id).Delete(&entity.AdEvent{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entity.Ad{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// RecordEvent увеличивает счётчик на стороне БД (без чтения-изменения-записи)
// и пишет строку журнала в одной транзакции
func (r *AdRepo) RecordEvent(ctx context.Context, event *entity.AdEvent) error {
	column, err := counterColumn(event.EventType)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Ad{}).
			Where("id = ?", event.AdID).
			UpdateColumn(column, gorm.Expr(column+" + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if event.OccurredAt.IsZero() {
			event.OccurredAt = time.Now()
		}
		return tx.Create(event).Error
	})
}

func counterColumn(t entity.AdEventType) (string, error) {
	switch t {
	case entity.AdEventView:
		return "view_count", nil
	case entity.AdEventClick:
		return "click_count", nil
	default:
		return "", fmt.Errorf("%w: unknown ad event type %q", apperrors.ErrValidation, t)
	}
}

// ListEvents возвращает журнал событий рекламы
func (r *AdRepo) ListEvents(ctx context.Context, adID string, eventType entity.AdEventType) ([]entity.AdEvent, error) {
	var events []entity.AdEvent
	err := r.db.WithContext(ctx).
		Where("ad_id = ? AND event_type = ?", adID, eventType).
		Order("occurred_at DESC").
		Find(&events).Error
	return events, err
}

// Analytics возвращает сводку: просмотры и клики считаются по журналу,
// выручка по активной рекламе
func (r *AdRepo) Analytics(ctx context.Context) (*entity.AdAnalytics, error) {
	var out entity.AdAnalytics
	db := r.db.WithContext(ctx)

	if err := db.Model(&entity.Ad{}).Count(&out.TotalAds).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Ad{}).Where("is_active = ?", true).Count(&out.ActiveAds).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.AdEvent{}).Where("event_type = ?", entity.AdEventView).Count(&out.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.AdEvent{}).Where("event_type = ?", entity.AdEventClick).Count(&out.TotalClicks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Ad{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(revenue), 0)").
		Scan(&out.TotalRevenue).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
