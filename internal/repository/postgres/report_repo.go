package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// ReportRepo реализует repository.ReportRepository
type ReportRepo struct {
	db *gorm.DB
}

// NewReportRepo создаёт репозиторий жалоб
func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create сохраняет жалобу
func (r *ReportRepo) Create(ctx context.Context, report *entity.QuestionReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// List возвращает жалобы
func (r *ReportRepo) List(ctx context.Context, status string) ([]entity.QuestionReport, error) {
	var reports []entity.QuestionReport
	q := r.db.WithContext(ctx).Order("reported_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&reports).Error
	return reports, err
}
