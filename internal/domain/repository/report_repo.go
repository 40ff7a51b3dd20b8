package repository

import (
	"context"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// ReportRepository определяет методы для работы с жалобами на вопросы
type ReportRepository interface {
	Create(ctx context.Context, report *entity.QuestionReport) error
	// List возвращает жалобы, новые первыми. Пустой status означает все.
	List(ctx context.Context, status string) ([]entity.QuestionReport, error)
}
