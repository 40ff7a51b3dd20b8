package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/domain/repository"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// ReportService принимает жалобы на вопросы
type ReportService struct {
	reports repository.ReportRepository
	now     func() time.Time
}

func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports, now: time.Now}
}

// Report сохраняет жалобу со статусом new
func (s *ReportService) Report(ctx context.Context, report *entity.QuestionReport) error {
	report.QuestionID = strings.TrimSpace(report.QuestionID)
	report.Reason = strings.TrimSpace(report.Reason)
	if report.QuestionID == "" || report.Reason == "" {
		return fmt.Errorf("%w: question id and reason are required", apperrors.ErrValidation)
	}
	report.Status = entity.ReportStatusNew
	report.ReportedAt = s.now().UTC()

	if err := s.reports.Create(ctx, report); err != nil {
		return err
	}
	log.Info().Str("component", "ReportService").Str("question_id", report.QuestionID).Str("reason", report.Reason).Msg("Жалоба на вопрос")
	return nil
}

// List возвращает жалобы, новые первыми
func (s *ReportService) List(ctx context.Context, status string) ([]entity.QuestionReport, error) {
	return s.reports.List(ctx, strings.TrimSpace(status))
}
