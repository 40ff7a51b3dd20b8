package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/domain/repository"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/pkg/metrics"
)

// DefaultRewardAmount сумма выплаты за идеальный результат, рупии
const DefaultRewardAmount = 100

// PaymentService ведёт запросы на выплату
type PaymentService struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	email    EmailService
	metrics  *metrics.Metrics
	amount   int
	now      func() time.Time
	logger   zerolog.Logger
}

// NewPaymentService создаёт сервис выплат. amount <= 0 означает DefaultRewardAmount.
func NewPaymentService(payments repository.PaymentRepository, users repository.UserRepository, email EmailService, m *metrics.Metrics, amount int) *PaymentService {
	if email == nil {
		email = &NoopEmailService{}
	}
	if m == nil {
		m = metrics.Noop()
	}
	if amount <= 0 {
		amount = DefaultRewardAmount
	}
	return &PaymentService{
		payments: payments,
		users:    users,
		email:    email,
		metrics:  m,
		amount:   amount,
		now:      time.Now,
		logger:   log.With().Str("component", "PaymentService").Logger(),
	}
}

// CreateRequest создаёт запрос на выплату за попытку.
// Возвращает nil без ошибки, если результат не идеальный.
// Контактные данные берутся из профиля в момент вызова.
func (s *PaymentService) CreateRequest(ctx context.Context, userID, attemptID string, score, total int) (*entity.PaymentRequest, error) {
	if total <= 0 || score != total {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("профиль пользователя для выплаты: %w", err)
	}

	req := &entity.PaymentRequest{
		UserID:         userID,
		UserName:       user.Name,
		UserEmail:      user.Email,
		UserPhone:      user.Phone,
		UserUPI:        user.UPI,
		Amount:         s.amount,
		AttemptID:      attemptID,
		Score:          score,
		TotalQuestions: total,
		Status:         entity.PaymentPending,
	}
	if err := s.payments.Create(ctx, req); err != nil {
		return nil, err
	}

	s.metrics.PaymentRequests.WithLabelValues(string(entity.PaymentPending)).Inc()
	s.logger.Info().Str("request_id", req.ID).Str("user_id", userID).Str("attempt_id", attemptID).Msg("Создан запрос на выплату")
	return req, nil
}

// List возвращает запросы, новые первыми. Пустой статус означает все.
func (s *PaymentService) List(ctx context.Context, status entity.PaymentStatus) ([]entity.PaymentRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", apperrors.ErrValidation, status)
	}
	return s.payments.List(ctx, status)
}

// MarkCompleted подтверждает выплату и отправляет письмо пользователю
func (s *PaymentService) MarkCompleted(ctx context.Context, id, adminID, notes string) error {
	now := s.now().UTC()
	err := s.payments.Resolve(ctx, id, entity.PaymentCompleted, map[string]interface{}{
		"completed_at": now,
		"completed_by": adminID,
		"notes":        strings.TrimSpace(notes),
	})
	if err != nil {
		return s.resolveError(err)
	}
	s.metrics.PaymentRequests.WithLabelValues(string(entity.PaymentCompleted)).Inc()

	req, err := s.payments.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("request_id", id).Msg("Выплата подтверждена, но запрос не прочитан для письма")
		return nil
	}
	if req.UserEmail != "" {
		// Письмо не влияет на результат подтверждения
		if err := s.email.SendPayoutCompleted(ctx, PayoutNotice{
			ToEmail:   req.UserEmail,
			UserName:  req.UserName,
			Amount:    req.Amount,
			UPI:       req.UserUPI,
			RequestID: req.ID,
		}); err != nil {
			s.logger.Warn().Err(err).Str("request_id", id).Msg("Не удалось отправить письмо о выплате")
		}
	}
	s.logger.Info().Str("request_id", id).Str("admin_id", adminID).Msg("Выплата подтверждена")
	return nil
}

// MarkFailed отклоняет выплату с причиной
func (s *PaymentService) MarkFailed(ctx context.Context, id, adminID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: failure reason is required", apperrors.ErrValidation)
	}
	err := s.payments.Resolve(ctx, id, entity.PaymentFailed, map[string]interface{}{
		"completed_at":   s.now().UTC(),
		"completed_by":   adminID,
		"failure_reason": reason,
	})
	if err != nil {
		return s.resolveError(err)
	}
	s.metrics.PaymentRequests.WithLabelValues(string(entity.PaymentFailed)).Inc()
	s.logger.Info().Str("request_id", id).Str("admin_id", adminID).Msg("Выплата отклонена")
	return nil
}

// Stats возвращает агрегаты по статусам
func (s *PaymentService) Stats(ctx context.Context) (*entity.PaymentStats, error) {
	return s.payments.Stats(ctx)
}

func (s *PaymentService) resolveError(err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return ErrAlreadyResolved
	}
	return err
}

// ExportXLSX пишет запросы в xlsx через StreamWriter
func (s *PaymentService) ExportXLSX(ctx context.Context, status entity.PaymentStatus, w io.Writer) error {
	requests, err := s.List(ctx, status)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Payments"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("не удалось переименовать лист: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("не удалось создать StreamWriter: %w", err)
	}

	headers := []interface{}{"Request ID", "User ID", "Name", "Email", "Phone", "UPI", "Amount", "Score", "Total", "Status", "Created", "Resolved", "Resolved by", "Notes"}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("не удалось записать заголовки: %w", err)
	}

	for i, r := range requests {
		resolved := ""
		if r.CompletedAt != nil {
			resolved = r.CompletedAt.UTC().Format(time.RFC3339)
		}
		notes := r.Notes
		if r.Status == entity.PaymentFailed {
			notes = r.FailureReason
		}
		row := []interface{}{
			r.ID,
			r.UserID,
			sanitizeForExcel(r.UserName),
			sanitizeForExcel(r.UserEmail),
			sanitizeForExcel(r.UserPhone),
			sanitizeForExcel(r.UserUPI),
			r.Amount,
			r.Score,
			r.TotalQuestions,
			string(r.Status),
			r.CreatedAt.UTC().Format(time.RFC3339),
			resolved,
			r.CompletedBy,
			sanitizeForExcel(notes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("не удалось записать строку %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("не удалось завершить лист: %w", err)
	}
	return f.Write(w)
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
