package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/domain/repository"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
)

// PaymentRequester создаёт запрос на выплату за идеальную попытку
type PaymentRequester interface {
	CreateRequest(ctx context.Context, userID, attemptID string, score, total int) (*entity.PaymentRequest, error)
}

// SubmitResult итог сохранения попытки
type SubmitResult struct {
	Attempt *entity.QuizAttempt     `json:"attempt"`
	Payment *entity.PaymentRequest `json:"payment,omitempty"`
}

// AttemptService сохраняет результаты викторин
type AttemptService struct {
	attempts repository.AttemptRepository
	users    repository.UserRepository
	payments PaymentRequester
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAttemptService создаёт сервис попыток
func NewAttemptService(attempts repository.AttemptRepository, users repository.UserRepository, payments PaymentRequester) *AttemptService {
	return &AttemptService{
		attempts: attempts,
		users:    users,
		payments: payments,
		now:      time.Now,
		logger:   log.With().Str("component", "AttemptService").Logger(),
	}
}

// Submit сохраняет попытку с серверной меткой времени.
// На один слот допускается одна попытка пользователя.
func (s *AttemptService) Submit(ctx context.Context, attempt *entity.QuizAttempt) (*SubmitResult, error) {
	if err := validateAttempt(attempt); err != nil {
		return nil, err
	}
	// Клиентская метка времени не принимается
	attempt.Timestamp = timeutil.Of(s.now().UTC())
	attempt.Reviewed = false

	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("не удалось сохранить попытку: %w", err)
	}

	if err := s.users.UpdateLastPlayed(ctx, attempt.UserID, attempt.Timestamp.Time); err != nil {
		s.logger.Warn().Err(err).Str("user_id", attempt.UserID).Msg("Не удалось обновить время последней игры")
	}

	result := &SubmitResult{Attempt: attempt}
	if attempt.EligibleForPayout() && s.payments != nil {
		// Попытка сохранена в любом случае, ошибка выплаты только журналируется
		req, err := s.payments.CreateRequest(ctx, attempt.UserID, attempt.ID, attempt.Score, attempt.TotalQuestions)
		if err != nil {
			s.logger.Error().Err(err).Str("attempt_id", attempt.ID).Msg("Не удалось создать запрос на выплату")
		} else {
			result.Payment = req
		}
	}

	s.logger.Info().
		Str("attempt_id", attempt.ID).
		Str("user_id", attempt.UserID).
		Str("slot_id", attempt.SlotID).
		Int("score", attempt.Score).
		Int("total", attempt.TotalQuestions).
		Bool("disqualified", attempt.IsDisqualified()).
		Msg("Попытка сохранена")
	return result, nil
}

// History возвращает попытки пользователя, новые первыми
func (s *AttemptService) History(ctx context.Context, userID string) ([]entity.QuizAttempt, error) {
	return s.attempts.ListByUser(ctx, userID)
}

// Get возвращает попытку пользователя. Чужая попытка считается ненайденной.
func (s *AttemptService) Get(ctx context.Context, userID, attemptID string) (*entity.QuizAttempt, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return attempt, nil
}

// MarkReviewed помечает попытку просмотренной
func (s *AttemptService) MarkReviewed(ctx context.Context, userID, attemptID string) error {
	return s.attempts.MarkReviewed(ctx, userID, attemptID)
}

func validateAttempt(a *entity.QuizAttempt) error {
	if a == nil {
		return fmt.Errorf("%w: attempt is required", apperrors.ErrValidation)
	}
	a.UserID = strings.TrimSpace(a.UserID)
	a.SlotID = strings.TrimSpace(a.SlotID)
	a.Format = strings.TrimSpace(a.Format)
	a.Brand = strings.TrimSpace(a.Brand)
	switch {
	case a.UserID == "":
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	case a.SlotID == "":
		return fmt.Errorf("%w: slot id is required", apperrors.ErrValidation)
	case a.TotalQuestions < 0 || a.Score < 0:
		return fmt.Errorf("%w: score must not be negative", apperrors.ErrValidation)
	case a.Score > a.TotalQuestions:
		return fmt.Errorf("%w: score exceeds total questions", apperrors.ErrValidation)
	}
	return nil
}
