package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/domain/repository"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
	"github.com/yourusername/indcric-api/internal/service/profile"
)

// ProfileUpdate изменяемые пользователем поля профиля. nil поле не меняется.
type ProfileUpdate struct {
	Name              *string
	Email             *string
	Phone             *string
	DOB               *timeutil.Timestamp
	Gender            *string
	Occupation        *string
	UPI               *string
	FavoriteFormat    *string
	FavoriteTeam      *string
	FavoriteCricketer *string
}

// Completeness результат проверки заполненности профиля
type Completeness struct {
	Complete      bool     `json:"complete"`
	MissingFields []string `json:"missing_fields"`
}

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	users     repository.UserRepository
	attempts  repository.AttemptRepository
	adminUIDs map[string]struct{}
	now       func() time.Time
	logger    zerolog.Logger
}

// NewUserService создаёт сервис пользователей. adminUIDs получают роль admin при первом входе.
func NewUserService(users repository.UserRepository, attempts repository.AttemptRepository, adminUIDs []string) *UserService {
	admins := make(map[string]struct{}, len(adminUIDs))
	for _, uid := range adminUIDs {
		if uid = strings.TrimSpace(uid); uid != "" {
			admins[uid] = struct{}{}
		}
	}
	return &UserService{
		users:     users,
		attempts:  attempts,
		adminUIDs: admins,
		now:       time.Now,
		logger:    log.With().Str("component", "UserService").Logger(),
	}
}

// EnsureProfile возвращает профиль, создавая пустой при первом входе
func (s *UserService) EnsureProfile(ctx context.Context, userID, email string) (*entity.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.ErrUnauthorized
	}
	role := entity.RoleUser
	if _, ok := s.adminUIDs[userID]; ok {
		role = entity.RoleAdmin
	}
	return s.users.EnsureExists(ctx, &entity.User{ID: userID, Email: strings.TrimSpace(email), Role: role})
}

// GetProfile возвращает профиль пользователя
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile сохраняет изменённые поля и возвращает обновлённый профиль
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*entity.User, error) {
	updates := map[string]interface{}{}
	setText := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	setText(profile.FieldName, upd.Name)
	setText(profile.FieldEmail, upd.Email)
	setText(profile.FieldPhone, upd.Phone)
	setText(profile.FieldGender, upd.Gender)
	setText(profile.FieldOccupation, upd.Occupation)
	setText(profile.FieldUPI, upd.UPI)
	setText(profile.FieldFavoriteFormat, upd.FavoriteFormat)
	setText(profile.FieldFavoriteTeam, upd.FavoriteTeam)
	setText(profile.FieldFavoriteCricketer, upd.FavoriteCricketer)
	if upd.DOB != nil {
		if !profile.ValidDOB(*upd.DOB) {
			return nil, fmt.Errorf("%w: invalid date of birth", apperrors.ErrValidation)
		}
		updates[profile.FieldDOB] = *upd.DOB
	}

	if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// Completeness проверяет, заполнен ли профиль для участия в выплатах
func (s *UserService) Completeness(ctx context.Context, userID string) (*Completeness, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	missing := profile.MissingFields(u)
	return &Completeness{Complete: len(missing) == 0, MissingFields: missing}, nil
}

// Размер страницы списка пользователей
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage приводит номер и размер страницы к допустимым значениям
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// List возвращает страницу пользователей с последней викториной
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]entity.UserWithLastQuiz, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return s.users.ListWithLastQuiz(ctx, pageSize, (page-1)*pageSize)
}

// Metrics считает активность пользователей по попыткам
func (s *UserService) Metrics(ctx context.Context) (*entity.UserMetrics, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	m := &entity.UserMetrics{}
	var err error
	if m.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if m.ActiveToday, err = s.attempts.CountActiveUsersSince(ctx, startOfDay); err != nil {
		return nil, fmt.Errorf("active today: %w", err)
	}
	if m.ActiveLast7Days, err = s.attempts.CountActiveUsersSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, fmt.Errorf("active 7d: %w", err)
	}
	if m.ActiveLast30Days, err = s.attempts.CountActiveUsersSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, fmt.Errorf("active 30d: %w", err)
	}
	if m.TotalAttempts, m.PerfectAttempts, m.DisqualifiedCount, err = s.attempts.Counts(ctx); err != nil {
		return nil, fmt.Errorf("attempt counts: %w", err)
	}
	return m, nil
}

// Delete удаляет пользователя
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("Пользователь удалён")
	return nil
}
