package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/domain/repository"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/internal/service/rewards"
)

// rewardStateTTL 0: отметки карт хранятся без срока
const rewardStateTTL time.Duration = 0

// AdLookup выдаёт первую рекламу слота
type AdLookup interface {
	GetSingleAd(ctx context.Context, slot entity.AdSlot) *entity.Ad
}

// RewardCard скретч-карта за попытку
type RewardCard struct {
	Attempt           entity.QuizAttempt `json:"attempt"`
	Ad                *entity.Ad         `json:"ad,omitempty"`
	Scratched         bool               `json:"scratched"`
	EligibleForPayout bool               `json:"eligible_for_payout"`
}

// RewardService собирает скретч-карты пользователя
type RewardService struct {
	attempts repository.AttemptRepository
	ads      AdLookup
	cache    repository.CacheRepository
	opts     rewards.Options
	logger   zerolog.Logger
}

// NewRewardService создаёт сервис наград
func NewRewardService(attempts repository.AttemptRepository, ads AdLookup, cache repository.CacheRepository, opts rewards.Options) *RewardService {
	return &RewardService{
		attempts: attempts,
		ads:      ads,
		cache:    cache,
		opts:     opts,
		logger:   log.With().Str("component", "RewardService").Logger(),
	}
}

func scratchedKey(userID, slotID string) string {
	return fmt.Sprintf("reward:scratched:%s:%s", userID, slotID)
}

func dismissedKey(userID, slotID string) string {
	return fmt.Sprintf("reward:dismissed:%s:%s", userID, slotID)
}

// FormatSlot сопоставляет формат викторины грани куба
func FormatSlot(format string) (entity.AdSlot, bool) {
	f := strings.TrimSpace(format)
	for _, slot := range entity.CubeSlots() {
		if strings.EqualFold(string(slot), f) {
			return slot, true
		}
	}
	return "", false
}

// RewardCards возвращает карты пользователя, новые первыми.
// Ошибки загрузки истории дают пустой список.
func (s *RewardService) RewardCards(ctx context.Context, userID string) []RewardCard {
	history, err := s.attempts.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Не удалось загрузить историю для наград")
		return []RewardCard{}
	}

	selected := rewards.Select(history, s.opts)
	if len(selected) == 0 {
		return []RewardCard{}
	}

	cards := make([]RewardCard, len(selected))
	for i := range selected {
		cards[i] = RewardCard{
			Attempt:           selected[i],
			EligibleForPayout: selected[i].EligibleForPayout(),
		}
	}

	// Каждая горутина пишет только в свой элемент
	g, gctx := errgroup.WithContext(ctx)
	for i := range cards {
		i := i
		slot, ok := FormatSlot(cards[i].Attempt.Format)
		if !ok {
			continue
		}
		g.Go(func() error {
			cards[i].Ad = s.ads.GetSingleAd(gctx, slot)
			return nil
		})
	}
	_ = g.Wait()

	return s.withScratchState(ctx, userID, cards)
}

// withScratchState отмечает стёртые карты и убирает скрытые
func (s *RewardService) withScratchState(ctx context.Context, userID string, cards []RewardCard) []RewardCard {
	if s.cache == nil {
		return cards
	}
	keys := make([]string, 0, 2*len(cards))
	for _, c := range cards {
		keys = append(keys, scratchedKey(userID, c.Attempt.SlotID), dismissedKey(userID, c.Attempt.SlotID))
	}
	flags, err := s.cache.ExistsMany(ctx, keys...)
	if err != nil || len(flags) != len(keys) {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Не удалось прочитать состояние карт")
		return cards
	}

	out := cards[:0]
	for i, c := range cards {
		if flags[2*i+1] {
			continue
		}
		c.Scratched = flags[2*i]
		out = append(out, c)
	}
	return out
}

// Scratch отмечает карту слота стёртой
func (s *RewardService) Scratch(ctx context.Context, userID, slotID string) error {
	return s.setFlag(ctx, scratchedKey(userID, slotID), userID, slotID)
}

// Dismiss скрывает карту слота из выдачи
func (s *RewardService) Dismiss(ctx context.Context, userID, slotID string) error {
	return s.setFlag(ctx, dismissedKey(userID, slotID), userID, slotID)
}

func (s *RewardService) setFlag(ctx context.Context, key, userID, slotID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(slotID) == "" {
		return fmt.Errorf("%w: user id and slot id are required", apperrors.ErrValidation)
	}
	if s.cache == nil {
		return apperrors.ErrUnavailable
	}
	if err := s.cache.Set(ctx, key, "1", rewardStateTTL); err != nil {
		return fmt.Errorf("не удалось сохранить состояние карты: %w", err)
	}
	return nil
}
