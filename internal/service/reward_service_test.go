package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/internal/pkg/timeutil"
	"github.com/yourusername/indcric-api/internal/service/rewards"
)

func attemptAt(slotID, format, brand string, ts time.Time, score, total int) entity.QuizAttempt {
	return entity.QuizAttempt{
		ID: "a-" + slotID, UserID: "u1", SlotID: slotID, Format: format, Brand: brand,
		Score: score, TotalQuestions: total, Timestamp: timeutil.Of(ts),
	}
}

func TestRewardService_RewardCards(t *testing.T) {
	attempts := new(MockAttemptRepository)
	ads := new(MockAdLookup)
	cache := new(MockCacheRepository)

	// неделя с понедельника 2025-03-03
	wed := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	fri := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	mon := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	attempts.On("ListByUser", mock.Anything, "u1").Return([]entity.QuizAttempt{
		attemptAt("s1", "T20", "Nike", wed, 5, 5),
		attemptAt("s2", "IPL", "Nike", fri, 3, 5),
		attemptAt("s3", "Trivia", "Puma", mon, 5, 5),
	}, nil)
	ads.On("GetSingleAd", mock.Anything, entity.SlotIPL).Return(&entity.Ad{ID: "ad-ipl"})

	cache.On("ExistsMany", mock.Anything, []string{
		"reward:scratched:u1:s2", "reward:dismissed:u1:s2",
		"reward:scratched:u1:s3", "reward:dismissed:u1:s3",
	}).Return([]bool{true, false, false, false}, nil)

	svc := NewRewardService(attempts, ads, cache, rewards.Options{Location: time.UTC, MaxFormats: 3})
	cards := svc.RewardCards(context.Background(), "u1")

	require.Len(t, cards, 2)
	assert.Equal(t, "s2", cards[0].Attempt.SlotID)
	assert.True(t, cards[0].Scratched)
	assert.False(t, cards[0].EligibleForPayout)
	require.NotNil(t, cards[0].Ad)
	assert.Equal(t, "ad-ipl", cards[0].Ad.ID)

	assert.Equal(t, "s3", cards[1].Attempt.SlotID)
	assert.Nil(t, cards[1].Ad, "формат без грани куба не ищет рекламу")
	assert.True(t, cards[1].EligibleForPayout)
	ads.AssertNumberOfCalls(t, "GetSingleAd", 1)
}

func TestRewardService_DismissedCardsHidden(t *testing.T) {
	attempts := new(MockAttemptRepository)
	cache := new(MockCacheRepository)
	ts := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	attempts.On("ListByUser", mock.Anything, "u1").Return([]entity.QuizAttempt{attemptAt("s1", "Quiz", "Nike", ts, 1, 5)}, nil)
	cache.On("ExistsMany", mock.Anything, mock.Anything).Return([]bool{false, true}, nil)

	svc := NewRewardService(attempts, new(MockAdLookup), cache, rewards.Options{})
	assert.Empty(t, svc.RewardCards(context.Background(), "u1"))
}

func TestRewardService_HistoryErrorGivesEmpty(t *testing.T) {
	attempts := new(MockAttemptRepository)
	attempts.On("ListByUser", mock.Anything, "u1").Return(nil, errors.New("db down"))

	svc := NewRewardService(attempts, new(MockAdLookup), nil, rewards.Options{})
	cards := svc.RewardCards(context.Background(), "u1")
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestRewardService_ScratchAndDismiss(t *testing.T) {
	cache := new(MockCacheRepository)
	cache.On("Set", mock.Anything, "reward:scratched:u1:s9", "1", time.Duration(0)).Return(nil)
	cache.On("Set", mock.Anything, "reward:dismissed:u1:s9", "1", time.Duration(0)).Return(nil)

	svc := NewRewardService(new(MockAttemptRepository), new(MockAdLookup), cache, rewards.Options{})
	require.NoError(t, svc.Scratch(context.Background(), "u1", "s9"))
	require.NoError(t, svc.Dismiss(context.Background(), "u1", "s9"))
	cache.AssertExpectations(t)

	assert.ErrorIs(t, svc.Scratch(context.Background(), "u1", ""), apperrors.ErrValidation)
}

func TestFormatSlot(t *testing.T) {
	slot, ok := FormatSlot("ipl")
	assert.True(t, ok)
	assert.Equal(t, entity.SlotIPL, slot)
	_, ok = FormatSlot("Q1_Q2")
	assert.False(t, ok)
}
