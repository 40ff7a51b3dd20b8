package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/domain/repository"
	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
	"github.com/yourusername/indcric-api/internal/pubsub"
	"github.com/yourusername/indcric-api/internal/service/adcache"
	"github.com/yourusername/indcric-api/internal/storage"
	"github.com/yourusername/indcric-api/pkg/metrics"
)

// allowedMediaExts допустимые расширения и соответствующий тип креатива
var allowedMediaExts = map[string]entity.MediaKind{
	".jpg":  entity.MediaImage,
	".jpeg": entity.MediaImage,
	".png":  entity.MediaImage,
	".webp": entity.MediaImage,
	".gif":  entity.MediaImage,
	".mp4":  entity.MediaVideo,
	".webm": entity.MediaVideo,
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// AdInput поля рекламы, задаваемые администратором
type AdInput struct {
	CompanyName string
	Slot        entity.AdSlot
	MediaKind   entity.MediaKind
	MediaURL    string
	RedirectURL string
	Revenue     float64
}

// AdPatch частичное изменение рекламы. nil поле не меняется.
type AdPatch struct {
	CompanyName *string
	Slot        *entity.AdSlot
	MediaKind   *entity.MediaKind
	MediaURL    *string
	RedirectURL *string
	Revenue     *float64
	IsActive    *bool
}

// AdService управляет рекламой: админские операции, выдача по слотам и учёт событий
type AdService struct {
	repo    repository.AdRepository
	cache   *adcache.Cache
	policy  adcache.InterstitialPolicy
	store   storage.Storage
	pubsub  pubsub.Provider
	metrics *metrics.Metrics
	now     func() time.Time
	logger  zerolog.Logger
}

// NewAdService создаёт сервис рекламы. pubsub и metrics могут быть nil.
func NewAdService(
	repo repository.AdRepository,
	cache *adcache.Cache,
	policy adcache.InterstitialPolicy,
	store storage.Storage,
	ps pubsub.Provider,
	m *metrics.Metrics,
) *AdService {
	if ps == nil {
		ps = pubsub.NoOpPubSub{}
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &AdService{
		repo:    repo,
		cache:   cache,
		policy:  policy,
		store:   store,
		pubsub:  ps,
		metrics: m,
		now:     time.Now,
		logger:  log.With().Str("component", "AdService").Logger(),
	}
}

// MediaKindForFile возвращает тип креатива по имени файла
func MediaKindForFile(name string) (entity.MediaKind, bool) {
	kind, ok := allowedMediaExts[strings.ToLower(filepath.Ext(name))]
	return kind, ok
}

// UploadMedia сохраняет файл креатива и возвращает его URL.
// Ключ имеет вид ads/<slot>/<company>_<unixnano>.<ext>.
func (s *AdService) UploadMedia(ctx context.Context, filename string, r io.Reader, slot entity.AdSlot, company string) (string, entity.MediaKind, error) {
	if !slot.Valid() {
		return "", "", ErrInvalidSlot
	}
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := allowedMediaExts[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}

	safeCompany := strings.Trim(unsafeKeyChars.ReplaceAllString(strings.TrimSpace(company), "_"), "_")
	if safeCompany == "" {
		safeCompany = "ad"
	}
	key := fmt.Sprintf("ads/%s/%s_%d%s", slot, safeCompany, s.now().UnixNano(), ext)

	url, err := s.store.Save(ctx, key, r, storage.ContentType(filename))
	if err != nil {
		return "", "", fmt.Errorf("не удалось сохранить медиафайл: %w", err)
	}
	s.logger.Info().Str("key", key).Str("kind", string(kind)).Msg("Загружен медиафайл рекламы")
	return url, kind, nil
}

// CreateAd создаёт активную рекламу с нулевыми счётчиками
func (s *AdService) CreateAd(ctx context.Context, in AdInput) (*entity.Ad, error) {
	if err := validateAdInput(in); err != nil {
		return nil, err
	}
	ad := &entity.Ad{
		CompanyName: strings.TrimSpace(in.CompanyName),
		Slot:        in.Slot,
		MediaKind:   in.MediaKind,
		MediaURL:    strings.TrimSpace(in.MediaURL),
		RedirectURL: strings.TrimSpace(in.RedirectURL),
		Revenue:     in.Revenue,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, fmt.Errorf("не удалось создать рекламу: %w", err)
	}

	s.changed(ctx, "created", ad.ID, ad.Slot)
	s.logger.Info().Str("ad_id", ad.ID).Str("slot", string(ad.Slot)).Str("company", ad.CompanyName).Msg("Создана реклама")
	return ad, nil
}

// UpdateAd применяет частичное изменение. Сбрасываются и старый, и новый слот.
func (s *AdService) UpdateAd(ctx context.Context, id string, patch AdPatch) (*entity.Ad, error) {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlot := ad.Slot

	if patch.CompanyName != nil {
		ad.CompanyName = strings.TrimSpace(*patch.CompanyName)
	}
	if patch.Slot != nil {
		ad.Slot = *patch.Slot
	}
	if patch.MediaKind != nil {
		ad.MediaKind = *patch.MediaKind
	}
	if patch.MediaURL != nil {
		ad.MediaURL = strings.TrimSpace(*patch.MediaURL)
	}
	if patch.RedirectURL != nil {
		ad.RedirectURL = strings.TrimSpace(*patch.RedirectURL)
	}
	if patch.Revenue != nil {
		ad.Revenue = *patch.Revenue
	}
	if patch.IsActive != nil {
		ad.IsActive = *patch.IsActive
	}

	if err := validateAdInput(AdInput{
		CompanyName: ad.CompanyName,
		Slot:        ad.Slot,
		MediaKind:   ad.MediaKind,
		MediaURL:    ad.MediaURL,
		Revenue:     ad.Revenue,
	}); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, fmt.Errorf("не удалось обновить рекламу: %w", err)
	}

	if oldSlot != ad.Slot {
		s.cache.Invalidate(oldSlot)
	}
	s.changed(ctx, "updated", ad.ID, ad.Slot)
	return ad, nil
}

// SetActive включает или выключает рекламу
func (s *AdService) SetActive(ctx context.Context, id string, active bool) error {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("не удалось изменить статус рекламы: %w", err)
	}
	s.changed(ctx, "toggled", id, ad.Slot)
	return nil
}

// DeleteAd удаляет рекламу вместе с журналом событий и медиафайлом
func (s *AdService) DeleteAd(ctx context.Context, id string) error {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("не удалось удалить рекламу: %w", err)
	}
	storage.DeleteByURL(ctx, s.store, ad.MediaURL)

	s.changed(ctx, "deleted", id, ad.Slot)
	s.logger.Info().Str("ad_id", id).Msg("Удалена реклама")
	return nil
}

// ListAll возвращает всю рекламу для админки
func (s *AdService) ListAll(ctx context.Context) ([]entity.Ad, error) {
	return s.repo.List(ctx)
}

// ListActive возвращает активную рекламу всех слотов
func (s *AdService) ListActive(ctx context.Context) ([]entity.Ad, error) {
	return s.repo.ListActive(ctx)
}

// GetAdsBySlot возвращает активную рекламу слота через кеш
func (s *AdService) GetAdsBySlot(ctx context.Context, slot entity.AdSlot) []entity.Ad {
	return s.cache.GetAds(ctx, slot)
}

// GetSingleAd возвращает первую рекламу слота или nil
func (s *AdService) GetSingleAd(ctx context.Context, slot entity.AdSlot) *entity.Ad {
	return s.cache.GetSingleAd(ctx, slot)
}

// GetInterstitial возвращает конфигурацию межвопросного показа или nil
func (s *AdService) GetInterstitial(ctx context.Context, slot entity.AdSlot) *adcache.InterstitialConfig {
	return s.policy.Interstitial(s.cache.GetSingleAd(ctx, slot))
}

// LogView учитывает показ рекламы
func (s *AdService) LogView(ctx context.Context, adID, userID string) error {
	return s.logEvent(ctx, adID, userID, entity.AdEventView)
}

// LogClick учитывает клик по рекламе
func (s *AdService) LogClick(ctx context.Context, adID, userID string) error {
	return s.logEvent(ctx, adID, userID, entity.AdEventClick)
}

func (s *AdService) logEvent(ctx context.Context, adID, userID string, eventType entity.AdEventType) error {
	adID, userID = strings.TrimSpace(adID), strings.TrimSpace(userID)
	if adID == "" || userID == "" {
		s.logger.Warn().Str("event", string(eventType)).Str("ad_id", adID).Str("user_id", userID).
			Msg("Событие рекламы без идентификатора пропущено")
		return nil
	}

	event := &entity.AdEvent{
		AdID:       adID,
		UserID:     userID,
		EventType:  eventType,
		OccurredAt: s.now().UTC(),
	}
	// Slot и CompanyName копируются в журнал
	if ad, err := s.repo.GetByID(ctx, adID); err == nil {
		event.Slot = ad.Slot
		event.CompanyName = ad.CompanyName
	} else if isNotFound(err) {
		return err
	}

	if err := s.repo.RecordEvent(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event", string(eventType)).Str("ad_id", adID).Msg("Не удалось записать событие рекламы")
		return err
	}
	s.metrics.AdEvents.WithLabelValues(string(eventType)).Inc()
	return nil
}

// Analytics возвращает сводку. При ошибке хранилища возвращается нулевая сводка.
func (s *AdService) Analytics(ctx context.Context) *entity.AdAnalytics {
	a, err := s.repo.Analytics(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Не удалось получить аналитику рекламы")
		return &entity.AdAnalytics{}
	}
	return a
}

// ViewLogs возвращает журнал показов рекламы
func (s *AdService) ViewLogs(ctx context.Context, adID string) ([]entity.AdEvent, error) {
	return s.repo.ListEvents(ctx, adID, entity.AdEventView)
}

// ClickLogs возвращает журнал кликов рекламы
func (s *AdService) ClickLogs(ctx context.Context, adID string) ([]entity.AdEvent, error) {
	return s.repo.ListEvents(ctx, adID, entity.AdEventClick)
}

// changed сбрасывает слот локально и уведомляет остальные инстансы
func (s *AdService) changed(ctx context.Context, action, adID string, slot entity.AdSlot) {
	s.cache.Invalidate(slot)
	if err := pubsub.PublishAdChange(ctx, s.pubsub, pubsub.AdChange{
		Action: action,
		AdID:   adID,
		Slot:   string(slot),
		At:     s.now().Unix(),
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("Не удалось опубликовать изменение рекламы")
	}
}

func validateAdInput(in AdInput) error {
	if strings.TrimSpace(in.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
	}
	if !in.Slot.Valid() {
		return ErrInvalidSlot
	}
	if !in.MediaKind.Valid() {
		return fmt.Errorf("%w: ad_type must be image or video", apperrors.ErrValidation)
	}
	if strings.TrimSpace(in.MediaURL) == "" {
		return fmt.Errorf("%w: media url is required", apperrors.ErrValidation)
	}
	if in.Revenue < 0 {
		return fmt.Errorf("%w: revenue must not be negative", apperrors.ErrValidation)
	}
	return nil
}
