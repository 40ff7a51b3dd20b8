package adcache

import (
	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// Длительности показа по умолчанию, в секундах
const (
	DefaultVideoDuration = 40
	DefaultImageDuration = 10
	skipLead             = 5
	minSkipAfter         = 5
	exceptedSkipAfter    = 20
)

// InterstitialConfig параметры полноэкранного показа между вопросами
type InterstitialConfig struct {
	AdID                  string           `json:"ad_id"`
	CompanyName           string           `json:"company_name"`
	Type                  entity.MediaKind `json:"type"`
	MediaURL              string           `json:"media_url"`
	RedirectURL           string           `json:"redirect_url,omitempty"`
	DurationSeconds       int              `json:"duration_seconds"`
	SkippableAfterSeconds int              `json:"skippable_after_seconds"`
}

// InterstitialPolicy правила длительности показа.
// SkipOverrides задаёт фиксированное время до пропуска для отдельных слотов,
// общая формула к ним не применяется.
type InterstitialPolicy struct {
	VideoDuration int
	ImageDuration int
	SkipOverrides map[entity.AdSlot]int
}

// DefaultInterstitialPolicy политика по умолчанию: Q3_Q4 и Q4_Q5 пропускаются через 20 секунд
func DefaultInterstitialPolicy() InterstitialPolicy {
	return InterstitialPolicy{
		VideoDuration: DefaultVideoDuration,
		ImageDuration: DefaultImageDuration,
		SkipOverrides: map[entity.AdSlot]int{
			entity.SlotQ3Q4: exceptedSkipAfter,
			entity.SlotQ4Q5: exceptedSkipAfter,
		},
	}
}

// NewInterstitialPolicy строит политику со списком слотов-исключений.
// Пустой список означает исключения по умолчанию.
func NewInterstitialPolicy(exceptedSlots []entity.AdSlot) InterstitialPolicy {
	p := DefaultInterstitialPolicy()
	if len(exceptedSlots) == 0 {
		return p
	}
	p.SkipOverrides = make(map[entity.AdSlot]int, len(exceptedSlots))
	for _, slot := range exceptedSlots {
		if slot.Valid() {
			p.SkipOverrides[slot] = exceptedSkipAfter
		}
	}
	return p
}

// Interstitial выводит конфигурацию показа для рекламы.
// nil реклама даёт nil.
func (p InterstitialPolicy) Interstitial(ad *entity.Ad) *InterstitialConfig {
	if ad == nil {
		return nil
	}

	kind := entity.MediaImage
	duration := p.ImageDuration
	if ad.IsVideo() {
		kind = entity.MediaVideo
		duration = p.VideoDuration
	}

	skip, overridden := p.SkipOverrides[ad.Slot]
	if !overridden {
		skip = duration - skipLead
		if skip < minSkipAfter {
			skip = minSkipAfter
		}
	}

	return &InterstitialConfig{
		AdID:                  ad.ID,
		CompanyName:           ad.CompanyName,
		Type:                  kind,
		MediaURL:              ad.MediaURL,
		RedirectURL:           ad.RedirectURL,
		DurationSeconds:       duration,
		SkippableAfterSeconds: skip,
	}
}
