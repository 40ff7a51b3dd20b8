package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdSlot это именованная позиция показа рекламы
type AdSlot string

// Грани куба на главной странице (по одной на формат крикета)
const (
	SlotT20   AdSlot = "T20"
	SlotIPL   AdSlot = "IPL"
	SlotODI   AdSlot = "ODI"
	SlotWPL   AdSlot = "WPL"
	SlotTest  AdSlot = "Test"
	SlotMixed AdSlot = "Mixed"
)

// Позиции внутри викторины: между вопросами и после последнего
const (
	SlotQ1Q2      AdSlot = "Q1_Q2"
	SlotQ2Q3      AdSlot = "Q2_Q3"
	SlotQ3Q4      AdSlot = "Q3_Q4"
	SlotQ4Q5      AdSlot = "Q4_Q5"
	SlotAfterQuiz AdSlot = "AfterQuiz"
)

var cubeSlots = []AdSlot{SlotT20, SlotIPL, SlotODI, SlotWPL, SlotTest, SlotMixed}

var inQuizSlots = []AdSlot{SlotQ1Q2, SlotQ2Q3, SlotQ3Q4, SlotQ4Q5, SlotAfterQuiz}

// CubeSlots возвращает слоты граней куба
func CubeSlots() []AdSlot {
	return append([]AdSlot(nil), cubeSlots...)
}

// InQuizSlots возвращает слоты внутри викторины
func InQuizSlots() []AdSlot {
	return append([]AdSlot(nil), inQuizSlots...)
}

// AllSlots возвращает полный фиксированный набор слотов
func AllSlots() []AdSlot {
	return append(CubeSlots(), inQuizSlots...)
}

// ParseAdSlot проверяет строку (например, параметр маршрута) на принадлежность набору слотов.
// Сравнение точное: "t20" слотом не является.
func ParseAdSlot(raw string) (AdSlot, bool) {
	slot := AdSlot(strings.TrimSpace(raw))
	if slot.Valid() {
		return slot, true
	}
	return "", false
}

// Valid сообщает, входит ли слот в фиксированный набор
func (s AdSlot) Valid() bool {
	for _, known := range cubeSlots {
		if s == known {
			return true
		}
	}
	for _, known := range inQuizSlots {
		if s == known {
			return true
		}
	}
	return false
}

// IsCubeFace сообщает, является ли слот гранью куба
func (s AdSlot) IsCubeFace() bool {
	for _, known := range cubeSlots {
		if s == known {
			return true
		}
	}
	return false
}

// MediaKind тип креатива
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Valid проверяет тип креатива
func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

// Ad представляет рекламный креатив спонсора, привязанный к одному слоту
type Ad struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName string    `gorm:"size:100;not null" json:"company_name"`
	Slot        AdSlot    `gorm:"column:ad_slot;size:16;not null;index:idx_ads_slot_active" json:"ad_slot"`
	MediaKind   MediaKind `gorm:"column:ad_type;size:16;not null;default:'image'" json:"ad_type"`
	MediaURL    string    `gorm:"size:1024;not null" json:"media_url"`
	RedirectURL string    `gorm:"size:1024;not null;default:''" json:"redirect_url"`
	Revenue     float64   `gorm:"not null;default:0" json:"revenue"`
	// Счётчики меняются только атомарным инкрементом в репозитории
	ViewCount  int64     `gorm:"not null;default:0" json:"view_count"`
	ClickCount int64     `gorm:"not null;default:0" json:"click_count"`
	IsActive   bool      `gorm:"not null;default:true;index:idx_ads_slot_active" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName возвращает имя таблицы
func (Ad) TableName() string {
	return "ads"
}

// BeforeCreate назначает идентификатор новой записи
func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsVideo проверяет, является ли реклама видео.
// Часть старых записей помечена как image, хотя ссылается на .mp4.
func (a *Ad) IsVideo() bool {
	return a.MediaKind == MediaVideo || strings.Contains(strings.ToLower(a.MediaURL), ".mp4")
}

// AdEventType тип события показа/клика
type AdEventType string

const (
	AdEventView  AdEventType = "view"
	AdEventClick AdEventType = "click"
)

// AdEvent журнал показов и кликов
type AdEvent struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	AdID        string      `gorm:"type:uuid;not null;index" json:"ad_id"`
	UserID      string      `gorm:"size:128;not null;index" json:"user_id"`
	EventType   AdEventType `gorm:"size:8;not null;index" json:"event_type"`
	Slot        AdSlot      `gorm:"column:ad_slot;size:16;not null" json:"ad_slot"`
	CompanyName string      `gorm:"size:100;not null" json:"company_name"`
	OccurredAt  time.Time   `gorm:"not null" json:"occurred_at"`
}

// TableName возвращает имя таблицы
func (AdEvent) TableName() string {
	return "ad_events"
}

// BeforeCreate назначает идентификатор
func (e *AdEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// AdAnalytics сводка по рекламе для админки
type AdAnalytics struct {
	TotalAds     int64   `json:"total_ads"`
	ActiveAds    int64   `json:"active_ads"`
	TotalViews   int64   `json:"total_views"`
	TotalClicks  int64   `json:"total_clicks"`
	TotalRevenue float64 `json:"total_revenue"`
}
