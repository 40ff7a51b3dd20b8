// Package adcache хранит активную рекламу по слотам с ограниченным временем жизни.
package adcache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/pkg/metrics"
)

// DefaultTTL время жизни записи кеша
const DefaultTTL = 5 * time.Minute

// Fetcher загружает активную рекламу слота из хранилища
type Fetcher interface {
	ListActiveBySlot(ctx context.Context, slot entity.AdSlot) ([]entity.Ad, error)
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// ClockFunc адаптирует функцию к Clock
type ClockFunc func() time.Time

// Now реализует Clock
func (f ClockFunc) Now() time.Time { return f() }

type entry struct {
	ads       []entity.Ad
	fetchedAt time.Time
}

// Cache кеш рекламы по слотам.
// Записи разных слотов независимы. При одновременном промахе по одному слоту
// возможны два запроса к хранилищу, последний записавший побеждает.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	clock   Clock
	metrics *metrics.Metrics

	mu      sync.RWMutex
	entries map[entity.AdSlot]entry
}

// Option настраивает Cache
type Option func(*Cache)

// WithClock подменяет источник времени
func WithClock(c Clock) Option {
	return func(cache *Cache) {
		if c != nil {
			cache.clock = c
		}
	}
}

// WithMetrics включает счётчики Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(cache *Cache) {
		cache.metrics = m
	}
}

// New создаёт кеш. ttl <= 0 заменяется на DefaultTTL.
func New(fetcher Fetcher, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		clock:   ClockFunc(time.Now),
		entries: make(map[entity.AdSlot]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL возвращает время жизни записей
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetAds возвращает активную рекламу слота.
// Невалидный слот даёт пустой список без обращения к хранилищу.
// Ошибка хранилища логируется и даёт пустой список; в кеш она не попадает.
func (c *Cache) GetAds(ctx context.Context, slot entity.AdSlot) []entity.Ad {
	if !slot.Valid() {
		c.count(metrics.CacheInvalid)
		return []entity.Ad{}
	}

	now := c.clock.Now()

	c.mu.RLock()
	e, ok := c.entries[slot]
	c.mu.RUnlock()
	if ok && now.Sub(e.fetchedAt) < c.ttl {
		c.count(metrics.CacheHit)
		return cloneAds(e.ads)
	}

	c.count(metrics.CacheMiss)
	ads, err := c.fetcher.ListActiveBySlot(ctx, slot)
	if err != nil {
		c.count(metrics.CacheError)
		log.Error().Err(err).Str("component", "AdCache").Str("slot", string(slot)).Msg("Ошибка загрузки рекламы слота")
		return []entity.Ad{}
	}
	if ads == nil {
		ads = []entity.Ad{}
	}

	c.mu.Lock()
	c.entries[slot] = entry{ads: cloneAds(ads), fetchedAt: now}
	c.mu.Unlock()

	log.Debug().Str("component", "AdCache").Str("slot", string(slot)).Int("ads", len(ads)).Msg("Слот загружен в кеш")
	return ads
}

// GetSingleAd возвращает первую активную рекламу слота или nil
func (c *Cache) GetSingleAd(ctx context.Context, slot entity.AdSlot) *entity.Ad {
	ads := c.GetAds(ctx, slot)
	if len(ads) == 0 {
		return nil
	}
	ad := ads[0]
	return &ad
}

// Invalidate удаляет запись слота
func (c *Cache) Invalidate(slot entity.AdSlot) {
	c.mu.Lock()
	delete(c.entries, slot)
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.AdCacheEvictions.WithLabelValues("slot").Inc()
	}
}

// InvalidateAll очищает кеш полностью
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[entity.AdSlot]entry)
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.AdCacheEvictions.WithLabelValues("all").Inc()
	}
}

// Len возвращает число записей (включая истёкшие)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) count(result string) {
	if c.metrics != nil {
		c.metrics.AdCacheRequests.WithLabelValues(result).Inc()
	}
}

func cloneAds(ads []entity.Ad) []entity.Ad {
	out := make([]entity.Ad, len(ads))
	copy(out, ads)
	return out
}
