// Package metrics содержит счётчики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "indcric"

// Значения метки result для AdCacheRequests
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheError   = "error"
	CacheInvalid = "invalid"
)

// Metrics хранит метрики сервиса
type Metrics struct {
	AdCacheRequests  *prometheus.CounterVec
	AdCacheEvictions *prometheus.CounterVec
	AdEvents         *prometheus.CounterVec
	PaymentRequests  *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New регистрирует метрики в reg. nil означает глобальный регистр по умолчанию.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AdCacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ad_cache",
				Name:      "requests_total",
				Help:      "Ad slot cache lookups by result",
			},
			[]string{"result"},
		),
		AdCacheEvictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ad_cache",
				Name:      "invalidations_total",
				Help:      "Ad slot cache invalidations by scope",
			},
			[]string{"scope"}, // slot или all
		),
		AdEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ad_events_total",
				Help:      "Recorded ad views and clicks",
			},
			[]string{"type"},
		),
		PaymentRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_requests_total",
				Help:      "Payment request transitions by status",
			},
			[]string{"status"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Noop возвращает метрики, зарегистрированные в отдельном регистре (для тестов и CLI)
func Noop() *Metrics {
	return New(prometheus.NewRegistry())
}
