package repository

import (
	"context"
	"time"
)

// CacheRepository хранит флаги состояния в Redis
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	// ExistsMany возвращает признак существования для каждого ключа в том же порядке
	ExistsMany(ctx context.Context, keys ...string) ([]bool, error)
}
