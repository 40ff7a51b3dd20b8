package adcache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/pubsub"
)

const resubscribeDelay = 2 * time.Second

// Invalidator очищает кеш целиком
type Invalidator interface {
	InvalidateAll()
}

// Watch подписывается на канал изменений рекламы и очищает кеш на каждое сообщение.
// notify, если задан, получает тело сообщения после очистки.
// Блокируется до завершения ctx; при обрыве подписки переподключается.
func Watch(ctx context.Context, provider pubsub.Provider, cache Invalidator, notify func([]byte)) {
	for {
		ch, err := provider.Subscribe(ctx, pubsub.ChannelAdsChanged)
		if err != nil {
			log.Error().Err(err).Str("component", "AdCacheWatcher").Msg("Не удалось подписаться на изменения рекламы")
		} else {
			for msg := range ch {
				cache.InvalidateAll()
				log.Debug().Str("component", "AdCacheWatcher").Msg("Кеш рекламы очищен по уведомлению")
				if notify != nil {
					notify(msg)
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
			// Подписка оборвалась, а ctx ещё жив: подписываемся снова
		}
	}
}
