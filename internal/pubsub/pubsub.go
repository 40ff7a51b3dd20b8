// Package pubsub доставляет уведомления об изменениях между инстансами API.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// ChannelAdsChanged канал уведомлений об изменении коллекции рекламы
const ChannelAdsChanged = "ads:changed"

// subscriberBuffer размер буфера канала подписчика
const subscriberBuffer = 64

// Provider определяет интерфейс для провайдеров публикации/подписки
type Provider interface {
	// Publish публикует сообщение в указанный канал
	Publish(ctx context.Context, channel string, message []byte) error

	// Subscribe подписывается на канал. Канал сообщений закрывается,
	// когда ctx завершён или провайдер закрыт.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)

	// Close закрывает все подписки
	Close() error
}

// AdChange тело уведомления об изменении рекламы
type AdChange struct {
	Action string `json:"action"` // created, updated, toggled, deleted, flush
	AdID   string `json:"ad_id"`
	Slot   string `json:"slot,omitempty"`
	At     int64  `json:"at"`
}

// PublishAdChange сериализует и публикует AdChange
func PublishAdChange(ctx context.Context, p Provider, change AdChange) error {
	if change.At == 0 {
		change.At = time.Now().Unix()
	}
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return p.Publish(ctx, ChannelAdsChanged, data)
}

// NoOpPubSub реализует Provider для одиночного режима работы
type NoOpPubSub struct{}

// Publish ничего не делает
func (NoOpPubSub) Publish(ctx context.Context, channel string, message []byte) error {
	return nil
}

// Subscribe возвращает канал, который закрывается вместе с ctx
func (NoOpPubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

// Close ничего не делает
func (NoOpPubSub) Close() error {
	return nil
}

// RedisPubSub реализует Provider с использованием Redis
type RedisPubSub struct {
	client redis.UniversalClient

	mu     sync.Mutex
	subs   map[*redis.PubSub]struct{}
	closed bool
}

// NewRedisPubSub создает новый Redis Pub/Sub провайдер, используя существующий UniversalClient
func NewRedisPubSub(client redis.UniversalClient) (*RedisPubSub, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil for RedisPubSub")
	}
	return &RedisPubSub{client: client, subs: make(map[*redis.PubSub]struct{})}, nil
}

// Publish публикует сообщение в канал
func (p *RedisPubSub) Publish(ctx context.Context, channel string, message []byte) error {
	receivers, err := p.client.Publish(ctx, channel, message).Result()
	if err != nil {
		log.Error().Err(err).Str("component", "PubSub").Str("channel", channel).Msg("Ошибка публикации")
		return err
	}
	log.Debug().Str("component", "PubSub").Str("channel", channel).Int64("receivers", receivers).Msg("Сообщение опубликовано")
	return nil
}

// Subscribe открывает отдельную подписку Redis для вызывающего
func (p *RedisPubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("pubsub provider is closed")
	}
	p.mu.Unlock()

	sub := p.client.Subscribe(ctx, channel)
	// Ждем подтверждения подписки
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to Redis channel %s: %w", channel, err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = sub.Close()
		return nil, errors.New("pubsub provider is closed")
	}
	p.subs[sub] = struct{}{}
	p.mu.Unlock()

	out := make(chan []byte, subscriberBuffer)
	go func() {
		defer close(out)
		defer p.release(sub)

		src := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					log.Warn().Str("component", "PubSub").Str("channel", channel).Msg("Буфер подписчика заполнен, сообщение отброшено")
				}
			}
		}
	}()

	log.Info().Str("component", "PubSub").Str("channel", channel).Msg("Подписка оформлена")
	return out, nil
}

// release снимает подписку с учёта и закрывает её, если Close ещё не сделал этого
func (p *RedisPubSub) release(sub *redis.PubSub) {
	p.mu.Lock()
	_, tracked := p.subs[sub]
	delete(p.subs, sub)
	p.mu.Unlock()
	if tracked {
		_ = sub.Close()
	}
}

func (p *RedisPubSub) activeSubscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Close закрывает все подписки провайдера
func (p *RedisPubSub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for sub := range p.subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.subs, sub)
	}
	return errors.Join(errs...)
}
