// Package websocket рассылает админ-панели события об изменениях рекламы и метриках.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Типы событий
const (
	EventAdsChanged = "ads_changed"
	EventMetrics    = "metrics"
)

// Event конверт исходящего сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub хранит подключённых клиентов и рассылает им события
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	// done закрывается, когда Run завершился
	done chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}

	log zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		log:        log.With().Str("component", "WSHub").Logger(),
	}
}

// Run обслуживает хаб до отмены ctx. При выходе все соединения закрываются.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Info().Str("user_id", c.UserID).Int("clients", h.ClientCount()).Msg("Клиент подключён")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// медленный клиент отключается
					h.log.Warn().Str("user_id", c.UserID).Msg("Буфер клиента переполнен, отключаем")
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Serve регистрирует соединение и запускает его насосы.
// После остановки хаба соединение сразу закрывается.
func (h *Hub) Serve(conn *websocket.Conn, userID string) {
	c := newClient(h, conn, userID)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// Broadcast ставит событие в очередь рассылки. Если очередь заполнена, событие теряется.
func (h *Hub) Broadcast(eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("type", eventType).Msg("Очередь рассылки заполнена, событие пропущено")
	}
	return nil
}

// NotifyAdsChanged пересылает сырое сообщение канала ads:changed
func (h *Hub) NotifyAdsChanged(raw []byte) {
	if err := h.Broadcast(EventAdsChanged, json.RawMessage(raw)); err != nil {
		h.log.Warn().Err(err).Msg("Не удалось разослать ads_changed")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
