package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время ожидания следующего pong от клиента.
	pongWait = 30 * time.Second

	// Периодичность отправки ping. Должна быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Админ-панель ничего не шлёт, кроме служебных кадров
	maxMessageSize = 512

	clientBufferSize = 64
)

// Client соединение одного администратора
type Client struct {
	UserID       string
	ConnectionID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	connID := uuid.NewString()
	return &Client{
		UserID:       userID,
		ConnectionID: connID,
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, clientBufferSize),
		log: log.With().
			Str("component", "WSClient").
			Str("user_id", userID).
			Str("conn_id", connID).
			Logger(),
	}
}

// readPump читает кадры только ради ping/pong и обнаружения закрытия
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("Ошибка чтения WebSocket")
			}
			return
		}
	}
}

// writePump отправляет сообщения из канала send и периодический ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// хаб закрыл канал
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug().Err(err).Msg("Ошибка записи WebSocket")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
