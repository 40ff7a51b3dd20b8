package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/websocket"
)

// WSHandler подключает админ-панель к хабу событий
type WSHandler struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

// NewWSHandler создает обработчик. Пустой Origin (не браузер) допускается всегда.
func NewWSHandler(hub *websocket.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WSHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				log.Warn().Str("component", "WSHandler").Str("origin", origin).Msg("WebSocket: отклонён origin")
				return false
			},
		},
	}
}

// HandleAdminConnection GET /ws/admin
func (h *WSHandler) HandleAdminConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ
		log.Warn().Err(err).Str("component", "WSHandler").Msg("Не удалось установить WebSocket соединение")
		return
	}
	h.hub.Serve(conn, middleware.UserID(c))
}
