package handler

import (
	"net/http"

	wsInfra "github.com/dreschagin/prompt-server/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/prompt-server/pkg/logger"
	"github.com/gorilla/websocket"
)

// WebSocketHandler подключает клиентов к ленте изменений промптов
type WebSocketHandler struct {
	hub      *wsInfra.Hub
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler создает новый handler
func NewWebSocketHandler(hub *wsInfra.Hub, logger *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS открыт для всех источников, лента только читает события
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleConnection обрабатывает новое WebSocket соединение
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", err)
		return
	}

	client := wsInfra.NewClient(h.hub, conn, h.logger)
	h.hub.Register(client)
	h.logger.Debug("WebSocket client connected", "client_id", client.ID())

	// Запускаем pumps в отдельных goroutines
	go client.WritePump()
	go client.ReadPump()
}
