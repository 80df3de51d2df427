package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"auction-settlement/internal/infrastructure/websocket"
	"auction-settlement/pkg/logger"

	"github.com/gorilla/mux"
)

type WebSocketHandlers struct {
	wsHandler   *websocket.WebSocketHandler
	connManager *websocket.ConnectionManager
}

func NewWebSocketHandlers(connManager *websocket.ConnectionManager, log logger.Logger) *WebSocketHandlers {
	return &WebSocketHandlers{
		wsHandler:   websocket.NewWebSocketHandler(connManager, log),
		connManager: connManager,
	}
}

func (h *WebSocketHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/notifications", h.HandleConnection).Methods(http.MethodGet)
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}

func (h *WebSocketHandlers) HandleConnection(w http.ResponseWriter, r *http.Request) {
	h.wsHandler.HandleConnection(w, r)
}

func (h *WebSocketHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"service":     "notification-gateway",
		"connections": h.connManager.ConnectionCount(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
