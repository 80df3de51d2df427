package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-settlement/internal/infrastructure/websocket"
	"auction-settlement/pkg/logger"

	"github.com/gorilla/mux"
)

func TestGatewayRoutes(t *testing.T) {
	router := mux.NewRouter()
	NewWebSocketHandlers(websocket.NewConnectionManager(logger.NewNop()), logger.NewNop()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["connections"] != float64(0) {
		t.Errorf("unexpected health body %v", body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/notifications", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user_id, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ws/notifications", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
