package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Avzolem/yugioh-server/internal/middleware"
	"github.com/Avzolem/yugioh-server/internal/observability"
	"github.com/Avzolem/yugioh-server/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cookie auth runs before the upgrade; same-origin policy is
		// enforced by the session, not the Origin header
		return true
	},
}

// WebSocketHandler upgrades authenticated connections into the hub
type WebSocketHandler struct {
	hub *services.WebSocketHub
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *services.WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Connect upgrades the request and pumps update events to the client
func (h *WebSocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		observability.WithContext(r.Context()).Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	client := h.hub.NewClient(uuid.New().String(), user.ID, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.onMessage)
}

// onMessage answers client pings; everything else is ignored
func (h *WebSocketHandler) onMessage(client *services.WSClient, messageType int, data []byte) {
	var msg services.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	if msg.Type == services.WSTypePing {
		payload, _ := json.Marshal(services.WSMessage{Type: services.WSTypePong})
		select {
		case client.Send <- payload:
		default:
		}
	}
}
