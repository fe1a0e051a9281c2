package handlers

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	ws "github.com/fastcm/shophub-be/internal/websocket"
)

// WebSocketHandler handles upgrading HTTP connections to WebSocket
// connections. Clients on /ws receive global traffic (auth events, board
// stats); clients on /ws/posts/{id} additionally receive that post's live
// like-count updates.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	// Support both /ws and /ws/posts/{id} routes.
	topic := "global"
	if postID := chi.URLParam(r, "id"); postID != "" {
		topic = "post:" + postID
	}

	client := ws.NewClient(h.hub, conn, topic)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a websocket
// client. The notification surface is push-only; clients have nothing to
// ask for beyond their subscription, so any inbound payload is rejected.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	log.Warn().Bytes("message", message).Str("topic", client.Topic).Msg("Unexpected websocket message from client")
	h.hub.SendTo(client, ws.NewErrorMessage("This endpoint does not accept messages"))
}
