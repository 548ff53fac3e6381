// Package websocket upgrades HTTP requests and hands the connections to the
// relay.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/relay"
)

// WebSocketHandler upgrades authenticated clients onto the relay. There is no
// room in the URL: the client picks its note by sending join-note events over
// the socket, so one connection can move between notes without reconnecting.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	relay    *relay.Relay
}

func NewWebSocketHandler(r *relay.Relay) *WebSocketHandler {
	if r == nil {
		panic("Relay cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// TODO: restrict origins once the frontend domain is fixed.
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &WebSocketHandler{
		upgrader: upgrader,
		relay:    r,
	}
}

// HandleConnection handles GET /ws. The auth middleware has already verified
// the token; past this point identity plays no part in relaying.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	logCtx := logrus.WithField("user_id", userIDAny)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}

	client := relay.NewClient(h.relay, conn)
	logCtx = logCtx.WithField("conn_id", client.ID())

	if !h.relay.Register(client) {
		logCtx.Error("WS Handler: relay queue full, rejecting connection")
		conn.Close()
		return
	}

	client.Run()
	logCtx.Info("WS Handler: connection attached to relay")
}
