package relay

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Full note snapshots ride
	// through note:update, so this is generous.
	maxMessageSize = 64 * 1024

	// Outbound buffer per client. When it fills the client is skipped at
	// forward time, never waited on.
	sendBufferSize = 256
)

// Client is one websocket connection attached to the relay. The relay
// addresses it only by its opaque server-assigned id; user identity is a
// transport concern and never reaches the relay.
type Client struct {
	id    string
	relay *Relay
	conn  *websocket.Conn
	send  chan []byte
}

// NewClient wraps an upgraded websocket connection. The caller must follow up
// with Relay.Register and Client.Run.
func NewClient(r *Relay, conn *websocket.Conn) *Client {
	return &Client{
		id:    uuid.NewString(),
		relay: r,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
	}
}

// ID returns the server-assigned connection identifier.
func (c *Client) ID() string { return c.id }

// Run starts the read and write pumps. It returns immediately; the pumps own
// the connection from here on.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump forwards inbound frames to the relay loop. On any read error the
// connection is considered gone and the client unregisters exactly once.
func (c *Client) readPump() {
	logCtx := logrus.WithField("conn_id", c.id)
	defer func() {
		c.relay.Unregister(c)
		c.conn.Close()
		logCtx.Debug("read pump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("websocket read error")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if !c.relay.Deliver(c, message) {
			logCtx.Warn("relay queue full, dropping client message")
		}
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	logCtx := logrus.WithField("conn_id", c.id)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logCtx.Debug("write pump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Relay closed the channel during unregister.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logCtx.WithError(err).Warn("failed to write message to websocket")
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

// enqueue hands a marshaled event to the client without blocking. A full
// buffer means the receiver is too slow or already gone; the message is
// silently dropped, as the relay promises at-most-once delivery.
func (c *Client) enqueue(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}
