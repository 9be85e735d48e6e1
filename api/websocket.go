// Package api provides the HTTP surface and the websocket notification bus
// for the catalog service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"catalog/core"
	"catalog/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket configuration constants
const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum message size allowed from peer.
	maxMessageSize = 512

	// sendChannelSize is the per-client buffer for non-blocking sends.
	sendChannelSize = 256

	// productsTopic is the single broadcast topic carrying catalog changes.
	productsTopic = "products"
)

// WebSocketMessage is the envelope for every broadcast frame.
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// client represents a single WebSocket subscriber connection.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active subscribers and fans catalog change events
// out to all of them. Delivery is at-most-once: a subscriber that is not
// connected when an event fires never sees it, and a slow subscriber is
// disconnected rather than allowed to block the broadcast.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu     sync.RWMutex
	logger *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already validated by corsMiddleware
		return true
	},
}

// NewHub creates a new websocket hub. The hub must be started with Start()
// before use; Stop() shuts it down even if the parent context never cancels.
func NewHub(logger *zap.SugaredLogger, ctx context.Context) *Hub {
	hubCtx, cancel := context.WithCancel(ctx)
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
		ctx:        hubCtx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Start runs the hub's main event loop. Must be called exactly once per Hub
// instance, in its own goroutine.
func (h *Hub) Start() {
	defer close(h.done)

	h.logger.Info("WebSocket hub started")

	for {
		select {
		case <-h.ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				client.conn.Close()
			}
			h.clients = make(map[*client]bool)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(0)
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WebsocketClients.Inc()
			h.logger.Debugw("WebSocket client registered",
				"total_clients", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.mu.Unlock()
				metrics.WebsocketClients.Dec()
				h.logger.Debugw("WebSocket client unregistered",
					"total_clients", h.ClientCount())
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Send buffer full: disconnect the slow client so it
					// cannot block broadcasts to everyone else.
					go func(disconnectClient *client) {
						h.unregister <- disconnectClient
						disconnectClient.conn.Close()
					}(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast enqueues one catalog change event for delivery to all currently
// connected subscribers. Fire-and-forget: the caller is never blocked on
// delivery and failures are logged, not returned.
func (h *Hub) Broadcast(event core.ChangeEvent) {
	msg := WebSocketMessage{
		Type:      productsTopic,
		Data:      event,
		Timestamp: time.Now(),
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorw("Failed to marshal change event", "action", event.Action, "error", err)
		return
	}

	select {
	case h.broadcast <- jsonData:
	case <-time.After(1 * time.Second):
		h.logger.Warnw("WebSocket broadcast timeout", "action", event.Action)
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop gracefully shuts down the hub and waits for its goroutine to finish.
func (h *Hub) Stop() {
	h.cancel()
	<-h.done
}

// readPump pumps messages from the connection to the hub. Subscribers never
// send application messages; reading only detects disconnection.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debugw("WebSocket unexpected close", "error", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the connection, with a ping/pong
// heartbeat for connection health.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued messages into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// serveWs upgrades the request and registers the new subscriber.
func serveWs(hub *Hub, logger *zap.SugaredLogger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorw("WebSocket upgrade failed", "error", err)
		return
	}

	client := &client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendChannelSize),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
