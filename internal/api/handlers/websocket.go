package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	clientBuffer   = 8
)

// MessageTypeSnapshot is the type of every state push
const MessageTypeSnapshot = "snapshot"

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SnapshotSource is the dashboard state the hub streams
type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
	Subscribe() (<-chan dashboard.Snapshot, func())
}

// WebSocketHub fans dashboard snapshots out to connected browsers
type WebSocketHub struct {
	source     SnapshotSource
	clients    map[string]*WebSocketClient
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
	upgrader   websocket.Upgrader
}

// WebSocketClient represents a connected WebSocket client
type WebSocketClient struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

// NewWebSocketHub creates a hub. Run must be started for clients to
// receive updates.
func NewWebSocketHub(source SnapshotSource, allowedOrigins []string, log *logger.Logger) *WebSocketHub {
	if log == nil {
		log = logger.Nop()
	}
	return &WebSocketHub{
		source:     source,
		clients:    make(map[string]*WebSocketClient),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
		done:       make(chan struct{}),
		logger:     log.Component("websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

// checkOrigin accepts same-host requests and the configured origins
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Run pumps snapshots to clients until ctx is done
func (h *WebSocketHub) Run(ctx context.Context) {
	updates, cancel := h.source.Subscribe()
	defer cancel()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.ID] = client
			h.mutex.Unlock()
			metrics.IncWSClients()
			h.logger.With("client_id", client.ID).Info("WebSocket client connected")

		case client := <-h.unregister:
			h.remove(client)

		case snap, ok := <-updates:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast(snap)
		}
	}
}

func (h *WebSocketHub) remove(client *WebSocketClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.send)
	metrics.DecWSClients()
	h.logger.With("client_id", client.ID).Info("WebSocket client disconnected")
}

func (h *WebSocketHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.send)
		metrics.DecWSClients()
	}
}

func (h *WebSocketHub) broadcast(snap dashboard.Snapshot) {
	data, err := encodeSnapshot(snap)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to encode snapshot")
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for _, client := range h.clients {
		offer(client.send, data)
	}
}

// offer queues data, dropping the oldest message when the client is behind.
// Only the newest snapshot matters to a browser.
func offer(ch chan []byte, data []byte) {
	for {
		select {
		case ch <- data:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Clients returns the number of connected clients
func (h *WebSocketHub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleConnection upgrades the request and streams snapshots
func (h *WebSocketHub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &WebSocketClient{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	// The current state goes out first so a fresh page is never blank.
	if data, err := encodeSnapshot(h.source.Snapshot()); err == nil {
		client.send <- data
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

// readPump discards inbound messages and notices disconnects
func (h *WebSocketHub) readPump(client *WebSocketClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.With("client_id", client.ID).WithError(err).Warn("WebSocket read error")
			}
			return
		}
	}
}

func (h *WebSocketHub) writePump(client *WebSocketClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encodeSnapshot(snap dashboard.Snapshot) ([]byte, error) {
	return json.Marshal(WebSocketMessage{
		Type:      MessageTypeSnapshot,
		Data:      snap,
		Timestamp: time.Now().UTC(),
	})
}
