package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MaxClients bounds concurrent websocket connections.
const MaxClients = 256

// Message is the websocket envelope.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans snapshots out to websocket clients.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]struct{}
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{} // closed when Run returns

	upgrader websocket.Upgrader
	metrics  *Metrics
}

// NewHub creates a hub accepting upgrades from the given origins.
// Requests without an Origin header are accepted; "*" accepts any origin.
func NewHub(origins []string, metrics *Metrics) *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		metrics:    metrics,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowedOrigin(origin, origins) {
				return true
			}
			slog.Warn("websocket_origin_rejected", "origin", origin)
			h.recordRejected("origin")
			return false
		},
	}
	return h
}

func allowedOrigin(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			h.setClients(0)
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.setClients(n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.setClients(n)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.setClients(n)
		}
	}
}

// Broadcast queues an event for every client. Events are dropped when the
// queue is full.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		slog.Error("failed to encode websocket message", "event", event, "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the latest snapshot every interval while clients
// are connected. Unchanged ticks are not resent.
func (h *Hub) StartBroadcastLoop(ctx context.Context, src Source, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		lastTick := int32(-1)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			s := src.Snapshot()
			if s == nil || s.Tick == lastTick {
				continue
			}
			lastTick = s.Tick
			h.Broadcast("snapshot", s)
		}
	}()
}

// HandleWebSocket upgrades the request and registers the connection.
// Incoming messages are read and discarded until the client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= MaxClients {
		h.recordRejected("ws_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) setClients(n int) {
	if h.metrics != nil {
		h.metrics.setClients(n)
	}
}

func (h *Hub) recordRejected(reason string) {
	if h.metrics != nil {
		h.metrics.recordRejected(reason)
	}
}
