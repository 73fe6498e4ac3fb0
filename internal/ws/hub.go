package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/metrics"
)

// Envelope is the typed frame pushed to connected clients.
// Type is the event category ("comment", "like", "notification"),
// Action the transition ("NEW", "EDIT", "DELETE", "UPDATED", "READ", "READ_ALL").
type Envelope struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 45 * time.Second
	sendBufferSize = 16
)

type client struct {
	handle string
	clubs  []string
	conn   *websocket.Conn

	// mu guards closed and every send on the channel, so a disconnect can
	// never race a push into a just-closed channel.
	mu     sync.Mutex
	closed bool
	send   chan Envelope
}

func (c *client) close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// Hub fans envelopes out to live connections, addressed either by a stable
// user handle (email) or by club room. Delivery is fire-and-forget: a slow or
// dead client gets dropped, never blocks the caller.
type Hub struct {
	mu       sync.RWMutex
	byHandle map[string]map[*client]struct{}
	byClub   map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byHandle: make(map[string]map[*client]struct{}),
		byClub:   make(map[string]map[*client]struct{}),
	}
}

// Register attaches an upgraded connection under the user's handle and club
// rooms and starts its read/write pumps. Returns when the connection dies.
func (h *Hub) Register(handle string, clubIDs []string, conn *websocket.Conn) {
	c := &client{
		handle: handle,
		clubs:  clubIDs,
		conn:   conn,
		send:   make(chan Envelope, sendBufferSize),
	}

	h.mu.Lock()
	if h.byHandle[handle] == nil {
		h.byHandle[handle] = make(map[*client]struct{})
	}
	h.byHandle[handle][c] = struct{}{}
	for _, id := range clubIDs {
		if h.byClub[id] == nil {
			h.byClub[id] = make(map[*client]struct{})
		}
		h.byClub[id][c] = struct{}{}
	}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.byHandle[c.handle]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byHandle, c.handle)
		}
	}
	for _, id := range c.clubs {
		if set, ok := h.byClub[id]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.byClub, id)
			}
		}
	}
	h.mu.Unlock()
	c.close()
	_ = c.conn.Close()
}

// readPump discards inbound frames; the channel is push-only. It exists to
// notice closes and to keep the pong handler serviced.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
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

func (h *Hub) deliver(c *client, kind string, env Envelope) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		metrics.WSPushes.WithLabelValues(kind, "dropped").Inc()
		return
	}
	select {
	case c.send <- env:
		c.mu.Unlock()
		metrics.WSPushes.WithLabelValues(kind, "ok").Inc()
	default:
		c.mu.Unlock()
		// client is not draining; drop the frame rather than block the caller
		metrics.WSPushes.WithLabelValues(kind, "dropped").Inc()
		log.L().Warn("ws send buffer full, dropping frame",
			zap.String("handle", c.handle), zap.String("type", env.Type))
	}
}

// SendToUser pushes to every live session of the handle. No-op when offline.
func (h *Hub) SendToUser(handle string, env Envelope) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.byHandle[handle]))
	for c := range h.byHandle[handle] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.deliver(c, "user", env)
	}
}

// BroadcastToClub pushes to every member session currently in the club room.
func (h *Hub) BroadcastToClub(clubID string, env Envelope) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.byClub[clubID]))
	for c := range h.byClub[clubID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.deliver(c, "club", env)
	}
}

// SessionCount reports the number of live sessions for a handle.
func (h *Hub) SessionCount(handle string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byHandle[handle])
}

// ConnectedHandles is a test/diagnostics helper.
func (h *Hub) ConnectedHandles() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.byHandle))
	for handle := range h.byHandle {
		out = append(out, handle)
	}
	return out
}
