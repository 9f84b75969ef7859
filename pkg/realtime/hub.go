package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event names pushed to connected terminals.
const (
	EventTaxConfigChanged = "tax_config_changed"
	EventOrderCompleted   = "order_completed"
	EventKOTCreated       = "kot_created"
	EventCatalogChanged   = "catalog_changed"
	EventOrdersReset      = "orders_reset"
	EventCashDrawerReset  = "cash_drawer_reset"
	EventOrderUpdated     = "order_updated"
)

const (
	writeWait = 5 * time.Second

	// frames queued per client before it counts as stalled
	sendBuffer = 32
)

// Message is the JSON frame sent to every client.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// Hub keeps the set of connected websocket clients and fans events out to
// them. Each client has its own writer goroutine, so a slow socket never
// holds the hub lock.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds a connection with the role of the user that opened it and
// starts its writer.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	ok := h.remove(conn)
	h.mutex.Unlock()

	if ok {
		conn.Close()
	}
}

// remove must be called with the lock held
func (h *Hub) remove(conn *websocket.Conn) bool {
	c, ok := h.clients[conn]
	if !ok {
		return false
	}
	delete(h.clients, conn)
	close(c.send)
	return true
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Serve registers conn and blocks reading (and discarding) client frames
// until the peer goes away, then unregisters it.
func (h *Hub) Serve(conn *websocket.Conn, role string) {
	h.Register(conn, role)
	defer h.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn().Err(err).Str("role", c.role).Msg("realtime: dropping client")
			h.Unregister(c.conn)
			return
		}
	}
}

// Broadcast queues an event for every client. Clients whose queue is full
// are dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("realtime: marshal message")
		return
	}

	var stalled []*websocket.Conn
	h.mutex.Lock()
	for conn, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			log.Warn().Str("role", c.role).Msg("realtime: client stalled, dropping")
			h.remove(conn)
			stalled = append(stalled, conn)
		}
	}
	n := len(h.clients)
	h.mutex.Unlock()

	for _, conn := range stalled {
		conn.Close()
	}

	log.Debug().Str("event", event).Int("clients", n).Msg("realtime: broadcast")
}
