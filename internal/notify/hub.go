package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// clientBufferSize is the send buffer size per client.
	clientBufferSize = 16
	// sendTimeout bounds how long a broadcast waits on one slow client.
	sendTimeout = 100 * time.Millisecond
)

// client tracks one websocket connection's lifecycle state.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	close(c.send)
	_ = c.conn.Close()
}

// Hub fans events out to connected websocket clients. Slow or full clients
// drop messages; publishers never block on delivery.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]*client
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = &client{
				conn: conn,
				send: make(chan []byte, clientBufferSize),
				done: make(chan struct{}),
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				c.close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.send <- message:
				case <-time.After(sendTimeout):
					// Client too slow, drop the message.
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for _, c := range h.clients {
				c.close()
			}
			h.clients = make(map[*websocket.Conn]*client)
			h.mu.Unlock()
			return
		}
	}
}

// Publish marshals an event envelope and broadcasts it. Marshal failures and
// a full broadcast queue both drop the event.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) clientFor(conn *websocket.Conn) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[conn]
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every connection and ends the Run loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}
