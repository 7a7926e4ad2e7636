// Package hub maintains the set of dashboard WebSocket clients and fans
// session events out to them. Slow clients are dropped rather than allowed
// to stall the broadcast.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/teslashibe/go-teleop/internal/log"
)

// Hub broadcasts JSON event payloads to all registered clients.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	mu   sync.RWMutex
	once sync.Once
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Call in a goroutine; returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("dashboard client connected", "hub", h.name, "id", client.id, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("dashboard client disconnected", "hub", h.name, "id", client.id, "remaining", count)

		case payload := <-h.broadcast:
			// Write lock: the slow-client branch mutates the map and
			// ClientCount reads it from handler goroutines.
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client buffer full, drop them
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow dashboard client", "hub", h.name, "id", client.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop terminates the hub loop and closes all client send channels. Safe to
// call more than once.
func (h *Hub) Stop() {
	h.once.Do(func() {
		close(h.quit)
	})
}

// Broadcast queues a payload for all connected clients. Drops the payload
// when the queue is full rather than blocking the caller.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		log.Warn("broadcast queue full, dropping event", "hub", h.name)
	}
}

// BroadcastJSON encodes and broadcasts a JSON payload.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
