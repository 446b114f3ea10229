package chat

import (
	"log/slog"
	"net"
	"sync"
)

// Client represents one connected chat peer.
type Client struct {
	ID   string
	Addr string
	Conn net.Conn
}

// Registry owns the set of live clients. Add, Remove and Broadcast are
// atomic with respect to each other; handler goroutines never touch the
// map directly.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty client registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Add registers a client.
func (r *Registry) Add(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[client.ID] = client
	slog.Info("Client connected", "addr", client.Addr, "total_clients", len(r.clients))
}

// Remove unregisters a client and closes its connection. Removing an
// unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[id]; ok {
		delete(r.clients, id)
		client.Conn.Close()
		slog.Info("Client disconnected", "addr", client.Addr, "total_clients", len(r.clients))
	}
}

// Broadcast delivers to every client except the sender. A delivery
// failure drops that client within the same pass; broadcast is
// best-effort, so the failure is logged rather than returned. Holding the
// lock for the whole pass also serializes writes to each connection.
func (r *Registry) Broadcast(senderID string, deliver func(*Client) error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, client := range r.clients {
		if id == senderID {
			continue
		}
		if err := deliver(client); err != nil {
			slog.Warn("Dropping unreachable client", "addr", client.Addr, "error", err)
			client.Conn.Close()
			delete(r.clients, id)
		}
	}
}

// Len reports the number of connected clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
