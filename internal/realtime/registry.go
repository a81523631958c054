// Package realtime tracks which users currently hold live connections and
// fans event payloads out to them. State is purely in-memory: the registry is
// rebuilt from scratch on restart and a reconnecting client must re-attach.
package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sink is one live, addressable output for a user. Any transport (WebSocket,
// SSE, long-poll) can implement it.
type Sink interface {
	Deliver(payload any) error
	Close() error
}

// Connection binds a sink to the user it belongs to.
type Connection struct {
	UserID   uuid.UUID
	Sink     Sink
	LastSeen time.Time
}

// Registry maps a user id to the set of that user's live connections.
// A user may hold zero, one, or many connections (multiple tabs/devices).
type Registry struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]map[*Connection]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[uuid.UUID]map[*Connection]struct{}),
	}
}

// Attach registers a sink for a user and returns its connection handle.
func (r *Registry) Attach(userID uuid.UUID, sink Sink) *Connection {
	c := &Connection{UserID: userID, Sink: sink, LastSeen: time.Now()}

	r.mu.Lock()
	if _, ok := r.connections[userID]; !ok {
		r.connections[userID] = make(map[*Connection]struct{})
	}
	r.connections[userID][c] = struct{}{}
	r.mu.Unlock()

	return c
}

// Detach removes a connection and closes its sink. Detaching an already
// removed connection is a no-op.
func (r *Registry) Detach(c *Connection) {
	r.mu.Lock()
	if conns, ok := r.connections[c.UserID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(r.connections, c.UserID)
		}
	}
	r.mu.Unlock()

	_ = c.Sink.Close()
}

// IsOnline reports whether the user holds at least one live connection.
func (r *Registry) IsOnline(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections[userID]) > 0
}

// ConnectionsFor returns the user's current connection handles. An offline
// user yields an empty slice, not an error.
func (r *Registry) ConnectionsFor(userID uuid.UUID) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.connections[userID]))
	for c := range r.connections[userID] {
		conns = append(conns, c)
	}
	return conns
}

// Broadcast delivers the payload to every live connection of the user and
// returns how many deliveries succeeded. Delivery is best-effort: a sink
// that fails to accept the payload is detached, and failures never propagate
// to the caller.
func (r *Registry) Broadcast(userID uuid.UUID, payload any) int {
	delivered := 0
	for _, c := range r.ConnectionsFor(userID) {
		if err := c.Sink.Deliver(payload); err != nil {
			log.Printf("realtime: dropping connection for user %s: %v", userID, err)
			r.Detach(c)
			continue
		}
		delivered++
	}
	return delivered
}
