// Package presence tracks which users currently hold a live, addressable
// connection. The mapping is process-lifetime only: it starts empty and is
// rebuilt from scratch after a restart.
package presence

import (
	"context"
	"sync"
)

// Conn is a live connection handle capable of pushing a payload to the
// user. Send must respect the deadline carried by ctx.
type Conn interface {
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// Registry maps user ids to their live connection. At most one handle per
// user: a reconnect overwrites the previous handle (last-write-wins).
// Safe for concurrent use; connect/disconnect events may race with
// dispatch lookups.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]Conn),
	}
}

// Register binds conn as the user's live handle, replacing any prior one.
// The replaced handle is returned so the caller can close it; nil if the
// user had no prior connection.
func (r *Registry) Register(userID string, conn Conn) Conn {
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()
	return prev
}

// Unregister removes the user's mapping, but only if it still points at
// conn. A stale connection's teardown must not evict the handle a
// reconnect has already installed.
func (r *Registry) Unregister(userID string, conn Conn) {
	r.mu.Lock()
	if r.conns[userID] == conn {
		delete(r.conns, userID)
	}
	r.mu.Unlock()
}

// Lookup returns the user's live connection, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Count returns the number of connected users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
