package core

import "sync"

// Identity is what the registry knows about a bound connection.
type Identity struct {
	ID       string
	Username string
	Pin      string // empty when the connection is not in a room
}

// Registry maps live connections to their authenticated identity and, at most,
// one room. It holds non-owning references only: the transport owns the
// connection, the manager owns the rooms.
type Registry struct {
	mu      sync.RWMutex
	entries map[*Client]*Identity
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[*Client]*Identity)}
}

// Bind associates an authenticated connection with an identity. The transport
// must reject connections it cannot authenticate before ever calling Bind.
func (r *Registry) Bind(c *Client, id, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[c] = &Identity{ID: id, Username: username}
}

// AttachRoom records the connection's current room. Idempotent.
func (r *Registry) AttachRoom(c *Client, pin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[c]; ok {
		e.Pin = pin
	}
}

// DetachRoom clears the connection's current room. Idempotent.
func (r *Registry) DetachRoom(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[c]; ok {
		e.Pin = ""
	}
}

// Resolve returns the identity bound to a connection. It never fails; ok is
// false when the connection was never bound.
func (r *Registry) Resolve(c *Client) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[c]
	if !ok {
		return Identity{}, false
	}
	return *e, true
}

// Remove drops the connection's entry. Called only from the manager's
// disconnect path once room handling has finished.
func (r *Registry) Remove(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, c)
}

// Len reports the number of bound connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
