package queue

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the process-wide directory of queues. It holds plain state:
// snapshot loading, the periodic saver, and the final shutdown save are
// wired by the caller, which keeps a fresh registry per test trivial.
type Registry struct {
	mu     sync.RWMutex
	queues map[uuid.UUID]*Queue
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		queues: make(map[uuid.UUID]*Queue),
	}
}

// Create allocates a queue with the given name, registers it, and returns
// it. Name validation belongs to the service facade, not here.
func (r *Registry) Create(name string) *Queue {
	q := NewQueue(name)
	r.mu.Lock()
	r.queues[q.ID()] = q
	r.mu.Unlock()
	return q
}

// Install registers a queue under its own identifier, replacing any queue
// already registered under it. Used by the snapshot load path.
func (r *Registry) Install(q *Queue) {
	r.mu.Lock()
	r.queues[q.ID()] = q
	r.mu.Unlock()
}

// Get returns the queue registered under id.
func (r *Registry) Get(id uuid.UUID) (q *Queue, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok = r.queues[id]
	return q, ok
}

// Remove deletes the queue registered under id, reporting whether a queue
// was actually removed.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queues[id]; !ok {
		return false
	}
	delete(r.queues, id)
	return true
}

// Clear empties the directory and returns the number of queues removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.queues)
	r.queues = make(map[uuid.UUID]*Queue)
	return n
}

// Len returns the number of registered queues.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}

// All returns a point-in-time copy of the directory, suitable for
// enumeration by the snapshot engine.
func (r *Registry) All() map[uuid.UUID]*Queue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[uuid.UUID]*Queue, len(r.queues))
	for id, q := range r.queues {
		all[id] = q
	}
	return all
}
