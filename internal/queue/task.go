package queue

import (
	"sync"

	"github.com/google/uuid"
)

// Task is a unit of work waiting in a queue. Identity, params, and priority
// are fixed at construction; only the lifecycle status mutates, and status
// access is safe under concurrent observers. Equality is by identifier
// alone — two tasks with the same priority are still distinct tasks —
// while ordering in the pending collection is by priority alone.
type Task struct {
	id       uuid.UUID
	params   string
	priority int

	mu     sync.RWMutex
	status TaskStatus
}

// NewTask creates a pending task with a fresh identifier. Lower priority
// values are dequeued first; negative priorities are valid.
func NewTask(params string, priority int) *Task {
	return &Task{
		id:       uuid.New(),
		params:   params,
		priority: priority,
		status:   TaskPending,
	}
}

// RestoreTask creates a task carrying a caller-supplied identifier and
// status. Used by the snapshot load path, which must preserve identifiers
// so results submitted after a restart still correlate.
func RestoreTask(id uuid.UUID, params string, priority int, status TaskStatus) *Task {
	return &Task{
		id:       id,
		params:   params,
		priority: priority,
		status:   status,
	}
}

// ID returns the task identifier.
func (t *Task) ID() uuid.UUID { return t.id }

// Params returns the opaque task parameters.
func (t *Task) Params() string { return t.params }

// Priority returns the task priority. Smaller means more urgent.
func (t *Task) Priority() int { return t.priority }

// Status returns the current lifecycle status.
func (t *Task) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SetStatus sets the lifecycle status. Any transition is permitted; the
// core does not enforce a state DAG.
func (t *Task) SetStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// Equal reports whether both tasks carry the same identifier.
func (t *Task) Equal(other *Task) bool {
	if other == nil {
		return false
	}
	return t.id == other.id
}
