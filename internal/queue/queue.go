package queue

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Queue is a named container owning a priority-ordered pending collection
// and a taskID-keyed result map. All operations are safe for concurrent
// use; enqueue and dequeue are atomic with respect to one another, and the
// result map serializes reads and writes under its own lock.
type Queue struct {
	id      uuid.UUID
	name    string
	pending *pendingTasks

	mu      sync.RWMutex
	results map[uuid.UUID]*Result
}

// NewQueue creates an empty queue with a fresh identifier. Surrounding
// whitespace in the name is trimmed; name content is otherwise not
// validated here.
func NewQueue(name string) *Queue {
	return RestoreQueue(uuid.New(), name)
}

// RestoreQueue creates an empty queue under a caller-supplied identifier.
// Used by the snapshot load path.
func RestoreQueue(id uuid.UUID, name string) *Queue {
	return &Queue{
		id:      id,
		name:    strings.TrimSpace(name),
		pending: newPendingTasks(),
		results: make(map[uuid.UUID]*Result),
	}
}

// ID returns the queue identifier.
func (q *Queue) ID() uuid.UUID { return q.id }

// Name returns the queue name. Names may repeat across queues.
func (q *Queue) Name() string { return q.name }

// Enqueue inserts a task into the pending collection. A nil task is
// rejected with no change. The task status is not touched; a restored
// IN_PROGRESS task keeps that status while pending.
func (q *Queue) Enqueue(t *Task) bool {
	if t == nil {
		return false
	}
	q.pending.Push(t)
	return true
}

// Dequeue atomically removes and returns the pending task with the lowest
// priority value. ok is false when the queue is empty. The same task is
// never handed to two callers, and its identifier never reappears from
// this queue unless explicitly re-enqueued.
func (q *Queue) Dequeue() (t *Task, ok bool) {
	return q.pending.PopMin()
}

// AddResult stores a result keyed by its task identifier, overwriting any
// prior result under the same key. Returns false with no change when the
// result is nil or carries a zero task identifier. A result for a task
// that was never pending here is accepted: workers may report after the
// task was dequeued elsewhere.
func (q *Queue) AddResult(r *Result) bool {
	if r == nil || r.TaskID() == uuid.Nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.results[r.TaskID()] = r
	return true
}

// GetResult returns the stored result for a task identifier.
func (q *Queue) GetResult(taskID uuid.UUID) (r *Result, ok bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	r, ok = q.results[taskID]
	return r, ok
}

// TaskCount returns the number of pending tasks.
func (q *Queue) TaskCount() int {
	return q.pending.Len()
}

// ResultCount returns the number of stored results.
func (q *Queue) ResultCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.results)
}

// HasPending reports whether any task is waiting to be dequeued.
func (q *Queue) HasPending() bool {
	return q.pending.Len() > 0
}

// SnapshotTasks returns a point-in-time view of the pending tasks for the
// snapshot engine.
func (q *Queue) SnapshotTasks() []*Task {
	return q.pending.Items()
}

// SnapshotResults returns a point-in-time view of the stored results for
// the snapshot engine.
func (q *Queue) SnapshotResults() []*Result {
	q.mu.RLock()
	defer q.mu.RUnlock()
	results := make([]*Result, 0, len(q.results))
	for _, r := range q.results {
		results = append(results, r)
	}
	return results
}
