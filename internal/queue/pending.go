package queue

import (
	"container/heap"
	"sync"
)

// pendingTasks is a concurrent min-heap over task priority. It is safe for
// multiple producers and consumers without external locking, and a pop
// never hands the same element to two callers. Duplicate identifiers are
// permitted: the heap orders by priority only and never deduplicates.
// Equal-priority ordering is whatever the heap yields, deterministic per
// call but otherwise unspecified.
type pendingTasks struct {
	mu sync.Mutex
	h  taskHeap
}

func newPendingTasks() *pendingTasks {
	return &pendingTasks{}
}

// Push inserts a task.
func (p *pendingTasks) Push(t *Task) {
	p.mu.Lock()
	heap.Push(&p.h, t)
	p.mu.Unlock()
}

// PopMin removes and returns the task with the lowest priority value.
// ok is false when the collection is empty.
func (p *pendingTasks) PopMin() (t *Task, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.h) == 0 {
		return nil, false
	}
	return heap.Pop(&p.h).(*Task), true
}

// Len returns the number of pending tasks.
func (p *pendingTasks) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.h)
}

// Items returns a point-in-time copy of the pending tasks, in no
// particular order.
func (p *pendingTasks) Items() []*Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]*Task, len(p.h))
	copy(items, p.h)
	return items
}

// taskHeap implements heap.Interface ordered by ascending priority.
type taskHeap []*Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].Priority() < h[j].Priority() }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
