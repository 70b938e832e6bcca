package queue

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/queued-io/queued/internal/domain"
)

// Service is the validating facade between the HTTP boundary and the
// registry. Identifiers arrive as strings and are parsed here; absence and
// malformed input translate into the small error taxonomy the API layer
// maps onto status codes.
type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// NewService creates a Service over the given registry.
func NewService(registry *Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

// CreateQueue creates a queue with the trimmed name. Absent or
// whitespace-only names are rejected.
func (s *Service) CreateQueue(name string) (*Queue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: queue name must not be empty", domain.ErrValidation)
	}
	q := s.registry.Create(name)
	s.logger.Info("queue created", "queue_id", q.ID(), "name", q.Name())
	return q, nil
}

// EnqueueTask constructs a pending task and inserts it into the queue.
func (s *Service) EnqueueTask(queueID, params string, priority int) (*Task, error) {
	q, err := s.resolveQueue(queueID)
	if err != nil {
		return nil, err
	}
	t := NewTask(params, priority)
	q.Enqueue(t)
	s.logger.Info("task enqueued", "queue_id", q.ID(), "task_id", t.ID(), "priority", priority)
	return t, nil
}

// DequeueTask removes and returns the most urgent pending task, marking it
// IN_PROGRESS before handing it out. Returns nil when the queue is empty.
func (s *Service) DequeueTask(queueID string) (*Task, error) {
	q, err := s.resolveQueue(queueID)
	if err != nil {
		return nil, err
	}
	t, ok := q.Dequeue()
	if !ok {
		s.logger.Info("dequeue on empty queue", "queue_id", q.ID())
		return nil, nil
	}
	t.SetStatus(TaskInProgress)
	s.logger.Info("task dequeued", "queue_id", q.ID(), "task_id", t.ID(), "priority", t.Priority())
	return t, nil
}

// SubmitResult stores a result keyed by its task identifier, overwriting
// any earlier result for the same task.
func (s *Service) SubmitResult(queueID, taskID, output string, status ResultStatus) (*Result, error) {
	q, err := s.resolveQueue(queueID)
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, fmt.Errorf("%w: result is missing a task id", domain.ErrPrecondition)
	}
	tid, err := uuid.Parse(taskID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed task id %q", domain.ErrValidation, taskID)
	}
	r := NewResult(tid, output, status)
	q.AddResult(r)
	s.logger.Info("result submitted", "queue_id", q.ID(), "task_id", tid, "status", status)
	return r, nil
}

// GetResult returns the stored result for a task.
func (s *Service) GetResult(queueID, taskID string) (*Result, error) {
	q, err := s.resolveQueue(queueID)
	if err != nil {
		return nil, err
	}
	tid, err := parseID(taskID, "task")
	if err != nil {
		return nil, err
	}
	r, ok := q.GetResult(tid)
	if !ok {
		return nil, fmt.Errorf("%w: no result for task %s", domain.ErrNotFound, tid)
	}
	return r, nil
}

// Status summarizes one queue for pollers watching for drain.
type Status struct {
	ID                   uuid.UUID
	Name                 string
	PendingTaskCount     int
	CompletedResultCount int
	HasPendingTasks      bool
}

// QueueStatus returns the aggregate status of a queue.
func (s *Service) QueueStatus(queueID string) (Status, error) {
	q, err := s.resolveQueue(queueID)
	if err != nil {
		return Status{}, err
	}
	return Status{
		ID:                   q.ID(),
		Name:                 q.Name(),
		PendingTaskCount:     q.TaskCount(),
		CompletedResultCount: q.ResultCount(),
		HasPendingTasks:      q.HasPending(),
	}, nil
}

// ClearAll empties the registry and returns the number of queues removed.
func (s *Service) ClearAll() int {
	n := s.registry.Clear()
	s.logger.Info("all queues cleared", "queues_cleared", n)
	return n
}

func (s *Service) resolveQueue(queueID string) (*Queue, error) {
	id, err := parseID(queueID, "queue")
	if err != nil {
		return nil, err
	}
	q, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: queue %s", domain.ErrNotFound, id)
	}
	return q, nil
}

func parseID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("%w: %s id must not be empty", domain.ErrValidation, kind)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed %s id %q", domain.ErrValidation, kind, s)
	}
	return id, nil
}
