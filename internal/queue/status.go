// Package queue provides the in-memory priority task queue core: tasks,
// results, named queues, and the process-wide queue registry.
package queue

import (
	"fmt"

	"github.com/queued-io/queued/internal/domain"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// TaskStatus values. Transitions are advisory: the core only ever moves a
// task from PENDING to IN_PROGRESS on dequeue; the terminal states are set
// by whoever holds a task reference.
const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a task status name as written in snapshots and
// API payloads.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted, TaskFailed:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown task status %q", domain.ErrValidation, s)
	}
}

// ResultStatus represents the outcome of an executed task.
type ResultStatus string

// ResultStatus values.
const (
	ResultSuccess ResultStatus = "SUCCESS"
	ResultFailure ResultStatus = "FAILURE"
)

// String returns the string representation of the status.
func (s ResultStatus) String() string {
	return string(s)
}

// ParseResultStatus parses a result status name.
func ParseResultStatus(s string) (ResultStatus, error) {
	switch ResultStatus(s) {
	case ResultSuccess, ResultFailure:
		return ResultStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown result status %q", domain.ErrValidation, s)
	}
}
