package queue

import (
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the serialized form of result timestamps: ISO-8601 local
// date-time without a zone offset.
const TimeLayout = "2006-01-02T15:04:05"

// Result is the completion record for one task, keyed by the task's
// identifier. Immutable after construction.
type Result struct {
	taskID    uuid.UUID
	output    string
	status    ResultStatus
	timestamp time.Time
}

// NewResult creates a result stamped with the current local time.
func NewResult(taskID uuid.UUID, output string, status ResultStatus) *Result {
	return &Result{
		taskID:    taskID,
		output:    output,
		status:    status,
		timestamp: time.Now(),
	}
}

// RestoreResult creates a result with a caller-supplied timestamp. Used by
// the snapshot load path.
func RestoreResult(taskID uuid.UUID, output string, status ResultStatus, timestamp time.Time) *Result {
	return &Result{
		taskID:    taskID,
		output:    output,
		status:    status,
		timestamp: timestamp,
	}
}

// TaskID returns the identifier of the task this result belongs to.
func (r *Result) TaskID() uuid.UUID { return r.taskID }

// Output returns the opaque result output.
func (r *Result) Output() string { return r.output }

// Status returns the result status.
func (r *Result) Status() ResultStatus { return r.status }

// Timestamp returns when the result was created.
func (r *Result) Timestamp() time.Time { return r.timestamp }
