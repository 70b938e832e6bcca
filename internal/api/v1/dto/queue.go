// Package dto defines the request and response bodies of the queue API.
package dto

// CreateQueueRequest is the body of POST /queue.
type CreateQueueRequest struct {
	Name string `json:"name"`
}

// QueueResponse represents a created queue.
type QueueResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TaskCount   int    `json:"taskCount"`
	ResultCount int    `json:"resultCount"`
}

// EnqueueTaskRequest is the body of POST /queue/{id}/task.
type EnqueueTaskRequest struct {
	Params   string `json:"params"`
	Priority int    `json:"priority"`
}

// TaskResponse represents a task.
type TaskResponse struct {
	ID       string `json:"id"`
	Params   string `json:"params"`
	Priority int    `json:"priority"`
	Status   string `json:"status"`
}

// SubmitResultRequest is the body of POST /queue/{id}/result.
type SubmitResultRequest struct {
	TaskID string `json:"taskId"`
	Output string `json:"output"`
	Status string `json:"status"`
}

// ResultResponse represents a stored result. Timestamp is an ISO-8601
// local date-time without offset.
type ResultResponse struct {
	TaskID    string `json:"taskId"`
	Output    string `json:"output"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// QueueStatusResponse is the aggregate status used by pollers to detect
// queue drain.
type QueueStatusResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	PendingTaskCount     int    `json:"pendingTaskCount"`
	CompletedResultCount int    `json:"completedResultCount"`
	HasPendingTasks      bool   `json:"hasPendingTasks"`
}

// ClearResponse is the body of DELETE /queue/admin/clear.
type ClearResponse struct {
	Message       string `json:"message"`
	QueuesCleared int    `json:"queuesCleared"`
}
