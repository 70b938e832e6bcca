// Package v1 implements the queue HTTP endpoints.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/queued-io/queued/internal/api/middleware"
	"github.com/queued-io/queued/internal/api/v1/dto"
	"github.com/queued-io/queued/internal/domain"
	"github.com/queued-io/queued/internal/queue"
)

// QueueRouter handles the /queue endpoints.
type QueueRouter struct {
	service *queue.Service
	logger  *slog.Logger
}

// NewQueueRouter creates a QueueRouter over the service facade.
func NewQueueRouter(service *queue.Service, logger *slog.Logger) *QueueRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueRouter{
		service: service,
		logger:  logger,
	}
}

// Routes returns the chi router for the queue endpoints, to be mounted at
// /queue.
func (r *QueueRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.CreateQueue)
	router.Delete("/admin/clear", r.ClearAll)
	router.Post("/{queueID}/task", r.EnqueueTask)
	router.Get("/{queueID}/task", r.DequeueTask)
	router.Post("/{queueID}/result", r.SubmitResult)
	router.Get("/{queueID}/result/{taskID}", r.GetResult)
	router.Get("/{queueID}/status", r.QueueStatus)

	return router
}

// CreateQueue handles POST /queue.
func (r *QueueRouter) CreateQueue(w http.ResponseWriter, req *http.Request) {
	var body dto.CreateQueueRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}

	q, err := r.service.CreateQueue(body.Name)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.QueueResponse{
		ID:          q.ID().String(),
		Name:        q.Name(),
		TaskCount:   q.TaskCount(),
		ResultCount: q.ResultCount(),
	})
}

// EnqueueTask handles POST /queue/{queueID}/task.
func (r *QueueRouter) EnqueueTask(w http.ResponseWriter, req *http.Request) {
	var body dto.EnqueueTaskRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}

	t, err := r.service.EnqueueTask(chi.URLParam(req, "queueID"), body.Params, body.Priority)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, taskToDTO(t))
}

// DequeueTask handles GET /queue/{queueID}/task. An empty queue yields
// 204 with no body.
func (r *QueueRouter) DequeueTask(w http.ResponseWriter, req *http.Request) {
	t, err := r.service.DequeueTask(chi.URLParam(req, "queueID"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if t == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, taskToDTO(t))
}

// SubmitResult handles POST /queue/{queueID}/result.
func (r *QueueRouter) SubmitResult(w http.ResponseWriter, req *http.Request) {
	var body dto.SubmitResultRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}

	status, err := queue.ParseResultStatus(body.Status)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	res, err := r.service.SubmitResult(chi.URLParam(req, "queueID"), body.TaskID, body.Output, status)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, resultToDTO(res))
}

// GetResult handles GET /queue/{queueID}/result/{taskID}.
func (r *QueueRouter) GetResult(w http.ResponseWriter, req *http.Request) {
	res, err := r.service.GetResult(chi.URLParam(req, "queueID"), chi.URLParam(req, "taskID"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resultToDTO(res))
}

// QueueStatus handles GET /queue/{queueID}/status.
func (r *QueueRouter) QueueStatus(w http.ResponseWriter, req *http.Request) {
	status, err := r.service.QueueStatus(chi.URLParam(req, "queueID"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.QueueStatusResponse{
		ID:                   status.ID.String(),
		Name:                 status.Name,
		PendingTaskCount:     status.PendingTaskCount,
		CompletedResultCount: status.CompletedResultCount,
		HasPendingTasks:      status.HasPendingTasks,
	})
}

// ClearAll handles DELETE /queue/admin/clear.
func (r *QueueRouter) ClearAll(w http.ResponseWriter, req *http.Request) {
	n := r.service.ClearAll()

	middleware.WriteJSON(w, http.StatusOK, dto.ClearResponse{
		Message:       "all queues cleared",
		QueuesCleared: n,
	})
}

func taskToDTO(t *queue.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:       t.ID().String(),
		Params:   t.Params(),
		Priority: t.Priority(),
		Status:   t.Status().String(),
	}
}

func resultToDTO(r *queue.Result) dto.ResultResponse {
	return dto.ResultResponse{
		TaskID:    r.TaskID().String(),
		Output:    r.Output(),
		Status:    r.Status().String(),
		Timestamp: r.Timestamp().Format(queue.TimeLayout),
	}
}
