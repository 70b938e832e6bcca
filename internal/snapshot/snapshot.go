// Package snapshot persists the queue registry to a local JSON file and
// restores it at startup. Saves are atomic (write temp, rename over the
// primary); loads tolerate faults per record so one corrupted entry never
// discards the rest of the state.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queued-io/queued/internal/queue"
)

// Snapshot file names, fixed relative to the snapshot directory.
const (
	FileName     = "queue_snapshot.json"
	TempFileName = "queue_snapshot.tmp"
)

// FormatVersion is the snapshot schema version written on save.
const FormatVersion = "1.0"

// Data is the top-level snapshot document.
type Data struct {
	Version   string        `json:"version"`
	Timestamp int64         `json:"timestamp"`
	Queues    []QueueRecord `json:"queues"`
}

// QueueRecord is one serialized queue.
type QueueRecord struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Tasks   []TaskRecord   `json:"tasks"`
	Results []ResultRecord `json:"results"`
}

// TaskRecord is one serialized pending task.
type TaskRecord struct {
	ID       string `json:"id"`
	Params   string `json:"params"`
	Priority int    `json:"priority"`
	Status   string `json:"status"`
}

// ResultRecord is one serialized result.
type ResultRecord struct {
	TaskID    string `json:"taskId"`
	Output    string `json:"output"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Engine serializes the registry to disk and back. Saves are single-writer:
// concurrent callers queue up on the engine's lock.
type Engine struct {
	registry *queue.Registry
	dir      string
	logger   *slog.Logger

	mu sync.Mutex
}

// NewEngine creates an Engine writing into dir. An empty dir means the
// working directory.
func NewEngine(registry *queue.Registry, dir string, logger *slog.Logger) *Engine {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		dir:      dir,
		logger:   logger,
	}
}

// Path returns the primary snapshot file path.
func (e *Engine) Path() string {
	return filepath.Join(e.dir, FileName)
}

// TempPath returns the temp file path used during saves.
func (e *Engine) TempPath() string {
	return filepath.Join(e.dir, TempFileName)
}

// Save writes the current registry state to the snapshot file. The temp
// file is fully written before it is renamed over the primary, so the
// primary is either the previous snapshot or the new one, never a partial
// write.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data := e.capture()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(e.TempPath(), raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}

	if _, err := os.Stat(e.Path()); err == nil {
		if err := os.Remove(e.Path()); err != nil {
			e.logger.Warn("failed to delete old snapshot file", "path", e.Path(), "error", err)
		}
	}
	if err := os.Rename(e.TempPath(), e.Path()); err != nil {
		e.logger.Error("failed to rename snapshot temp file", "path", e.Path(), "error", err)
		return fmt.Errorf("rename snapshot file: %w", err)
	}

	taskTotal := 0
	for _, q := range data.Queues {
		taskTotal += len(q.Tasks)
	}
	e.logger.Debug("snapshot saved", "queues", len(data.Queues), "tasks", taskTotal)
	return nil
}

// capture builds the snapshot document from point-in-time queue views.
// Per-queue locks are only held inside the view calls, never across the
// file write.
func (e *Engine) capture() Data {
	data := Data{
		Version:   FormatVersion,
		Timestamp: time.Now().UnixMilli(),
		Queues:    []QueueRecord{},
	}

	for _, q := range e.registry.All() {
		rec := QueueRecord{
			ID:      q.ID().String(),
			Name:    q.Name(),
			Tasks:   []TaskRecord{},
			Results: []ResultRecord{},
		}
		for _, t := range q.SnapshotTasks() {
			rec.Tasks = append(rec.Tasks, TaskRecord{
				ID:       t.ID().String(),
				Params:   t.Params(),
				Priority: t.Priority(),
				Status:   t.Status().String(),
			})
		}
		for _, r := range q.SnapshotResults() {
			rec.Results = append(rec.Results, ResultRecord{
				TaskID:    r.TaskID().String(),
				Output:    r.Output(),
				Status:    r.Status().String(),
				Timestamp: r.Timestamp().Format(queue.TimeLayout),
			})
		}
		data.Queues = append(data.Queues, rec)
	}
	return data
}

// Load restores registry state from the snapshot file. A missing or empty
// file leaves the registry untouched. A file that fails to parse is logged
// and skipped wholesale; within a parsed file, a queue, task, or result
// record that fails to parse is skipped individually.
func (e *Engine) Load() error {
	raw, err := os.ReadFile(e.Path())
	if errors.Is(err, os.ErrNotExist) {
		e.logger.Info("no snapshot file found, starting empty", "path", e.Path())
		return nil
	}
	if err != nil {
		e.logger.Error("failed to read snapshot file", "path", e.Path(), "error", err)
		return fmt.Errorf("read snapshot file: %w", err)
	}
	if len(raw) == 0 {
		e.logger.Info("snapshot file is empty, starting empty", "path", e.Path())
		return nil
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		e.logger.Warn("snapshot file is not valid JSON, starting empty", "path", e.Path(), "error", err)
		return nil
	}
	if data.Queues == nil {
		e.logger.Warn("snapshot file has no queues field, starting empty", "path", e.Path())
		return nil
	}

	queues, tasks, results := 0, 0, 0
	for _, rec := range data.Queues {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			e.logger.Warn("skipping queue record with malformed id", "id", rec.ID, "error", err)
			continue
		}
		q := queue.RestoreQueue(id, rec.Name)

		for _, tr := range rec.Tasks {
			t, err := restoreTask(tr)
			if err != nil {
				e.logger.Warn("skipping task record", "queue_id", id, "task_id", tr.ID, "error", err)
				continue
			}
			q.Enqueue(t)
			tasks++
		}
		for _, rr := range rec.Results {
			r, err := restoreResult(rr)
			if err != nil {
				e.logger.Warn("skipping result record", "queue_id", id, "task_id", rr.TaskID, "error", err)
				continue
			}
			q.AddResult(r)
			results++
		}

		e.registry.Install(q)
		queues++
	}

	e.logger.Info("snapshot loaded", "queues", queues, "tasks", tasks, "results", results)
	return nil
}

func restoreTask(tr TaskRecord) (*queue.Task, error) {
	id, err := uuid.Parse(tr.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed task id: %w", err)
	}
	status, err := queue.ParseTaskStatus(tr.Status)
	if err != nil {
		return nil, err
	}
	return queue.RestoreTask(id, tr.Params, tr.Priority, status), nil
}

func restoreResult(rr ResultRecord) (*queue.Result, error) {
	id, err := uuid.Parse(rr.TaskID)
	if err != nil {
		return nil, fmt.Errorf("malformed task id: %w", err)
	}
	status, err := queue.ParseResultStatus(rr.Status)
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(queue.TimeLayout, rr.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("malformed timestamp: %w", err)
	}
	return queue.RestoreResult(id, rr.Output, status, ts), nil
}
