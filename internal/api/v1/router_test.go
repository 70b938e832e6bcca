package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/queued-io/queued/internal/api/v1/dto"
	"github.com/queued-io/queued/internal/queue"
)

func newTestRouter() chi.Router {
	service := queue.NewService(queue.NewRegistry(), nil)
	router := chi.NewRouter()
	router.Mount("/queue", NewQueueRouter(service, nil).Routes())
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createQueue(t *testing.T, router chi.Router, name string) dto.QueueResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/queue", fmt.Sprintf(`{"name":%q}`, name))
	if w.Code != http.StatusCreated {
		t.Fatalf("create queue status = %v, want %v (body %q)", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp dto.QueueResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode queue response: %v", err)
	}
	return resp
}

func TestFullFlow(t *testing.T) {
	router := newTestRouter()

	// Create the queue.
	q := createQueue(t, router, "Q1")
	if q.Name != "Q1" || q.TaskCount != 0 || q.ResultCount != 0 {
		t.Errorf("unexpected queue response: %+v", q)
	}

	// Enqueue a task.
	w := doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/task", `{"params":"p","priority":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("enqueue status = %v, want %v", w.Code, http.StatusCreated)
	}
	var task dto.TaskResponse
	if err := json.NewDecoder(w.Body).Decode(&task); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if task.Status != "PENDING" {
		t.Errorf("enqueued task status = %q, want PENDING", task.Status)
	}

	// Dequeue it: same identifier, now in progress.
	w = doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/task", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dequeue status = %v, want %v", w.Code, http.StatusOK)
	}
	var dequeued dto.TaskResponse
	if err := json.NewDecoder(w.Body).Decode(&dequeued); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if dequeued.ID != task.ID {
		t.Errorf("dequeued id = %q, want %q", dequeued.ID, task.ID)
	}
	if dequeued.Status != "IN_PROGRESS" {
		t.Errorf("dequeued status = %q, want IN_PROGRESS", dequeued.Status)
	}

	// Submit and fetch the result.
	w = doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/result",
		fmt.Sprintf(`{"taskId":%q,"output":"ok","status":"SUCCESS"}`, task.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("submit result status = %v, want %v (body %q)", w.Code, http.StatusCreated, w.Body.String())
	}
	var result dto.ResultResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Timestamp == "" {
		t.Error("result timestamp is empty")
	}

	w = doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/result/"+task.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get result status = %v, want %v", w.Code, http.StatusOK)
	}
	var fetched dto.ResultResponse
	if err := json.NewDecoder(w.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if fetched != result {
		t.Errorf("fetched result = %+v, want %+v", fetched, result)
	}
}

func TestDequeueEmptyQueue(t *testing.T) {
	router := newTestRouter()
	q := createQueue(t, router, "E")

	w := doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/task", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %v, want %v", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestPriorityOrdering(t *testing.T) {
	router := newTestRouter()
	q := createQueue(t, router, "P")

	for _, p := range []int{5, 1, 3, 1, 0, -2} {
		w := doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/task",
			fmt.Sprintf(`{"params":"p","priority":%d}`, p))
		if w.Code != http.StatusCreated {
			t.Fatalf("enqueue status = %v, want %v", w.Code, http.StatusCreated)
		}
	}

	var got []int
	for i := 0; i < 6; i++ {
		w := doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/task", "")
		if w.Code != http.StatusOK {
			t.Fatalf("dequeue status = %v, want %v", w.Code, http.StatusOK)
		}
		var task dto.TaskResponse
		if err := json.NewDecoder(w.Body).Decode(&task); err != nil {
			t.Fatalf("failed to decode task: %v", err)
		}
		got = append(got, task.Priority)
	}

	want := []int{-2, 0, 1, 1, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dequeue priorities = %v, want %v", got, want)
		}
	}
}

func TestResultOverwrite(t *testing.T) {
	router := newTestRouter()
	q := createQueue(t, router, "O")
	taskID := "11111111-2222-3333-4444-555555555555"

	w := doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/result",
		fmt.Sprintf(`{"taskId":%q,"output":"first","status":"SUCCESS"}`, taskID))
	if w.Code != http.StatusCreated {
		t.Fatalf("first submit status = %v", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/result",
		fmt.Sprintf(`{"taskId":%q,"output":"second","status":"FAILURE"}`, taskID))
	if w.Code != http.StatusCreated {
		t.Fatalf("second submit status = %v", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/result/"+taskID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get result status = %v", w.Code)
	}
	var result dto.ResultResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Output != "second" || result.Status != "FAILURE" {
		t.Errorf("result = %+v, want output=second status=FAILURE", result)
	}
}

func TestQueueIsolation(t *testing.T) {
	router := newTestRouter()
	qa := createQueue(t, router, "A")
	qb := createQueue(t, router, "B")

	w := doJSON(t, router, http.MethodPost, "/queue/"+qa.ID+"/task", `{"params":"a","priority":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("enqueue A status = %v", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/queue/"+qb.ID+"/task", `{"params":"b","priority":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("enqueue B status = %v", w.Code)
	}

	// Each queue yields its own task.
	w = doJSON(t, router, http.MethodGet, "/queue/"+qa.ID+"/task", "")
	var fromA dto.TaskResponse
	if err := json.NewDecoder(w.Body).Decode(&fromA); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if fromA.Params != "a" {
		t.Errorf("task from A has params %q, want %q", fromA.Params, "a")
	}
	w = doJSON(t, router, http.MethodGet, "/queue/"+qb.ID+"/task", "")
	var fromB dto.TaskResponse
	if err := json.NewDecoder(w.Body).Decode(&fromB); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if fromB.Params != "b" {
		t.Errorf("task from B has params %q, want %q", fromB.Params, "b")
	}

	// Cross-queue result lookup misses.
	w = doJSON(t, router, http.MethodPost, "/queue/"+qa.ID+"/result",
		fmt.Sprintf(`{"taskId":%q,"output":"ok","status":"SUCCESS"}`, fromA.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("submit result status = %v", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/queue/"+qb.ID+"/result/"+fromA.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-queue result status = %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestQueueStatusEndpoint(t *testing.T) {
	router := newTestRouter()
	q := createQueue(t, router, "S")

	w := doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/task", `{"params":"p","priority":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("enqueue status = %v", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status endpoint status = %v", w.Code)
	}
	var status dto.QueueStatusResponse
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.ID != q.ID || status.Name != "S" {
		t.Errorf("status identity = %+v, want id %q name S", status, q.ID)
	}
	if status.PendingTaskCount != 1 || status.CompletedResultCount != 0 || !status.HasPendingTasks {
		t.Errorf("status counts = %+v", status)
	}
}

func TestMalformedIdentifiers(t *testing.T) {
	router := newTestRouter()

	paths := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/queue/not-a-uuid/task", ""},
		{http.MethodPost, "/queue/not-a-uuid/task", `{"params":"p","priority":1}`},
		{http.MethodGet, "/queue/not-a-uuid/status", ""},
		{http.MethodGet, "/queue/not-a-uuid/result/also-not-a-uuid", ""},
		{http.MethodPost, "/queue/not-a-uuid/result", `{"taskId":"x","output":"o","status":"SUCCESS"}`},
	}
	for _, tt := range paths {
		w := doJSON(t, router, tt.method, tt.path, tt.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s status = %v, want %v", tt.method, tt.path, w.Code, http.StatusBadRequest)
		}
	}
}

func TestUnknownQueue(t *testing.T) {
	router := newTestRouter()
	missing := "99999999-8888-7777-6666-555555555555"

	w := doJSON(t, router, http.MethodGet, "/queue/"+missing+"/task", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("dequeue on missing queue status = %v, want %v", w.Code, http.StatusNotFound)
	}
	w = doJSON(t, router, http.MethodGet, "/queue/"+missing+"/status", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status on missing queue = %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestInvalidResultStatusEnum(t *testing.T) {
	router := newTestRouter()
	q := createQueue(t, router, "E")

	w := doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/result",
		`{"taskId":"11111111-2222-3333-4444-555555555555","output":"ok","status":"BOGUS"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestCreateQueueInvalidName(t *testing.T) {
	router := newTestRouter()

	for _, body := range []string{`{"name":""}`, `{"name":"   "}`, `{}`} {
		w := doJSON(t, router, http.MethodPost, "/queue", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q status = %v, want %v", body, w.Code, http.StatusBadRequest)
		}
	}
}

func TestMissingTaskIDOnSubmit(t *testing.T) {
	router := newTestRouter()
	q := createQueue(t, router, "M")

	w := doJSON(t, router, http.MethodPost, "/queue/"+q.ID+"/result",
		`{"output":"ok","status":"SUCCESS"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestAdminClear(t *testing.T) {
	router := newTestRouter()
	createQueue(t, router, "A")
	q := createQueue(t, router, "B")

	w := doJSON(t, router, http.MethodDelete, "/queue/admin/clear", "")
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %v, want %v", w.Code, http.StatusOK)
	}
	var resp dto.ClearResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode clear response: %v", err)
	}
	if resp.QueuesCleared != 2 {
		t.Errorf("queuesCleared = %v, want 2", resp.QueuesCleared)
	}

	w = doJSON(t, router, http.MethodGet, "/queue/"+q.ID+"/status", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status after clear = %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestErrorBodiesArePlainText(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/queue/not-a-uuid/task", "")
	ct := w.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("error content type = %q, want text/plain", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("error body is empty, want a message")
	}
}
