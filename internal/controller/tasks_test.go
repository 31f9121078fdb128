package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taskboard/internal/cache"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []models.TaskEvent
	err    error
}

func (p *fakePublisher) PublishTaskEvent(_ context.Context, ev models.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type harness struct {
	engine *gin.Engine
	store  *repository.TaskStore
	events *fakePublisher
}

func newHarness(t *testing.T, c *cache.TaskCache) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repository.NewTaskStore()
	events := &fakePublisher{}
	tc := NewTaskController(store, c, events, "node-a")

	r := gin.New()
	r.GET("/ready", tc.Ready)
	r.GET("/tasks", tc.ListTasks)
	r.GET("/tasks/:id", tc.GetTask)
	r.POST("/tasks", tc.CreateTask)
	r.PUT("/tasks/:id", tc.UpdateTask)
	r.DELETE("/tasks/:id", tc.DeleteTask)
	return &harness{engine: r, store: store, events: events}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (h *harness) create(t *testing.T, title string) models.Task {
	t.Helper()
	w := h.do(http.MethodPost, "/tasks", `{"title":"`+title+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.TaskResponse](t, w).Task
}

func TestCreateTask(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(http.MethodPost, "/tasks", `{"id":"mine","title":"write docs","description":"d","isCompleted":true,"createdAt":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	task := decode[models.TaskResponse](t, w).Task
	assert.NotEqual(t, "mine", task.ID)
	assert.Equal(t, "write docs", task.Title)
	assert.Equal(t, "d", task.Description)
	assert.True(t, task.IsCompleted)
	require.NotNil(t, task.CreatedAt)
	assert.NotEqual(t, int64(1), *task.CreatedAt)

	require.Len(t, h.events.events, 1)
	assert.Equal(t, models.ActionCreated, h.events.events[0].Action)
	assert.Equal(t, task.ID, h.events.events[0].TaskID)
	assert.Equal(t, "node-a", h.events.events[0].Instance)
}

func TestCreateTaskBlankTitle(t *testing.T) {
	h := newHarness(t, nil)

	for _, body := range []string{`{"title":"   "}`, `{"description":"no title"}`} {
		w := h.do(http.MethodPost, "/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		er := decode[models.ErrorResponse](t, w)
		assert.Equal(t, "BAD_REQUEST", er.Error)
		assert.Equal(t, "Task title is required", er.Message)
	}

	list := decode[models.TaskListResponse](t, h.do(http.MethodGet, "/tasks", ""))
	assert.Empty(t, list.Tasks)
	assert.Empty(t, h.events.events)
}

func TestCreateTaskMalformedBody(t *testing.T) {
	h := newHarness(t, nil)

	for _, body := range []string{`{"title":`, `{"title": 5}`, ``} {
		w := h.do(http.MethodPost, "/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		er := decode[models.ErrorResponse](t, w)
		assert.Equal(t, "BAD_REQUEST", er.Error)
		assert.True(t, strings.HasPrefix(er.Message, "Invalid request: "), er.Message)
	}
	assert.Zero(t, h.store.Len())
}

func TestListTasksEmptyIsArray(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[]}`, w.Body.String())
}

func TestListTasksNewestFirst(t *testing.T) {
	h := newHarness(t, nil)
	h.create(t, "first")
	time.Sleep(2 * time.Millisecond)
	h.create(t, "second")

	list := decode[models.TaskListResponse](t, h.do(http.MethodGet, "/tasks", ""))
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "second", list.Tasks[0].Title)
	assert.Equal(t, "first", list.Tasks[1].Title)
}

func TestGetTask(t *testing.T) {
	h := newHarness(t, nil)
	created := h.create(t, "a")

	w := h.do(http.MethodGet, "/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[models.TaskResponse](t, w).Task)

	w = h.do(http.MethodGet, "/tasks/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	er := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "NOT_FOUND", er.Error)
	assert.Equal(t, "Task with ID unknown not found", er.Message)
}

func TestUpdateTask(t *testing.T) {
	h := newHarness(t, nil)
	created := h.create(t, "a")

	w := h.do(http.MethodPut, "/tasks/"+created.ID, `{"title":"b","description":"x","isCompleted":true,"createdAt":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.TaskResponse](t, w).Task
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, *created.CreatedAt, *updated.CreatedAt)
	assert.Equal(t, "b", updated.Title)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, models.ActionUpdated, h.events.events[len(h.events.events)-1].Action)
}

func TestUpdateTaskErrors(t *testing.T) {
	h := newHarness(t, nil)
	created := h.create(t, "a")

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/tasks/nope", `{"title":"b"}`).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/tasks/nope", `{"title":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/tasks/"+created.ID, `{"title":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/tasks/"+created.ID, `nope`).Code)
	assert.Len(t, h.events.events, 1)
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t, nil)
	created := h.create(t, "a")
	h.create(t, "b")

	w := h.do(http.MethodDelete, "/tasks/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, h.store.Len())

	w = h.do(http.MethodDelete, "/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, 1, h.store.Len())

	last := h.events.events[len(h.events.events)-1]
	assert.Equal(t, models.ActionDeleted, last.Action)
	assert.Nil(t, last.Task)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	h := newHarness(t, nil)
	h.events.err = errors.New("broker down")
	w := h.do(http.MethodPost, "/tasks", `{"title":"a"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListUsesCacheAndMutationsInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr(), 2)
	require.NoError(t, err)
	c := cache.NewTaskCache(client, "node-a", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	h := newHarness(t, c)

	h.create(t, "a")
	h.do(http.MethodGet, "/tasks", "")
	require.True(t, mr.Exists(cache.ListKey("node-a")))

	// Served from cache even though the store changed underneath.
	cached := cache.Entry(h.store.Generation(), []byte(`{"tasks":[{"title":"cached"}]}`))
	require.NoError(t, mr.Set(cache.ListKey("node-a"), string(cached)))
	list := decode[models.TaskListResponse](t, h.do(http.MethodGet, "/tasks", ""))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "cached", list.Tasks[0].Title)

	h.create(t, "b")
	assert.False(t, mr.Exists(cache.ListKey("node-a")))
	list = decode[models.TaskListResponse](t, h.do(http.MethodGet, "/tasks", ""))
	assert.Len(t, list.Tasks, 2)
}

func TestListAfterCreateSeesNewTaskUnderConcurrentReads(t *testing.T) {
	for _, withCache := range []bool{false, true} {
		var c *cache.TaskCache
		if withCache {
			mr := miniredis.RunT(t)
			client, err := cache.Connect(context.Background(), "redis://"+mr.Addr(), 16)
			require.NoError(t, err)
			c = cache.NewTaskCache(client, "node-a", time.Minute)
			t.Cleanup(func() { _ = c.Close() })
		}
		h := newHarness(t, c)

		stop := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
						h.do(http.MethodGet, "/tasks", "")
					}
				}
			}()
		}

		missed := 0
		for i := 0; i < 100; i++ {
			created := h.create(t, fmt.Sprintf("t%d", i))
			list := decode[models.TaskListResponse](t, h.do(http.MethodGet, "/tasks", ""))
			found := false
			for _, task := range list.Tasks {
				if task.ID == created.ID {
					found = true
					break
				}
			}
			if !found {
				missed++
			}
		}
		close(stop)
		wg.Wait()
		assert.Zero(t, missed, "cache=%v: lists after a 201 missed the created task", withCache)
	}
}

func TestReady(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/ready", "").Code)

	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr(), 1)
	require.NoError(t, err)
	c := cache.NewTaskCache(client, "node-a", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	h = newHarness(t, c)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/ready", "").Code)

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodGet, "/ready", "").Code)
}
