package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
	"taskboard/internal/apperrors"
	"taskboard/internal/cache"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"
)

// EventPublisher receives one event per successful mutation.
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, ev models.TaskEvent) error
}

// TaskController serves the task resource from an injected store.
type TaskController struct {
	store    *repository.TaskStore
	cache    *cache.TaskCache
	events   EventPublisher
	instance string
	now      func() time.Time
	listOnce singleflight.Group
}

// NewTaskController wires the handlers. cache and events may be nil.
func NewTaskController(store *repository.TaskStore, c *cache.TaskCache, events EventPublisher, instanceID string) *TaskController {
	return &TaskController{
		store:    store,
		cache:    c,
		events:   events,
		instance: instanceID,
		now:      time.Now,
	}
}

// ListTasks returns {"tasks": [...]} newest first, cache-first as raw bytes.
// Cache entries and shared builds are keyed by store generation, so a
// request never sees a list older than the last write it observed.
func (tc *TaskController) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	gen := tc.store.Generation()
	if b, ok := tc.cache.GetRawTasks(ctx, gen); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}
	v, err, _ := tc.listOnce.Do("tasks:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		tasks, built := tc.store.Snapshot(ctx)
		b, err := json.Marshal(models.TaskListResponse{Tasks: tasks})
		if err != nil {
			return nil, err
		}
		return listBody{gen: built, body: b}, nil
	})
	if err != nil {
		logger.Error(ctx, "ListTasks marshal failed", "error", err)
		respondError(c, err)
		return
	}
	lb := v.(listBody)
	tc.cache.SetRawTasks(ctx, lb.gen, lb.body)
	c.Data(http.StatusOK, "application/json", lb.body)
}

type listBody struct {
	gen  uint64
	body []byte
}

// GetTask returns {"task": {...}} or 404.
func (tc *TaskController) GetTask(c *gin.Context) {
	task, err := tc.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TaskResponse{Task: task})
}

// CreateTask validates the body, assigns id and createdAt, returns 201.
func (tc *TaskController) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	var body models.Task
	if err := c.ShouldBindJSON(&body); err != nil {
		respondInvalidBody(c, err)
		return
	}
	task, err := tc.store.Create(ctx, body)
	if err != nil {
		respondError(c, err)
		return
	}
	tc.changed(ctx, models.ActionCreated, task.ID, &task)
	c.JSON(http.StatusCreated, models.TaskResponse{Task: task})
}

// UpdateTask replaces title, description and completion; createdAt is kept.
func (tc *TaskController) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	var body models.Task
	if err := c.ShouldBindJSON(&body); err != nil {
		respondInvalidBody(c, err)
		return
	}
	task, err := tc.store.Update(ctx, c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	tc.changed(ctx, models.ActionUpdated, task.ID, &task)
	c.JSON(http.StatusOK, models.TaskResponse{Task: task})
}

// DeleteTask returns 204, or 404 for an unknown id.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := tc.store.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	tc.changed(ctx, models.ActionDeleted, id, nil)
	c.Status(http.StatusNoContent)
}

// changed invalidates the cached list and publishes the change. Publish
// failures are logged; the mutation has already happened.
func (tc *TaskController) changed(ctx context.Context, action, id string, task *models.Task) {
	tc.cache.InvalidateTasks(ctx)
	if tc.events == nil {
		return
	}
	ev := models.TaskEvent{
		Action:     action,
		TaskID:     id,
		Task:       task,
		Instance:   tc.instance,
		OccurredAt: tc.now(),
	}
	if err := tc.events.PublishTaskEvent(ctx, ev); err != nil {
		logger.Error(ctx, "Task event publish failed", "error", err, "action", action, "id", id)
	}
}

// Health returns 200 if the process is alive. Used by load balancers.
func (tc *TaskController) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 unless a configured redis is unreachable.
func (tc *TaskController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := tc.cache.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	c.String(http.StatusOK, "OK")
}

func respondInvalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "BAD_REQUEST",
		Message: "Invalid request: " + err.Error(),
	})
}

func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(apperrors.HTTPStatus(err), models.ErrorResponse{Error: appErr.Code, Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "INTERNAL_ERROR", Message: err.Error()})
}
