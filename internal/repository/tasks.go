package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// ErrBlankTitle is returned when a task is created or updated without a title.
var ErrBlankTitle = apperrors.Validation("BAD_REQUEST", "Task title is required")

// ErrTaskNotFound builds the not-found error for id.
func ErrTaskNotFound(id string) error {
	return apperrors.NotFound("NOT_FOUND", fmt.Sprintf("Task with ID %s not found", id))
}

// TaskStore is the process-local task list behind the REST resource.
// All methods are safe for concurrent use.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []models.Task
	gen   uint64 // bumped by every successful mutation
	now   func() time.Time
	newID func() string
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

// WithIDGenerator overrides id generation (uuid by default).
func WithIDGenerator(next func() string) Option {
	return func(s *TaskStore) { s.newID = next }
}

// NewTaskStore returns an empty store.
func NewTaskStore(opts ...Option) *TaskStore {
	s := &TaskStore{now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetAll returns all tasks, newest createdAt first (missing createdAt sorts as oldest).
func (s *TaskStore) GetAll(ctx context.Context) []models.Task {
	tasks, _ := s.Snapshot(ctx)
	return tasks
}

// Generation returns the current mutation counter.
func (s *TaskStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Snapshot returns GetAll's list together with the generation it was read at.
func (s *TaskStore) Snapshot(ctx context.Context) ([]models.Task, uint64) {
	s.mu.RLock()
	gen := s.gen
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, clone(t))
	}
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b models.Task) int {
		ca, cb := a.CreatedAtMillis(), b.CreatedAtMillis()
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		}
		return 0
	})
	return out, gen
}

// Get returns the task with id.
func (s *TaskStore) Get(ctx context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return clone(s.tasks[i]), nil
	}
	return models.Task{}, ErrTaskNotFound(id)
}

// Create stores a new task. Any id or createdAt on in is replaced.
func (s *TaskStore) Create(ctx context.Context, in models.Task) (models.Task, error) {
	if isBlank(in.Title) {
		return models.Task{}, ErrBlankTitle
	}
	task := models.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		IsCompleted: in.IsCompleted,
		CreatedAt:   models.Millis(s.now()),
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.gen++
	s.mu.Unlock()
	logger.Debug(ctx, "Task created", "id", task.ID)
	return clone(task), nil
}

// Update replaces title, description and completion of the task with id,
// keeping its id and createdAt. Unknown ids are reported before blank titles.
func (s *TaskStore) Update(ctx context.Context, id string, in models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound(id)
	}
	if isBlank(in.Title) {
		return models.Task{}, ErrBlankTitle
	}
	t := &s.tasks[i]
	t.Title = in.Title
	t.Description = in.Description
	t.IsCompleted = in.IsCompleted
	s.gen++
	logger.Debug(ctx, "Task updated", "id", id)
	return clone(*t), nil
}

// Delete removes every task with id.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	if len(s.tasks) == n {
		return ErrTaskNotFound(id)
	}
	s.gen++
	logger.Debug(ctx, "Task deleted", "id", id)
	return nil
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *TaskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func clone(t models.Task) models.Task {
	if t.CreatedAt != nil {
		ms := *t.CreatedAt
		t.CreatedAt = &ms
	}
	return t
}
