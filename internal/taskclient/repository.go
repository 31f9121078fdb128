package taskclient

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

// TaskAPI is the remote side of a Repository. *Client implements it.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

var errNotInSnapshot = apperrors.NotFound("NOT_FOUND", "Task not found")

// Repository keeps a local snapshot of the server's tasks for a UI layer
// and keeps it in step with every successful remote call.
type Repository struct {
	api TaskAPI

	mu      sync.RWMutex
	tasks   []models.Task
	lastErr error
}

// NewRepository returns a repository with an empty snapshot; call Load to fill it.
func NewRepository(api TaskAPI) *Repository {
	return &Repository{api: api}
}

// Tasks returns a copy of the snapshot.
func (r *Repository) Tasks() []models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tasks)
}

// Err returns the most recent failure, cleared when the next call starts.
func (r *Repository) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Load replaces the snapshot with the server's list.
func (r *Repository) Load(ctx context.Context) error {
	r.setErr(nil)
	tasks, err := r.api.ListTasks(ctx)
	if err != nil {
		return r.fail("load tasks", err)
	}
	r.mu.Lock()
	r.tasks = tasks
	r.mu.Unlock()
	return nil
}

// Get fetches one task from the server without touching the snapshot.
func (r *Repository) Get(ctx context.Context, id string) (models.Task, error) {
	r.setErr(nil)
	task, err := r.api.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, r.fail("get task", err)
	}
	return task, nil
}

// Create adds a pending task and appends the server's copy to the snapshot.
func (r *Repository) Create(ctx context.Context, title, description string) (models.Task, error) {
	r.setErr(nil)
	created, err := r.api.CreateTask(ctx, models.Task{Title: title, Description: description})
	if err != nil {
		return models.Task{}, r.fail("create task", err)
	}
	r.mu.Lock()
	r.tasks = append(r.tasks, created)
	r.mu.Unlock()
	return created, nil
}

// Update sends new fields for a task known to the snapshot.
func (r *Repository) Update(ctx context.Context, id, title, description string, completed bool) (models.Task, error) {
	r.setErr(nil)
	existing, ok := r.find(id)
	if !ok {
		return models.Task{}, r.fail("update task", errNotInSnapshot)
	}
	updated, err := r.api.UpdateTask(ctx, id, models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		IsCompleted: completed,
		CreatedAt:   existing.CreatedAt,
	})
	if err != nil {
		return models.Task{}, r.fail("update task", err)
	}
	r.mu.Lock()
	if i := r.indexOf(id); i >= 0 {
		r.tasks[i] = updated
	}
	r.mu.Unlock()
	return updated, nil
}

// Delete removes the task remotely, then from the snapshot.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.setErr(nil)
	if err := r.api.DeleteTask(ctx, id); err != nil {
		return r.fail("delete task", err)
	}
	r.mu.Lock()
	r.tasks = slices.DeleteFunc(r.tasks, func(t models.Task) bool { return t.ID == id })
	r.mu.Unlock()
	return nil
}

// Toggle flips completion of a task known to the snapshot.
func (r *Repository) Toggle(ctx context.Context, id string) (models.Task, error) {
	existing, ok := r.find(id)
	if !ok {
		return models.Task{}, r.fail("toggle task", errNotInSnapshot)
	}
	return r.Update(ctx, id, existing.Title, existing.Description, !existing.IsCompleted)
}

func (r *Repository) find(id string) (models.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i], true
	}
	return models.Task{}, false
}

func (r *Repository) indexOf(id string) int {
	return slices.IndexFunc(r.tasks, func(t models.Task) bool { return t.ID == id })
}

func (r *Repository) setErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

func (r *Repository) fail(op string, err error) error {
	err = fmt.Errorf("failed to %s: %w", op, err)
	r.setErr(err)
	return err
}
