package taskclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

// flakyAPI wraps a real client and can fail every call.
type flakyAPI struct {
	TaskAPI
	fail error
}

func (f *flakyAPI) ListTasks(ctx context.Context) ([]models.Task, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.TaskAPI.ListTasks(ctx)
}

func (f *flakyAPI) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if f.fail != nil {
		return models.Task{}, f.fail
	}
	return f.TaskAPI.CreateTask(ctx, t)
}

func newRepo(t *testing.T) (*Repository, *flakyAPI) {
	srv := newServer(t)
	api := &flakyAPI{TaskAPI: New(srv.URL, "/api")}
	return NewRepository(api), api
}

func TestRepositoryCreateToggleDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)

	created, err := r.Create(ctx, "a", "desc")
	require.NoError(t, err)
	assert.False(t, created.IsCompleted)
	require.Len(t, r.Tasks(), 1)

	toggled, err := r.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)
	assert.Equal(t, "desc", toggled.Description)
	assert.True(t, r.Tasks()[0].IsCompleted)

	toggled, err = r.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.Empty(t, r.Tasks())
	assert.NoError(t, r.Err())
}

func TestRepositoryLoad(t *testing.T) {
	ctx := context.Background()
	r, api := newRepo(t)
	_, err := api.CreateTask(ctx, models.Task{Title: "remote"})
	require.NoError(t, err)

	require.NoError(t, r.Load(ctx))
	require.Len(t, r.Tasks(), 1)
	assert.Equal(t, "remote", r.Tasks()[0].Title)

	got, err := r.Get(ctx, r.Tasks()[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "remote", got.Title)
}

func TestRepositoryUnknownIDFailsLocally(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)

	_, err := r.Toggle(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, r.Err(), "failed to toggle task: Task not found")

	_, err = r.Update(ctx, "missing", "t", "", false)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepositoryGetClearsPreviousError(t *testing.T) {
	ctx := context.Background()
	r, api := newRepo(t)
	created, err := api.CreateTask(ctx, models.Task{Title: "a"})
	require.NoError(t, err)

	_, err = r.Toggle(ctx, "missing")
	require.Error(t, err)
	require.Error(t, r.Err())

	_, err = r.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, r.Err())
}

func TestRepositoryRecordsFailures(t *testing.T) {
	ctx := context.Background()
	r, api := newRepo(t)
	api.fail = errors.New("connection refused")

	_, err := r.Create(ctx, "a", "")
	require.Error(t, err)
	assert.EqualError(t, r.Err(), "failed to create task: connection refused")
	assert.Empty(t, r.Tasks())

	api.fail = nil
	require.NoError(t, r.Load(ctx))
	assert.NoError(t, r.Err())

	err = r.Delete(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Error(t, r.Err())
}
