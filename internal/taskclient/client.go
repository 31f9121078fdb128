// Package taskclient talks to the task resource over HTTP.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

// TasksPath is the resource path below the API prefix.
const TasksPath = "/tasks"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("task api: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap classifies 404 as NotFound and 400 as Validation.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return apperrors.NotFound(e.Code, e.Message)
	case http.StatusBadRequest:
		return apperrors.Validation(e.Code, e.Message)
	}
	return nil
}

// Client calls one server. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for baseURL+prefix, e.g. ("http://localhost:8080", "/api").
func New(baseURL, prefix string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + prefix + TasksPath,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListTasks returns every task, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var out models.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// GetTask returns the task with id. A 404 is an apperrors NotFound.
func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var out models.TaskResponse
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &out); err != nil {
		return models.Task{}, err
	}
	return out.Task, nil
}

// CreateTask posts task; the server assigns id and createdAt.
func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var out models.TaskResponse
	if err := c.do(ctx, http.MethodPost, "", task, &out); err != nil {
		return models.Task{}, err
	}
	return out.Task, nil
}

// UpdateTask replaces title, description and completion of task id.
func (c *Client) UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error) {
	var out models.TaskResponse
	if err := c.do(ctx, http.MethodPut, taskPath(id), task, &out); err != nil {
		return models.Task{}, err
	}
	return out.Task, nil
}

// DeleteTask removes task id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// taskPath escapes id so "/", "?" and "#" stay inside the path segment.
func taskPath(id string) string {
	return "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var er models.ErrorResponse
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && json.Unmarshal(b, &er) == nil {
		apiErr.Code = er.Error
		apiErr.Message = er.Message
	}
	return apiErr
}
