// Package todo keeps an ordered, in-memory list of todo items.
package todo

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskboard/internal/models"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation (uuid by default).
func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// Store owns a list of todo items in insertion order.
type Store struct {
	mu    sync.Mutex
	items []models.TodoItem
	now   func() time.Time
	newID func() string
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add appends a pending item and returns it.
func (s *Store) Add(title, description string) models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.TodoItem{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	s.items = append(s.items, item)
	return item
}

// Remove deletes every item with id and reports whether any existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(t models.TodoItem) bool { return t.ID == id })
	return len(s.items) < n
}

// Toggle flips IsCompleted on the first item with id.
func (s *Store) Toggle(id string) (models.TodoItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(t models.TodoItem) bool { return t.ID == id })
	if i < 0 {
		return models.TodoItem{}, false
	}
	s.items[i].IsCompleted = !s.items[i].IsCompleted
	return s.items[i], true
}

// List returns a copy of all items in insertion order.
func (s *Store) List() []models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// ListCompleted returns the completed items.
func (s *Store) ListCompleted() []models.TodoItem {
	return s.filter(func(t models.TodoItem) bool { return t.IsCompleted })
}

// ListPending returns the items not yet completed.
func (s *Store) ListPending() []models.TodoItem {
	return s.filter(func(t models.TodoItem) bool { return !t.IsCompleted })
}

// ClearCompleted removes completed items and returns how many were removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(t models.TodoItem) bool { return t.IsCompleted })
	return n - len(s.items)
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) filter(keep func(models.TodoItem) bool) []models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TodoItem, 0, len(s.items))
	for _, t := range s.items {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
