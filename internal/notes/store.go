// Package notes keeps in-memory notes, listed most recently edited first.
package notes

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskboard/internal/models"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation (uuid by default).
func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// Store owns a collection of notes.
type Store struct {
	mu    sync.Mutex
	notes []models.Note // insertion order
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

// Add creates a note. An empty color means models.DefaultNoteColor.
func (s *Store) Add(title, content, color string) models.Note {
	if color == "" {
		color = models.DefaultNoteColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := models.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Color:     color,
	}
	s.notes = append(s.notes, n)
	return n
}

// Update replaces title and content of the first note with id and refreshes
// UpdatedAt. A nil color keeps the existing one.
func (s *Store) Update(id, title, content string, color *string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, false
	}
	n := &s.notes[i]
	n.Title = title
	n.Content = content
	if color != nil {
		n.Color = *color
	}
	n.UpdatedAt = s.now()
	return *n, true
}

// Delete removes every note with id and reports whether any existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.notes)
	s.notes = slices.DeleteFunc(s.notes, func(n models.Note) bool { return n.ID == id })
	return len(s.notes) < n
}

// Get returns the first note with id.
func (s *Store) Get(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return models.Note{}, false
}

// List returns all notes by UpdatedAt descending; ties keep insertion order.
func (s *Store) List() []models.Note {
	s.mu.Lock()
	out := slices.Clone(s.notes)
	s.mu.Unlock()
	sortByRecent(out)
	return out
}

// Search returns notes whose title or content contains query, ignoring case,
// in the same order as List. An empty query matches every note.
func (s *Store) Search(query string) []models.Note {
	q := strings.ToLower(query)
	s.mu.Lock()
	out := []models.Note{}
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	s.mu.Unlock()
	sortByRecent(out)
	return out
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id })
}

func sortByRecent(notes []models.Note) {
	slices.SortStableFunc(notes, func(a, b models.Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}
