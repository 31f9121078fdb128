package models

import "time"

// DefaultNoteColor is used when a note is created without a color.
const DefaultNoteColor = "#FFFFFF"

// Note is a titled text note with a display color (hex string).
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Color     string    `json:"color"`
}
