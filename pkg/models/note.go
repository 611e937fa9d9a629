package models

import "time"

// NoteType classifies workflow annotations for the notes terminal.
type NoteType string

const (
	NoteTypeUser    NoteType = "user"
	NoteTypeSystem  NoteType = "system"
	NoteTypeSuccess NoteType = "success"
	NoteTypeError   NoteType = "error"
	NoteTypeWarning NoteType = "warning"
	NoteTypeInfo    NoteType = "info"
)

// Note is a timestamped, typed annotation attached to a workflow. Notes are
// append-only except for explicit update and delete operations.
type Note struct {
	ID        string     `json:"id"        validate:"required"`
	Type      NoteType   `json:"type"      validate:"required"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Clone returns a copy of the note.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}

	clone := *n

	if n.UpdatedAt != nil {
		updatedAt := *n.UpdatedAt
		clone.UpdatedAt = &updatedAt
	}

	return &clone
}
