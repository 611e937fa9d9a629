// Package models defines the core domain models for the Orbit outreach console.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft     WorkflowStatus = "draft"     // Editable, not focused
	WorkflowStatusActive    WorkflowStatus = "active"    // The single workflow the console is focused on
	WorkflowStatusCompleted WorkflowStatus = "completed" // Terminal unless duplicated
)

// Priority grades workflows and tasks for display ordering.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Workflow is a named, ordered collection of outreach tasks targeted at one
// person. Cross-entity references are held as ids only; person records are
// resolved at the boundary.
type Workflow struct {
	ID          string         `json:"id"          validate:"required"`
	PersonID    string         `json:"person_id,omitempty"`
	Name        string         `json:"name"        validate:"required"`
	Description string         `json:"description"`
	Status      WorkflowStatus `json:"status"      validate:"required,oneof=draft active completed"`
	Priority    Priority       `json:"priority"`
	GeneratedAt time.Time      `json:"generated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Tasks       []*Task        `json:"tasks"`
	Notes       []*Note        `json:"notes"`
}

// TaskByID returns the task with the given id, or nil.
func (w *Workflow) TaskByID(taskID string) *Task {
	for _, task := range w.Tasks {
		if task.ID == taskID {
			return task
		}
	}

	return nil
}

// NoteByID returns the note with the given id, or nil.
func (w *Workflow) NoteByID(noteID string) *Note {
	for _, note := range w.Notes {
		if note.ID == noteID {
			return note
		}
	}

	return nil
}

// TaskByOrder returns the task holding the given order value, or nil.
func (w *Workflow) TaskByOrder(order int) *Task {
	for _, task := range w.Tasks {
		if task.Order == order {
			return task
		}
	}

	return nil
}

// NextTaskOrder returns max(existing orders)+1, so appended tasks keep
// order values distinct within the workflow.
func (w *Workflow) NextTaskOrder() int {
	maxOrder := 0

	for _, task := range w.Tasks {
		if task.Order > maxOrder {
			maxOrder = task.Order
		}
	}

	return maxOrder + 1
}

// Clone returns a deep copy of the workflow.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	clone := *w

	if w.CompletedAt != nil {
		completedAt := *w.CompletedAt
		clone.CompletedAt = &completedAt
	}

	clone.Tasks = make([]*Task, 0, len(w.Tasks))
	for _, task := range w.Tasks {
		clone.Tasks = append(clone.Tasks, task.Clone())
	}

	clone.Notes = make([]*Note, 0, len(w.Notes))
	for _, note := range w.Notes {
		clone.Notes = append(clone.Notes, note.Clone())
	}

	return &clone
}
