package models

import "time"

// TaskType identifies the kind of outreach a task performs. The set is open:
// unknown types are stored as-is, but only the types the action executor
// understands can be executed.
type TaskType string

const (
	TaskTypeEmail    TaskType = "email"
	TaskTypePhone    TaskType = "phone"
	TaskTypeCalendar TaskType = "calendar"
	TaskTypeSlack    TaskType = "slack"
	TaskTypeNotion   TaskType = "notion"
	TaskTypeDocument TaskType = "document"

	// Networking variants. Stored and displayed, not executable.
	TaskTypeLinkedInConnect TaskType = "linkedin_connect"
	TaskTypeCoffeeChat      TaskType = "coffee_chat"
	TaskTypeIntroduction    TaskType = "introduction"
	TaskTypeEventFollowUp   TaskType = "event_follow_up"
)

// TaskStatus defines the lifecycle states of a task.
//
// Transitions: pending -> executing -> completed | failed, and
// failed -> pending on retry. completed is terminal except for bulk
// operations (workflow deletion, duplication).
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusExecuting TaskStatus = "executing"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Position holds 2D flowchart layout coordinates. Opaque to the core.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TaskResult is the opaque payload stored when a task completes.
type TaskResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// Task is one unit of outreach with a config bag and a lifecycle status.
// Config stays schema-light here; the executor boundary maps recognized
// keys into a typed payload.
type Task struct {
	ID            string            `json:"id"       validate:"required"`
	Type          TaskType          `json:"type"     validate:"required"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      Priority          `json:"priority"`
	EstimatedTime string            `json:"estimated_time"`
	Status        TaskStatus        `json:"status"   validate:"required,oneof=pending executing completed failed"`
	Order         int               `json:"order"    validate:"min=1"`
	Position      Position          `json:"position"`
	Config        map[string]string `json:"config"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	Error         string            `json:"error,omitempty"`
	Result        *TaskResult       `json:"result,omitempty"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}

	clone := *t

	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}

	if t.Result != nil {
		result := *t.Result
		clone.Result = &result
	}

	clone.Config = make(map[string]string, len(t.Config))
	for k, v := range t.Config {
		clone.Config[k] = v
	}

	return &clone
}
