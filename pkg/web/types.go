package web

import "github.com/orbithq/orbit/pkg/models"

// Request bodies for the Orbit console API. Validation tags are enforced by
// the handlers before any service call.

type GenerateWorkflowRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

type AddTaskRequest struct {
	Type          string            `json:"type" validate:"required,min=1"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      string            `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedTime string            `json:"estimated_time"`
	Order         int               `json:"order" validate:"omitempty,min=1"`
	Position      models.Position   `json:"position"`
	Config        map[string]string `json:"config"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending executing completed failed"`
	Error  string `json:"error"`
}

type UpdateTaskConfigRequest struct {
	Config map[string]string `json:"config" validate:"required"`
}

type UpdateTaskPositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ExecuteTaskRequest optionally overrides the stored task type and config,
// supporting the local-draft contract: a view may execute with a drafted
// config without committing it first.
type ExecuteTaskRequest struct {
	Type   string            `json:"type" validate:"omitempty,min=1"`
	Config map[string]string `json:"config"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required,min=1"`
	Type    string `json:"type" validate:"omitempty,oneof=user system success error warning info"`
}

type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}
