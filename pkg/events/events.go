// Package events defines the fixed set of state-change events for the Orbit
// workflow store. Every mutation of the store is expressed as one of these
// events; after an event is reduced and persisted it is also published on the
// event bus so views observe committed changes in dispatch order.
package events

import (
	"github.com/orbithq/orbit/pkg/models"
)

type EventType string

// Topic carries committed workflow store events.
const Topic = "orbit.workflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowsSetEvent          EventType = "workflows.set"
	WorkflowAddedEvent         EventType = "workflow.added"
	WorkflowDeletedEvent       EventType = "workflow.deleted"
	WorkflowActivatedEvent     EventType = "workflow.activated"
	WorkflowCompletedEvent     EventType = "workflow.completed"
	TaskAddedEvent             EventType = "task.added"
	TaskRemovedEvent           EventType = "task.removed"
	TaskStatusUpdatedEvent     EventType = "task.status.updated"
	TaskConfigUpdatedEvent     EventType = "task.config.updated"
	TaskPositionUpdatedEvent   EventType = "task.position.updated"
	NoteAddedEvent             EventType = "note.added"
	NoteUpdatedEvent           EventType = "note.updated"
	NoteDeletedEvent           EventType = "note.deleted"
)

// Event is implemented by every store event.
type Event interface {
	GetType() EventType
}

// SetWorkflows replaces the entire workflow map and active id. Used by
// hydration and clear-all. The activation rule is not re-applied; the caller
// is responsible for providing at most one active workflow.
type SetWorkflows struct {
	Workflows        map[string]*models.Workflow `json:"workflows"`
	ActiveWorkflowID string                      `json:"active_workflow_id"`
}

func (e SetWorkflows) GetType() EventType {
	return WorkflowsSetEvent
}

// AddWorkflow inserts a workflow. Inserting an active workflow demotes every
// other active workflow to draft and moves activation to the new workflow.
// Re-inserting an existing id replaces the whole workflow (last write wins).
type AddWorkflow struct {
	Workflow *models.Workflow `json:"workflow"`
}

func (e AddWorkflow) GetType() EventType {
	return WorkflowAddedEvent
}

type DeleteWorkflow struct {
	WorkflowID string `json:"workflow_id"`
}

func (e DeleteWorkflow) GetType() EventType {
	return WorkflowDeletedEvent
}

type SetActiveWorkflow struct {
	WorkflowID string `json:"workflow_id"`
}

func (e SetActiveWorkflow) GetType() EventType {
	return WorkflowActivatedEvent
}

// MarkWorkflowCompleted sets status=completed and stamps the completion time.
// Idempotent; task statuses are left untouched.
type MarkWorkflowCompleted struct {
	WorkflowID string `json:"workflow_id"`
}

func (e MarkWorkflowCompleted) GetType() EventType {
	return WorkflowCompletedEvent
}

// AddTask appends a task. Existing tasks are never renumbered; the service
// computes the order value before dispatching.
type AddTask struct {
	WorkflowID string       `json:"workflow_id"`
	Task       *models.Task `json:"task"`
}

func (e AddTask) GetType() EventType {
	return TaskAddedEvent
}

type RemoveTask struct {
	WorkflowID string `json:"workflow_id"`
	TaskID     string `json:"task_id"`
}

func (e RemoveTask) GetType() EventType {
	return TaskRemovedEvent
}

// UpdateTaskStatus transitions a task. completed stamps CompletedAt and
// stores Result; failed stores Error; pending clears CompletedAt, Error and
// Result for the retry path.
type UpdateTaskStatus struct {
	WorkflowID string             `json:"workflow_id"`
	TaskID     string             `json:"task_id"`
	Status     models.TaskStatus  `json:"status"`
	Error      string             `json:"error,omitempty"`
	Result     *models.TaskResult `json:"result,omitempty"`
}

func (e UpdateTaskStatus) GetType() EventType {
	return TaskStatusUpdatedEvent
}

// UpdateTaskConfig merges the provided keys into the task config,
// overwriting only keys present in Config.
type UpdateTaskConfig struct {
	WorkflowID string            `json:"workflow_id"`
	TaskID     string            `json:"task_id"`
	Config     map[string]string `json:"config"`
}

func (e UpdateTaskConfig) GetType() EventType {
	return TaskConfigUpdatedEvent
}

type UpdateTaskPosition struct {
	WorkflowID string          `json:"workflow_id"`
	TaskID     string          `json:"task_id"`
	Position   models.Position `json:"position"`
}

func (e UpdateTaskPosition) GetType() EventType {
	return TaskPositionUpdatedEvent
}

type AddNote struct {
	WorkflowID string       `json:"workflow_id"`
	Note       *models.Note `json:"note"`
}

func (e AddNote) GetType() EventType {
	return NoteAddedEvent
}

type UpdateNote struct {
	WorkflowID string `json:"workflow_id"`
	NoteID     string `json:"note_id"`
	Content    string `json:"content"`
}

func (e UpdateNote) GetType() EventType {
	return NoteUpdatedEvent
}

type DeleteNote struct {
	WorkflowID string `json:"workflow_id"`
	NoteID     string `json:"note_id"`
}

func (e DeleteNote) GetType() EventType {
	return NoteDeletedEvent
}
