// Package service is the action layer over the workflow store. Views and the
// REST surface call these operations; each one validates against the current
// snapshot, dispatches store events, and sequences side effects (executor
// calls, note logging) around the dispatches.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/executor"
	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/persistence"
	"github.com/orbithq/orbit/pkg/store"
)

// ActionExecutor dispatches a typed action payload to the external executor
// and returns its response text.
type ActionExecutor interface {
	Execute(ctx context.Context, payload executor.Payload) (string, error)
}

// Service implements the workflow operations of the Orbit console.
type Service struct {
	store       *store.Store
	executor    ActionExecutor
	persistence persistence.Persistence
	logger      *slog.Logger
	tracer      trace.Tracer
	deleteDelay time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithDeleteDelay sets the simulated latency applied before a workflow
// deletion is dispatched.
func WithDeleteDelay(d time.Duration) Option {
	return func(s *Service) {
		s.deleteDelay = d
	}
}

// WithTracer enables tracing spans around task executions.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New creates a workflow service. persist may be nil when clear-all support
// is not needed (tests).
func New(st *store.Store, exec ActionExecutor, persist persistence.Persistence, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		store:       st,
		executor:    exec,
		persistence: persist,
		logger:      logger.With("module", "service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddTaskToWorkflow appends a task, assigning id, default status and the
// next order value when unset, and returns the inserted task's id. Order
// values stay distinct within a workflow; a caller-provided order that
// collides with an existing task is reassigned to the next free one.
func (s *Service) AddTaskToWorkflow(ctx context.Context, workflowID string, task *models.Task) (string, error) {
	workflow := s.store.Snapshot().Workflow(workflowID)
	if workflow == nil {
		return "", ErrWorkflowNotFound
	}

	inserted := task.Clone()
	if inserted.ID == "" {
		inserted.ID = uuid.New().String()
	}

	if inserted.Status == "" {
		inserted.Status = models.TaskStatusPending
	}

	if inserted.Order <= 0 || workflow.TaskByOrder(inserted.Order) != nil {
		inserted.Order = workflow.NextTaskOrder()
	}

	s.store.Dispatch(ctx, events.AddTask{WorkflowID: workflowID, Task: inserted})

	return inserted.ID, nil
}

// RemoveTaskFromWorkflow removes a task without renumbering the remaining
// ones. Only pending and failed tasks may be removed; executing and
// completed work is protected (whole-workflow deletion is the way out).
func (s *Service) RemoveTaskFromWorkflow(ctx context.Context, workflowID, taskID string) error {
	task, err := s.findTask(workflowID, taskID)
	if err != nil {
		return err
	}

	if task.Status != models.TaskStatusPending && task.Status != models.TaskStatusFailed {
		return ErrTaskNotRemovable
	}

	s.store.Dispatch(ctx, events.RemoveTask{WorkflowID: workflowID, TaskID: taskID})

	return nil
}

// UpdateTaskStatus transitions a task's status directly. Used by the retry
// path (failed -> pending) and by views.
func (s *Service) UpdateTaskStatus(ctx context.Context, workflowID, taskID string, status models.TaskStatus, errorMessage string, result *models.TaskResult) error {
	if _, err := s.findTask(workflowID, taskID); err != nil {
		return err
	}

	s.store.Dispatch(ctx, events.UpdateTaskStatus{
		WorkflowID: workflowID,
		TaskID:     taskID,
		Status:     status,
		Error:      errorMessage,
		Result:     result,
	})

	return nil
}

// UpdateTaskConfig merges the provided keys into the task's config.
func (s *Service) UpdateTaskConfig(ctx context.Context, workflowID, taskID string, config map[string]string) error {
	if _, err := s.findTask(workflowID, taskID); err != nil {
		return err
	}

	s.store.Dispatch(ctx, events.UpdateTaskConfig{
		WorkflowID: workflowID,
		TaskID:     taskID,
		Config:     config,
	})

	return nil
}

// UpdateTaskPosition replaces the task's flowchart coordinates.
func (s *Service) UpdateTaskPosition(ctx context.Context, workflowID, taskID string, position models.Position) error {
	if _, err := s.findTask(workflowID, taskID); err != nil {
		return err
	}

	s.store.Dispatch(ctx, events.UpdateTaskPosition{
		WorkflowID: workflowID,
		TaskID:     taskID,
		Position:   position,
	})

	return nil
}

// AddNote appends a note with a fresh id and the current timestamp. An empty
// note type defaults to user.
func (s *Service) AddNote(ctx context.Context, workflowID, content string, noteType models.NoteType) (string, error) {
	if s.store.Snapshot().Workflow(workflowID) == nil {
		return "", ErrWorkflowNotFound
	}

	if noteType == "" {
		noteType = models.NoteTypeUser
	}

	note := &models.Note{
		ID:        uuid.New().String(),
		Type:      noteType,
		Content:   content,
		Timestamp: time.Now(),
	}

	s.store.Dispatch(ctx, events.AddNote{WorkflowID: workflowID, Note: note})

	return note.ID, nil
}

// UpdateNote replaces a note's content and stamps UpdatedAt.
func (s *Service) UpdateNote(ctx context.Context, workflowID, noteID, content string) error {
	if err := s.findNote(workflowID, noteID); err != nil {
		return err
	}

	s.store.Dispatch(ctx, events.UpdateNote{WorkflowID: workflowID, NoteID: noteID, Content: content})

	return nil
}

// DeleteNote removes a note from the workflow's notes list.
func (s *Service) DeleteNote(ctx context.Context, workflowID, noteID string) error {
	if err := s.findNote(workflowID, noteID); err != nil {
		return err
	}

	s.store.Dispatch(ctx, events.DeleteNote{WorkflowID: workflowID, NoteID: noteID})

	return nil
}

// SetActiveWorkflow focuses the given workflow. Completed workflows may be
// focused; their status is not changed.
func (s *Service) SetActiveWorkflow(ctx context.Context, workflowID string) error {
	if s.store.Snapshot().Workflow(workflowID) == nil {
		return ErrWorkflowNotFound
	}

	s.store.Dispatch(ctx, events.SetActiveWorkflow{WorkflowID: workflowID})

	return nil
}

// DeleteWorkflow removes a workflow after the configured delay. The delay is
// interruptible through the context.
func (s *Service) DeleteWorkflow(ctx context.Context, workflowID string) error {
	if s.store.Snapshot().Workflow(workflowID) == nil {
		return ErrWorkflowNotFound
	}

	if s.deleteDelay > 0 {
		timer := time.NewTimer(s.deleteDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	s.store.Dispatch(ctx, events.DeleteWorkflow{WorkflowID: workflowID})

	return nil
}

// MarkWorkflowAsCompleted appends a system note and then marks the workflow
// completed, so subscribers observe both in that order.
func (s *Service) MarkWorkflowAsCompleted(ctx context.Context, workflowID string) error {
	if s.store.Snapshot().Workflow(workflowID) == nil {
		return ErrWorkflowNotFound
	}

	if _, err := s.AddNote(ctx, workflowID, "Workflow marked as completed", models.NoteTypeSystem); err != nil {
		return err
	}

	s.store.Dispatch(ctx, events.MarkWorkflowCompleted{WorkflowID: workflowID})

	return nil
}

// DuplicateWorkflow deep-copies a workflow into a fresh draft: new workflow
// and task ids, every task reset to pending with its completion markers
// cleared, and a system note recording the origin. Returns the duplicate's id.
func (s *Service) DuplicateWorkflow(ctx context.Context, workflowID string) (string, error) {
	original := s.store.Snapshot().Workflow(workflowID)
	if original == nil {
		return "", ErrWorkflowNotFound
	}

	duplicate := original.Clone()
	duplicate.ID = uuid.New().String()
	duplicate.Status = models.WorkflowStatusDraft
	duplicate.GeneratedAt = time.Now()
	duplicate.CompletedAt = nil

	for _, task := range duplicate.Tasks {
		task.ID = uuid.New().String()
		task.Status = models.TaskStatusPending
		task.CompletedAt = nil
		task.Error = ""
		task.Result = nil
	}

	duplicate.Notes = append(duplicate.Notes, &models.Note{
		ID:        uuid.New().String(),
		Type:      models.NoteTypeSystem,
		Content:   "Duplicated from workflow " + original.Name,
		Timestamp: time.Now(),
	})

	s.store.Dispatch(ctx, events.AddWorkflow{Workflow: duplicate})

	return duplicate.ID, nil
}

// ClearAllData removes the persisted snapshot and resets the store to the
// default empty state.
func (s *Service) ClearAllData(ctx context.Context) error {
	if s.persistence != nil {
		if err := s.persistence.Clear(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to clear persisted state", "error", err)
		}
	}

	s.store.Dispatch(ctx, events.SetWorkflows{
		Workflows:        map[string]*models.Workflow{},
		ActiveWorkflowID: "",
	})

	return nil
}

func (s *Service) findTask(workflowID, taskID string) (*models.Task, error) {
	workflow := s.store.Snapshot().Workflow(workflowID)
	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	task := workflow.TaskByID(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *Service) findNote(workflowID, noteID string) error {
	workflow := s.store.Snapshot().Workflow(workflowID)
	if workflow == nil {
		return ErrWorkflowNotFound
	}

	if workflow.NoteByID(noteID) == nil {
		return ErrNoteNotFound
	}

	return nil
}
