package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/executor"
	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/otelhelper"
)

// ExecuteTask runs one task end to end: pre-mark executing, build the typed
// payload, dispatch to the executor, post-mark completed or failed, and log
// a note with the outcome.
//
// The executing status is observable by subscribers before the executor call
// begins, and the terminal status is observable before ExecuteTask returns.
// A failure classification is returned to the caller after the state has
// been updated. There are no automatic retries; the retry path is an
// explicit UpdateTaskStatus to pending followed by another ExecuteTask.
func (s *Service) ExecuteTask(ctx context.Context, workflowID, taskID string, taskType models.TaskType, config map[string]string) error {
	if s.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, s.tracer, "service.execute_task",
			attribute.String(otelhelper.WorkflowIDKey, workflowID),
			attribute.String(otelhelper.TaskIDKey, taskID),
			attribute.String(otelhelper.TaskTypeKey, string(taskType)),
		)
		defer span.End()
	}

	span := trace.SpanFromContext(ctx)

	task, err := s.findTask(workflowID, taskID)
	if err != nil {
		return err
	}

	// Idempotence guard: callers are expected to await the previous call on
	// the same task; a second concurrent call no-ops with a conflict.
	if task.Status == models.TaskStatusExecuting {
		return ErrTaskAlreadyExecuting
	}

	s.store.Dispatch(ctx, events.UpdateTaskStatus{
		WorkflowID: workflowID,
		TaskID:     taskID,
		Status:     models.TaskStatusExecuting,
	})

	payload, err := executor.BuildPayload(taskType, config)
	if err != nil {
		s.failTask(ctx, workflowID, taskID, err.Error())
		otelhelper.SetError(span, err)

		return err
	}

	s.logger.InfoContext(ctx, "Executing task", "workflow_id", workflowID, "task_id", taskID, "action", payload.Action)

	response, err := s.executor.Execute(ctx, payload)
	if err != nil {
		s.failTask(ctx, workflowID, taskID, err.Error())
		otelhelper.SetError(span, err)

		return err
	}

	if executor.IsFailure(response) {
		s.failTask(ctx, workflowID, taskID, response)

		err := fmt.Errorf("%w: %s", ErrTaskExecutionFailed, response)
		otelhelper.SetError(span, err)

		return err
	}

	s.store.Dispatch(ctx, events.UpdateTaskStatus{
		WorkflowID: workflowID,
		TaskID:     taskID,
		Status:     models.TaskStatusCompleted,
		Result:     &models.TaskResult{Success: true, Response: response},
	})
	s.appendNote(ctx, workflowID, response, models.NoteTypeSystem)

	return nil
}

// failTask marks the task failed with the given message and logs an error
// note. State is updated before any error propagates to the caller.
func (s *Service) failTask(ctx context.Context, workflowID, taskID, message string) {
	s.store.Dispatch(ctx, events.UpdateTaskStatus{
		WorkflowID: workflowID,
		TaskID:     taskID,
		Status:     models.TaskStatusFailed,
		Error:      message,
	})
	s.appendNote(ctx, workflowID, "Task failed: "+message, models.NoteTypeError)
}

func (s *Service) appendNote(ctx context.Context, workflowID, content string, noteType models.NoteType) {
	if _, err := s.AddNote(ctx, workflowID, content, noteType); err != nil {
		s.logger.WarnContext(ctx, "Failed to append note", "workflow_id", workflowID, "error", err)
	}
}
