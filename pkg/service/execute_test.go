package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/service"
)

func TestExecuteTaskSuccess(t *testing.T) {
	ctx := context.Background()
	exec := &stubExecutor{response: "Email sent to ada@example.com"}
	svc, st := newTestService(t, exec)
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, pendingTask("task-1", 1))

	err := svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeEmail, map[string]string{
		"recipient": "ada@example.com",
		"subject":   "Quick intro",
		"message":   "Hello Ada",
	})
	require.NoError(t, err)

	task := svc.GetWorkflow("workflow-1").TaskByID("task-1")
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	require.NotNil(t, task.Result)
	assert.True(t, task.Result.Success)
	assert.Equal(t, "Email sent to ada@example.com", task.Result.Response)
	assert.Empty(t, task.Error)

	// The executor received the mapped payload.
	require.Len(t, exec.payloads, 1)
	assert.Equal(t, "email", exec.payloads[0].Action)
	assert.Equal(t, "ada@example.com", exec.payloads[0].Address)
	assert.Equal(t, "Quick intro\n\nHello Ada", exec.payloads[0].Message)

	// The response is logged verbatim as a system note.
	notes := svc.GetNotes("workflow-1")
	require.Len(t, notes, 1)
	assert.Equal(t, models.NoteTypeSystem, notes[0].Type)
	assert.Equal(t, "Email sent to ada@example.com", notes[0].Content)
}

func TestExecuteTaskFailureResponse(t *testing.T) {
	ctx := context.Background()
	exec := &stubExecutor{response: "Action failed: mailbox unavailable"}
	svc, st := newTestService(t, exec)
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, pendingTask("task-1", 1))

	err := svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeEmail, map[string]string{
		"recipient": "ada@example.com",
		"message":   "Hello",
	})
	require.ErrorIs(t, err, service.ErrTaskExecutionFailed)

	task := svc.GetWorkflow("workflow-1").TaskByID("task-1")
	assert.Equal(t, models.TaskStatusFailed, task.Status)
	assert.Equal(t, "Action failed: mailbox unavailable", task.Error)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.Result)

	notes := svc.GetNotes("workflow-1")
	require.Len(t, notes, 1)
	assert.Equal(t, models.NoteTypeError, notes[0].Type)
	assert.Equal(t, "Task failed: Action failed: mailbox unavailable", notes[0].Content)
}

func TestExecuteTaskTransportError(t *testing.T) {
	ctx := context.Background()
	exec := &stubExecutor{err: errors.New("connection refused")}
	svc, st := newTestService(t, exec)
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, pendingTask("task-1", 1))

	err := svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeEmail, map[string]string{
		"recipient": "ada@example.com",
	})
	require.Error(t, err)

	task := svc.GetWorkflow("workflow-1").TaskByID("task-1")
	assert.Equal(t, models.TaskStatusFailed, task.Status)
	assert.Equal(t, "connection refused", task.Error)
}

func TestExecuteTaskUnsupportedTypeFailsLocally(t *testing.T) {
	ctx := context.Background()
	exec := &stubExecutor{}
	svc, st := newTestService(t, exec)

	task := pendingTask("task-1", 1)
	task.Type = models.TaskTypeLinkedInConnect
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, task)

	err := svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeLinkedInConnect, nil)
	require.Error(t, err)

	// The executor is never reached.
	assert.Empty(t, exec.payloads)

	failed := svc.GetWorkflow("workflow-1").TaskByID("task-1")
	assert.Equal(t, models.TaskStatusFailed, failed.Status)
	assert.Contains(t, failed.Error, "unsupported task type")
}

func TestExecuteTaskAlreadyExecuting(t *testing.T) {
	ctx := context.Background()
	exec := &stubExecutor{response: "ok"}
	svc, st := newTestService(t, exec)

	task := pendingTask("task-1", 1)
	task.Status = models.TaskStatusExecuting
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, task)

	err := svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeEmail, nil)
	require.ErrorIs(t, err, service.ErrTaskAlreadyExecuting)
	assert.Empty(t, exec.payloads)
}

func TestExecuteTaskMissingIDs(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubExecutor{})
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, pendingTask("task-1", 1))

	err := svc.ExecuteTask(ctx, "missing", "task-1", models.TaskTypeEmail, nil)
	assert.ErrorIs(t, err, service.ErrWorkflowNotFound)

	err = svc.ExecuteTask(ctx, "workflow-1", "missing", models.TaskTypeEmail, nil)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestExecuteTaskRetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	exec := &stubExecutor{response: "Action failed: mailbox unavailable"}
	svc, st := newTestService(t, exec)
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, pendingTask("task-1", 1))

	config := map[string]string{"recipient": "ada@example.com", "message": "Hello"}

	require.Error(t, svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeEmail, config))

	// Explicit retry: reset to pending, then execute again.
	require.NoError(t, svc.UpdateTaskStatus(ctx, "workflow-1", "task-1", models.TaskStatusPending, "", nil))

	exec.response = "Email sent to ada@example.com"
	require.NoError(t, svc.ExecuteTask(ctx, "workflow-1", "task-1", models.TaskTypeEmail, config))

	task := svc.GetWorkflow("workflow-1").TaskByID("task-1")
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.Empty(t, task.Error)
}
