package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/store"
)

func workflowFixture(id string, status models.WorkflowStatus) *models.Workflow {
	return &models.Workflow{
		ID:     id,
		Name:   "Outreach: " + id,
		Status: status,
		Tasks: []*models.Task{
			{
				ID:     id + "-task-1",
				Type:   models.TaskTypeEmail,
				Title:  "Send intro email",
				Status: models.TaskStatusPending,
				Order:  1,
				Config: map[string]string{"to": "ada@example.com"},
			},
		},
		Notes: []*models.Note{
			{ID: id + "-note-1", Type: models.NoteTypeUser, Content: "first touch"},
		},
	}
}

func stateFixture() *store.State {
	state := store.NewState()
	state.Workflows["workflow-1"] = workflowFixture("workflow-1", models.WorkflowStatusActive)
	state.Workflows["workflow-2"] = workflowFixture("workflow-2", models.WorkflowStatusDraft)
	state.ActiveWorkflowID = "workflow-1"

	return state
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.UpdateTaskStatus{
		WorkflowID: "workflow-1",
		TaskID:     "workflow-1-task-1",
		Status:     models.TaskStatusCompleted,
	})

	require.NotSame(t, state, next)
	assert.Equal(t, models.TaskStatusPending, state.Workflows["workflow-1"].Tasks[0].Status)
	assert.Equal(t, models.TaskStatusCompleted, next.Workflows["workflow-1"].Tasks[0].Status)
}

func TestReduceAddWorkflowDemotesOtherActives(t *testing.T) {
	state := stateFixture()

	incoming := workflowFixture("workflow-3", models.WorkflowStatusActive)
	next := store.Reduce(state, events.AddWorkflow{Workflow: incoming})

	assert.Equal(t, "workflow-3", next.ActiveWorkflowID)
	assert.Equal(t, models.WorkflowStatusActive, next.Workflows["workflow-3"].Status)
	assert.Equal(t, models.WorkflowStatusDraft, next.Workflows["workflow-1"].Status)
	assert.Equal(t, models.WorkflowStatusDraft, next.Workflows["workflow-2"].Status)
}

func TestReduceAddWorkflowReplacesExistingID(t *testing.T) {
	state := stateFixture()

	replacement := workflowFixture("workflow-2", models.WorkflowStatusDraft)
	replacement.Name = "Outreach: revised"
	replacement.Tasks = nil

	next := store.Reduce(state, events.AddWorkflow{Workflow: replacement})

	assert.Equal(t, "Outreach: revised", next.Workflows["workflow-2"].Name)
	assert.Empty(t, next.Workflows["workflow-2"].Tasks)
	assert.Equal(t, "workflow-2", next.ActiveWorkflowID)
	// The existing active workflow keeps its status when the incoming one
	// is not active.
	assert.Equal(t, models.WorkflowStatusActive, next.Workflows["workflow-1"].Status)
}

func TestReduceAddWorkflowIgnoresEmptyID(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.AddWorkflow{Workflow: &models.Workflow{}})

	assert.Same(t, state, next)
}

func TestReduceDeleteWorkflow(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.DeleteWorkflow{WorkflowID: "workflow-1"})

	assert.NotContains(t, next.Workflows, "workflow-1")
	assert.Empty(t, next.ActiveWorkflowID)

	next = store.Reduce(next, events.DeleteWorkflow{WorkflowID: "missing"})
	assert.Len(t, next.Workflows, 1)
}

func TestReduceSetActiveWorkflow(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.SetActiveWorkflow{WorkflowID: "workflow-2"})
	assert.Equal(t, "workflow-2", next.ActiveWorkflowID)

	unchanged := store.Reduce(next, events.SetActiveWorkflow{WorkflowID: "missing"})
	assert.Same(t, next, unchanged)
}

func TestReduceMarkWorkflowCompleted(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.MarkWorkflowCompleted{WorkflowID: "workflow-1"})

	completed := next.Workflows["workflow-1"]
	assert.Equal(t, models.WorkflowStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Completing twice is a no-op and keeps the original timestamp.
	again := store.Reduce(next, events.MarkWorkflowCompleted{WorkflowID: "workflow-1"})
	assert.Same(t, next, again)
}

func TestReduceUpdateTaskStatusTransitions(t *testing.T) {
	tests := []struct {
		name          string
		status        models.TaskStatus
		errorMessage  string
		result        *models.TaskResult
		wantCompleted bool
		wantError     string
		wantResult    bool
	}{
		{
			name:          "completed stamps completion and result",
			status:        models.TaskStatusCompleted,
			result:        &models.TaskResult{Success: true, Response: "sent"},
			wantCompleted: true,
			wantResult:    true,
		},
		{
			name:         "failed records the error only",
			status:       models.TaskStatusFailed,
			errorMessage: "mailbox unavailable",
			wantError:    "mailbox unavailable",
		},
		{
			name:   "back to pending clears the markers",
			status: models.TaskStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateFixture()

			next := store.Reduce(state, events.UpdateTaskStatus{
				WorkflowID: "workflow-1",
				TaskID:     "workflow-1-task-1",
				Status:     tt.status,
				Error:      tt.errorMessage,
				Result:     tt.result,
			})

			task := next.Workflows["workflow-1"].TaskByID("workflow-1-task-1")
			require.NotNil(t, task)
			assert.Equal(t, tt.status, task.Status)
			assert.Equal(t, tt.wantError, task.Error)

			if tt.wantCompleted {
				assert.NotNil(t, task.CompletedAt)
			} else {
				assert.Nil(t, task.CompletedAt)
			}

			if tt.wantResult {
				require.NotNil(t, task.Result)
				assert.Equal(t, "sent", task.Result.Response)
			} else {
				assert.Nil(t, task.Result)
			}
		})
	}
}

func TestReduceUpdateTaskStatusUnknownIDs(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.UpdateTaskStatus{
		WorkflowID: "missing",
		TaskID:     "workflow-1-task-1",
		Status:     models.TaskStatusCompleted,
	})
	assert.Same(t, state, next)

	next = store.Reduce(state, events.UpdateTaskStatus{
		WorkflowID: "workflow-1",
		TaskID:     "missing",
		Status:     models.TaskStatusCompleted,
	})
	assert.Same(t, state, next)
}

func TestReduceUpdateTaskConfigMerges(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.UpdateTaskConfig{
		WorkflowID: "workflow-1",
		TaskID:     "workflow-1-task-1",
		Config:     map[string]string{"subject": "Hello", "to": "grace@example.com"},
	})

	config := next.Workflows["workflow-1"].TaskByID("workflow-1-task-1").Config
	assert.Equal(t, "Hello", config["subject"])
	assert.Equal(t, "grace@example.com", config["to"])

	// Empty patches change nothing.
	unchanged := store.Reduce(next, events.UpdateTaskConfig{
		WorkflowID: "workflow-1",
		TaskID:     "workflow-1-task-1",
		Config:     map[string]string{},
	})
	assert.Same(t, next, unchanged)
}

func TestReduceRemoveTask(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.RemoveTask{
		WorkflowID: "workflow-1",
		TaskID:     "workflow-1-task-1",
	})

	assert.Empty(t, next.Workflows["workflow-1"].Tasks)

	unchanged := store.Reduce(next, events.RemoveTask{
		WorkflowID: "workflow-1",
		TaskID:     "missing",
	})
	assert.Same(t, next, unchanged)
}

func TestReduceUpdateTaskPosition(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.UpdateTaskPosition{
		WorkflowID: "workflow-1",
		TaskID:     "workflow-1-task-1",
		Position:   models.Position{X: 340, Y: 200},
	})

	task := next.Workflows["workflow-1"].TaskByID("workflow-1-task-1")
	assert.InDelta(t, 340, task.Position.X, 0.001)
	assert.InDelta(t, 200, task.Position.Y, 0.001)
}

func TestReduceNoteLifecycle(t *testing.T) {
	state := stateFixture()

	added := store.Reduce(state, events.AddNote{
		WorkflowID: "workflow-1",
		Note:       &models.Note{ID: "note-2", Type: models.NoteTypeSystem, Content: "generated"},
	})
	require.Len(t, added.Workflows["workflow-1"].Notes, 2)

	updated := store.Reduce(added, events.UpdateNote{
		WorkflowID: "workflow-1",
		NoteID:     "note-2",
		Content:    "edited",
	})

	note := updated.Workflows["workflow-1"].NoteByID("note-2")
	require.NotNil(t, note)
	assert.Equal(t, "edited", note.Content)
	assert.NotNil(t, note.UpdatedAt)

	deleted := store.Reduce(updated, events.DeleteNote{
		WorkflowID: "workflow-1",
		NoteID:     "note-2",
	})
	assert.Len(t, deleted.Workflows["workflow-1"].Notes, 1)

	unchanged := store.Reduce(deleted, events.DeleteNote{
		WorkflowID: "workflow-1",
		NoteID:     "missing",
	})
	assert.Same(t, deleted, unchanged)
}

func TestReduceSetWorkflowsReplacesState(t *testing.T) {
	state := stateFixture()

	next := store.Reduce(state, events.SetWorkflows{
		Workflows: map[string]*models.Workflow{
			"workflow-9": workflowFixture("workflow-9", models.WorkflowStatusDraft),
		},
		ActiveWorkflowID: "workflow-9",
	})

	assert.Len(t, next.Workflows, 1)
	assert.Equal(t, "workflow-9", next.ActiveWorkflowID)
}

func TestReduceNilState(t *testing.T) {
	next := store.Reduce(nil, events.AddWorkflow{
		Workflow: workflowFixture("workflow-1", models.WorkflowStatusDraft),
	})

	require.NotNil(t, next)
	assert.Contains(t, next.Workflows, "workflow-1")
}
