package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/models"
)

func TestGetAllWorkflowsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubExecutor{})

	base := time.Now()

	for i, id := range []string{"workflow-a", "workflow-b", "workflow-c"} {
		st.Dispatch(ctx, events.AddWorkflow{Workflow: &models.Workflow{
			ID:          id,
			Name:        "Outreach: " + id,
			Status:      models.WorkflowStatusDraft,
			GeneratedAt: base.Add(time.Duration(i) * time.Minute),
		}})
	}

	workflows := svc.GetAllWorkflows()
	require.Len(t, workflows, 3)
	assert.Equal(t, "workflow-c", workflows[0].ID)
	assert.Equal(t, "workflow-b", workflows[1].ID)
	assert.Equal(t, "workflow-a", workflows[2].ID)
}

func TestGetAllWorkflowsTieBreaksByID(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubExecutor{})

	generatedAt := time.Now()

	for _, id := range []string{"workflow-b", "workflow-a"} {
		st.Dispatch(ctx, events.AddWorkflow{Workflow: &models.Workflow{
			ID:          id,
			Status:      models.WorkflowStatusDraft,
			GeneratedAt: generatedAt,
		}})
	}

	workflows := svc.GetAllWorkflows()
	require.Len(t, workflows, 2)
	assert.Equal(t, "workflow-a", workflows[0].ID)
	assert.Equal(t, "workflow-b", workflows[1].ID)
}

func TestGetOrderedTasksStableSort(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubExecutor{})

	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive,
		pendingTask("task-c", 2),
		pendingTask("task-a", 1),
		pendingTask("task-b", 2),
	)

	tasks := svc.GetOrderedTasks("workflow-1")
	require.Len(t, tasks, 3)
	assert.Equal(t, "task-a", tasks[0].ID)
	// Equal order values keep insertion order.
	assert.Equal(t, "task-c", tasks[1].ID)
	assert.Equal(t, "task-b", tasks[2].ID)
}

func TestTaskSelectorsByStatus(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubExecutor{})

	completed := pendingTask("task-1", 1)
	completed.Status = models.TaskStatusCompleted

	failed := pendingTask("task-3", 3)
	failed.Status = models.TaskStatusFailed

	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive,
		completed, pendingTask("task-2", 2), failed, pendingTask("task-4", 4))

	pending := svc.GetPendingTasks("workflow-1")
	require.Len(t, pending, 2)
	assert.Equal(t, "task-2", pending[0].ID)
	assert.Equal(t, "task-4", pending[1].ID)

	require.Len(t, svc.GetCompletedTasks("workflow-1"), 1)
	require.Len(t, svc.GetFailedTasks("workflow-1"), 1)

	next := svc.GetNextTask("workflow-1")
	require.NotNil(t, next)
	assert.Equal(t, "task-2", next.ID)
}

func TestGetNextTaskEmpty(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, &stubExecutor{})

	completed := pendingTask("task-1", 1)
	completed.Status = models.TaskStatusCompleted
	seedWorkflow(ctx, st, "workflow-1", models.WorkflowStatusActive, completed)

	assert.Nil(t, svc.GetNextTask("workflow-1"))
	assert.Nil(t, svc.GetNextTask("missing"))
}

func TestSelectorsOnMissingWorkflow(t *testing.T) {
	svc, _ := newTestService(t, &stubExecutor{})

	assert.Nil(t, svc.GetWorkflow("missing"))
	assert.Empty(t, svc.GetOrderedTasks("missing"))
	assert.Empty(t, svc.GetNotes("missing"))
	assert.Nil(t, svc.GetActiveWorkflow())
}
