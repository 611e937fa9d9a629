package service

import (
	"slices"
	"strings"

	"github.com/orbithq/orbit/pkg/models"
)

// Read-only selectors. Each one operates on an immutable snapshot, so
// returned values are safe for callers to hold.

// GetActiveWorkflow returns the focused workflow, or nil.
func (s *Service) GetActiveWorkflow() *models.Workflow {
	return s.store.Snapshot().ActiveWorkflow()
}

// GetAllWorkflows returns every workflow ordered by generation time, newest
// first, ties broken by id for a deterministic listing.
func (s *Service) GetAllWorkflows() []*models.Workflow {
	snapshot := s.store.Snapshot()

	workflows := make([]*models.Workflow, 0, len(snapshot.Workflows))
	for _, workflow := range snapshot.Workflows {
		workflows = append(workflows, workflow)
	}

	slices.SortFunc(workflows, func(a, b *models.Workflow) int {
		if !a.GeneratedAt.Equal(b.GeneratedAt) {
			if a.GeneratedAt.After(b.GeneratedAt) {
				return -1
			}

			return 1
		}

		return strings.Compare(a.ID, b.ID)
	})

	return workflows
}

// GetWorkflow returns the workflow with the given id, or nil.
func (s *Service) GetWorkflow(workflowID string) *models.Workflow {
	return s.store.Snapshot().Workflow(workflowID)
}

// GetOrderedTasks returns the workflow's tasks sorted by order. The sort is
// stable: identical order values preserve insertion order.
func (s *Service) GetOrderedTasks(workflowID string) []*models.Task {
	workflow := s.store.Snapshot().Workflow(workflowID)
	if workflow == nil {
		return []*models.Task{}
	}

	tasks := slices.Clone(workflow.Tasks)
	slices.SortStableFunc(tasks, func(a, b *models.Task) int {
		return a.Order - b.Order
	})

	return tasks
}

// GetPendingTasks returns the workflow's pending tasks in execution order.
func (s *Service) GetPendingTasks(workflowID string) []*models.Task {
	return s.tasksByStatus(workflowID, models.TaskStatusPending)
}

// GetCompletedTasks returns the workflow's completed tasks in execution order.
func (s *Service) GetCompletedTasks(workflowID string) []*models.Task {
	return s.tasksByStatus(workflowID, models.TaskStatusCompleted)
}

// GetFailedTasks returns the workflow's failed tasks in execution order.
func (s *Service) GetFailedTasks(workflowID string) []*models.Task {
	return s.tasksByStatus(workflowID, models.TaskStatusFailed)
}

// GetNextTask returns the first pending task by order, or nil.
func (s *Service) GetNextTask(workflowID string) *models.Task {
	pending := s.GetPendingTasks(workflowID)
	if len(pending) == 0 {
		return nil
	}

	return pending[0]
}

// GetNotes returns the workflow's notes in insertion order.
func (s *Service) GetNotes(workflowID string) []*models.Note {
	workflow := s.store.Snapshot().Workflow(workflowID)
	if workflow == nil {
		return []*models.Note{}
	}

	return workflow.Notes
}

func (s *Service) tasksByStatus(workflowID string, status models.TaskStatus) []*models.Task {
	tasks := make([]*models.Task, 0)

	for _, task := range s.GetOrderedTasks(workflowID) {
		if task.Status == status {
			tasks = append(tasks, task)
		}
	}

	return tasks
}
