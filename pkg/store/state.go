// Package store owns the authoritative in-memory state of the Orbit console:
// all workflows plus the currently focused workflow id. State is only mutated
// by reducing events from the pkg/events set; every committed event is
// persisted and published so views stay in sync.
package store

import (
	"github.com/orbithq/orbit/pkg/models"
)

// State is the complete store snapshot. It is what the persistence adapter
// serializes and what hydration restores.
type State struct {
	Workflows        map[string]*models.Workflow `json:"workflows"`
	ActiveWorkflowID string                      `json:"active_workflow_id"`
}

// NewState returns the default empty state.
func NewState() *State {
	return &State{
		Workflows:        make(map[string]*models.Workflow),
		ActiveWorkflowID: "",
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}

	clone := &State{
		Workflows:        make(map[string]*models.Workflow, len(s.Workflows)),
		ActiveWorkflowID: s.ActiveWorkflowID,
	}

	for id, workflow := range s.Workflows {
		clone.Workflows[id] = workflow.Clone()
	}

	return clone
}

// Workflow returns the workflow with the given id, or nil.
func (s *State) Workflow(id string) *models.Workflow {
	if s == nil {
		return nil
	}

	return s.Workflows[id]
}

// ActiveWorkflow returns the workflow ActiveWorkflowID points at, or nil.
func (s *State) ActiveWorkflow() *models.Workflow {
	if s == nil || s.ActiveWorkflowID == "" {
		return nil
	}

	return s.Workflows[s.ActiveWorkflowID]
}
