package store

import (
	"time"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/models"
)

// Reduce applies one event to a state and returns the resulting state. It is
// pure: the input state is never mutated. Events referencing a missing
// workflow, task or note return the input state unchanged.
func Reduce(state *State, event events.Event) *State {
	if state == nil {
		state = NewState()
	}

	switch e := event.(type) {
	case events.SetWorkflows:
		return reduceSetWorkflows(e)
	case events.AddWorkflow:
		return reduceAddWorkflow(state, e)
	case events.DeleteWorkflow:
		return reduceDeleteWorkflow(state, e)
	case events.SetActiveWorkflow:
		return reduceSetActiveWorkflow(state, e)
	case events.MarkWorkflowCompleted:
		return reduceMarkWorkflowCompleted(state, e)
	case events.AddTask:
		return reduceAddTask(state, e)
	case events.RemoveTask:
		return reduceRemoveTask(state, e)
	case events.UpdateTaskStatus:
		return reduceUpdateTaskStatus(state, e)
	case events.UpdateTaskConfig:
		return reduceUpdateTaskConfig(state, e)
	case events.UpdateTaskPosition:
		return reduceUpdateTaskPosition(state, e)
	case events.AddNote:
		return reduceAddNote(state, e)
	case events.UpdateNote:
		return reduceUpdateNote(state, e)
	case events.DeleteNote:
		return reduceDeleteNote(state, e)
	default:
		return state
	}
}

func reduceSetWorkflows(e events.SetWorkflows) *State {
	next := NewState()
	next.ActiveWorkflowID = e.ActiveWorkflowID

	for id, workflow := range e.Workflows {
		next.Workflows[id] = workflow.Clone()
	}

	return next
}

func reduceAddWorkflow(state *State, e events.AddWorkflow) *State {
	if e.Workflow == nil || e.Workflow.ID == "" {
		return state
	}

	next := state.Clone()
	workflow := e.Workflow.Clone()

	// Activation rule: an incoming active workflow demotes every other
	// active workflow to draft. Re-inserting an existing id replaces the
	// whole workflow object.
	if workflow.Status == models.WorkflowStatusActive {
		for id, existing := range next.Workflows {
			if id != workflow.ID && existing.Status == models.WorkflowStatusActive {
				existing.Status = models.WorkflowStatusDraft
			}
		}
	}

	next.Workflows[workflow.ID] = workflow
	next.ActiveWorkflowID = workflow.ID

	return next
}

func reduceDeleteWorkflow(state *State, e events.DeleteWorkflow) *State {
	if _, ok := state.Workflows[e.WorkflowID]; !ok {
		return state
	}

	next := state.Clone()
	delete(next.Workflows, e.WorkflowID)

	if next.ActiveWorkflowID == e.WorkflowID {
		next.ActiveWorkflowID = ""
	}

	return next
}

func reduceSetActiveWorkflow(state *State, e events.SetActiveWorkflow) *State {
	// A completed workflow may be focused; only ids absent from the store
	// are rejected so ActiveWorkflowID always references a stored workflow.
	if _, ok := state.Workflows[e.WorkflowID]; !ok {
		return state
	}

	next := state.Clone()
	next.ActiveWorkflowID = e.WorkflowID

	return next
}

func reduceMarkWorkflowCompleted(state *State, e events.MarkWorkflowCompleted) *State {
	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil {
		return state
	}

	if workflow.Status == models.WorkflowStatusCompleted {
		return state
	}

	next := state.Clone()
	completed := next.Workflows[e.WorkflowID]
	completed.Status = models.WorkflowStatusCompleted

	now := time.Now()
	completed.CompletedAt = &now

	return next
}

func reduceAddTask(state *State, e events.AddTask) *State {
	if e.Task == nil {
		return state
	}

	if state.Workflow(e.WorkflowID) == nil {
		return state
	}

	next := state.Clone()
	workflow := next.Workflows[e.WorkflowID]
	workflow.Tasks = append(workflow.Tasks, e.Task.Clone())

	return next
}

func reduceRemoveTask(state *State, e events.RemoveTask) *State {
	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil || workflow.TaskByID(e.TaskID) == nil {
		return state
	}

	next := state.Clone()
	updated := next.Workflows[e.WorkflowID]

	tasks := make([]*models.Task, 0, len(updated.Tasks)-1)
	for _, task := range updated.Tasks {
		if task.ID != e.TaskID {
			tasks = append(tasks, task)
		}
	}

	updated.Tasks = tasks

	return next
}

func reduceUpdateTaskStatus(state *State, e events.UpdateTaskStatus) *State {
	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil || workflow.TaskByID(e.TaskID) == nil {
		return state
	}

	next := state.Clone()
	task := next.Workflows[e.WorkflowID].TaskByID(e.TaskID)
	task.Status = e.Status

	// Keep the marker fields consistent with the status: CompletedAt only
	// on completed, Error only on failed, Result only on completed.
	switch e.Status {
	case models.TaskStatusCompleted:
		now := time.Now()
		task.CompletedAt = &now
		task.Error = ""
		task.Result = e.Result
	case models.TaskStatusFailed:
		task.CompletedAt = nil
		task.Error = e.Error
		task.Result = nil
	default:
		task.CompletedAt = nil
		task.Error = ""
		task.Result = nil
	}

	return next
}

func reduceUpdateTaskConfig(state *State, e events.UpdateTaskConfig) *State {
	if len(e.Config) == 0 {
		return state
	}

	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil || workflow.TaskByID(e.TaskID) == nil {
		return state
	}

	next := state.Clone()
	task := next.Workflows[e.WorkflowID].TaskByID(e.TaskID)

	if task.Config == nil {
		task.Config = make(map[string]string, len(e.Config))
	}

	for key, value := range e.Config {
		task.Config[key] = value
	}

	return next
}

func reduceUpdateTaskPosition(state *State, e events.UpdateTaskPosition) *State {
	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil || workflow.TaskByID(e.TaskID) == nil {
		return state
	}

	next := state.Clone()
	next.Workflows[e.WorkflowID].TaskByID(e.TaskID).Position = e.Position

	return next
}

func reduceAddNote(state *State, e events.AddNote) *State {
	if e.Note == nil {
		return state
	}

	if state.Workflow(e.WorkflowID) == nil {
		return state
	}

	next := state.Clone()
	workflow := next.Workflows[e.WorkflowID]
	workflow.Notes = append(workflow.Notes, e.Note.Clone())

	return next
}

func reduceUpdateNote(state *State, e events.UpdateNote) *State {
	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil || workflow.NoteByID(e.NoteID) == nil {
		return state
	}

	next := state.Clone()
	note := next.Workflows[e.WorkflowID].NoteByID(e.NoteID)
	note.Content = e.Content

	now := time.Now()
	note.UpdatedAt = &now

	return next
}

func reduceDeleteNote(state *State, e events.DeleteNote) *State {
	workflow := state.Workflow(e.WorkflowID)
	if workflow == nil || workflow.NoteByID(e.NoteID) == nil {
		return state
	}

	next := state.Clone()
	updated := next.Workflows[e.WorkflowID]

	notes := make([]*models.Note, 0, len(updated.Notes)-1)
	for _, note := range updated.Notes {
		if note.ID != e.NoteID {
			notes = append(notes, note)
		}
	}

	updated.Notes = notes

	return next
}
