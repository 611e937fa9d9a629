package service

import "errors"

var (
	// Not-found errors (404).
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrNoteNotFound     = errors.New("note not found")

	// Conflicts (409).
	ErrTaskNotRemovable     = errors.New("only pending or failed tasks can be removed")
	ErrTaskAlreadyExecuting = errors.New("task is already executing")

	// ErrTaskExecutionFailed wraps the executor's failure text. The task has
	// already been marked failed when this is returned; callers use it for
	// user feedback without re-reading state.
	ErrTaskExecutionFailed = errors.New("task execution failed")
)

// IsNotFound checks if an error refers to a missing workflow, task or note.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrNoteNotFound)
}

// IsConflict checks if an error is a lifecycle conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTaskNotRemovable) ||
		errors.Is(err, ErrTaskAlreadyExecuting)
}
