package coordinator

import (
	"errors"
	"fmt"
)

// ErrTaskFailed is matched by every *TaskError.
var ErrTaskFailed = errors.New("sampling task failed")

// TaskError reports a sampling task that terminated abnormally.
// The iteration it belonged to has no result and the run must stop.
type TaskError struct {
	Iteration int
	Task      int
	Cause     any
	Stack     []byte
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("iteration %d: task %d terminated abnormally: %v", e.Iteration, e.Task, e.Cause)
}

func (e *TaskError) Unwrap() error {
	return ErrTaskFailed
}
