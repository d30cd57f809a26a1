package tasklet

import "errors"

var (
	// ErrNilFunc is reported by [Start] when no function is supplied.
	ErrNilFunc = errors.New("tasklet: nil function")

	// ErrJoinSelf is reported when a task joins itself.
	ErrJoinSelf = errors.New("tasklet: join would deadlock: task joining itself")

	// ErrBlockingCaller is reported when a join is attempted from a
	// non-yielding context; waiting there would stall the carrier.
	ErrBlockingCaller = errors.New("tasklet: join from non-yielding context")

	// ErrBlockingTarget is reported when the joined task is itself a
	// non-yielding context.
	ErrBlockingTarget = errors.New("tasklet: join of non-yielding task")

	// ErrNoScheduler is reported when a task has no scheduler to run on.
	ErrNoScheduler = errors.New("tasklet: no scheduler")

	// ErrNotStarted is reported when the joined task has not begun
	// executing.
	ErrNotStarted = errors.New("tasklet: task not started")

	// ErrKilled is the failure recorded for a killed task.
	ErrKilled = errors.New("tasklet: task killed")

	// ErrNotTerminable is reported by [Task.Kill] when the scheduler
	// does not implement [Terminator].
	ErrNotTerminable = errors.New("tasklet: scheduler cannot terminate tasks")
)

// A TaskError re-surfaces the failure a task's function ended with.
// [Task.Value] returns it so that callers always observe one error type,
// while the original failure stays available through [errors.Unwrap],
// [errors.Is] and [errors.As].
type TaskError struct {
	cause error
}

func (e *TaskError) Error() string {
	return "tasklet: task failed: " + e.cause.Error()
}

func (e *TaskError) Unwrap() error {
	return e.cause
}
