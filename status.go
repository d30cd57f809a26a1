package tasklet

// Status is the observable state of a [Task].
type Status int

const (
	// StatusRunning is reported only when a task asks about itself
	// while executing.
	StatusRunning Status = iota

	// StatusSleeping marks a live task that is not the asking context.
	StatusSleeping

	// StatusDone marks a completed task with no recorded failure.
	StatusDone

	// StatusFailed marks a completed task with a recorded failure.
	StatusFailed
)

var statusNames = [...]string{"running", "sleeping", "done", "failed"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "invalid"
	}
	return statusNames[s]
}
