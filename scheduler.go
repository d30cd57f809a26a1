package tasklet

import "time"

// An ID identifies a task within a [Scheduler].
//
// IDs are opaque to this package. They must be valid map keys, and two IDs
// must compare equal exactly when they identify the same task.
type ID any

// A Scheduler runs tasks cooperatively on a carrier thread.
//
// This package does not implement a Scheduler; it builds the join/value
// contract on top of one. The
// [github.com/tasklet-go/tasklet/carrier] package provides a reference
// implementation.
//
// Only one task runs at a time per carrier, and a Scheduler is trusted to
// never migrate a task across carriers.
type Scheduler interface {
	// Spawn arranges for fn to run as a new task without blocking the
	// caller, and returns the new task's identity.
	Spawn(fn func()) ID

	// Current returns the identity of the presently-executing task, or
	// the identity of the carrier itself when no task is running.
	Current() ID

	// Alive reports whether the task identified by id has not yet ended.
	Alive(id ID) bool

	// Blocking reports whether id identifies a non-yielding context,
	// one that would stall its carrier by waiting.
	Blocking(id ID) bool

	// Park suspends the calling task until release is closed or d has
	// elapsed, reporting whether release fired. A negative d means no
	// deadline; a nil release makes Park a pure timed sleep.
	//
	// Park must suspend only the calling task. Other tasks on the same
	// carrier keep running.
	Park(release <-chan struct{}, d time.Duration) bool
}

// A Terminator is a capability some Schedulers have: forcefully ending
// a task. [Task.Kill] requires it.
type Terminator interface {
	Terminate(id ID)
}

// Sleep suspends the calling task for the duration d.
func Sleep(s Scheduler, d time.Duration) {
	s.Park(nil, d)
}
