// Package tasklet gives a cooperatively-scheduled task the observable
// lifecycle of a classic worker thread.
//
// A cooperative scheduler runs many tasks on one carrier thread by letting
// each task suspend instead of blocking. What such a scheduler usually does
// not offer is the synchronization contract a thread gives for free: start
// a unit of work, wait for it to finish (optionally with a timeout), read
// its final value or the failure it ended with, and ask whether it is
// running, sleeping, or done. This package builds exactly that contract on
// top of a scheduler it does not own.
//
// # The Scheduler Collaborator
//
// The package never schedules anything itself. It consumes a small
// [Scheduler] interface: spawn a function without blocking, identify the
// running task, query liveness and whether a context yields, and park the
// calling task until a channel fires or a deadline passes. Any cooperative
// runtime that can answer those questions can carry tasks; the
// [github.com/tasklet-go/tasklet/carrier] package provides a reference
// implementation, a single-threaded run loop in the spirit of an async
// executor.
//
// # Starting and Joining
//
// [Start] schedules a function and returns a [Task] handle at once; the
// caller never blocks. Internally the handle drives a completion record:
// the scheduled wrapper marks the record started, runs the function,
// stores its value or failure, and fires a one-shot latch. A join waits on
// that latch through the scheduler's park primitive, so a waiting task
// suspends cooperatively while other tasks on the same carrier keep
// running, and a successful join always observes the fully-written record.
//
// Joins that can never succeed fail loudly instead of deadlocking: joining
// oneself, joining from or to a non-yielding context, joining without a
// scheduler, and joining a task that never began each report a distinct
// error. A timed-out join is not an error; the target simply keeps running
// and may be joined again.
//
// # Values and Failures
//
// [Task.Value] joins and then returns the function's result. A failure
// always surfaces as the same [TaskError] wrapping the original cause,
// whether the function returned an error, panicked, or the task was
// killed, and however many times Value is called. The function runs
// exactly once; there is no re-execution and no second outcome.
//
// # Status
//
// [Task.Status] derives one of four states from the completion record and
// the scheduler's liveness query. Nothing stores a state: a task reports
// running only to itself, sleeping to everyone else while alive, and done
// or failed once its record completes. A kill is atomic from the
// observer's side; there is no "being killed" state to see.
package tasklet
