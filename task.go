package tasklet

import (
	"runtime"
	"time"
)

// A Task is the handle of a unit of work running on a cooperative
// [Scheduler]. It carries the identity of the scheduled unit and reaches
// its completion record through the per-scheduler registry.
type Task[V any] struct {
	sched Scheduler
	id    ID
	reg   *registry
}

// Start schedules fn as a new task on s and returns its handle. The caller
// never blocks; fn runs whenever the scheduler gets to it.
//
// Start reports [ErrNilFunc] when fn is nil. A nil scheduler is accepted:
// the task never runs, and joining it reports [ErrNoScheduler]. Callers
// must not rely on Start validating scheduler presence.
func Start[V any](s Scheduler, fn func() (V, error)) (*Task[V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}

	rec := newRecord()

	var id ID
	if s != nil {
		id = s.Spawn(func() {
			rec.run(func() (any, error) { return fn() })
		})
	} else {
		// No scheduler, no identity; the record itself is as unique
		// an identity as any.
		id = rec
	}

	reg := registryFor(s)
	reg.add(id, rec)

	t := &Task[V]{sched: s, id: id, reg: reg}
	runtime.AddCleanup(t, reg.drop, id)

	return t, nil
}

// ID returns the scheduler identity of t.
func (t *Task[V]) ID() ID {
	return t.id
}

// rec fetches t's completion record through the registry. The KeepAlive
// pins the handle across the lookup so its cleanup cannot drop the entry
// mid-fetch.
func (t *Task[V]) rec() *record {
	rec := t.reg.lookup(t.id)
	runtime.KeepAlive(t)
	return rec
}

// Join suspends the calling task until t completes. It returns nil once t
// has completed, however many times it is called, and completion of t
// happens before Join returning.
//
// Join reports [ErrJoinSelf], [ErrBlockingCaller], [ErrBlockingTarget],
// [ErrNoScheduler] or [ErrNotStarted] when a precondition fails. It never
// reports t's own failure; that is [Task.Value]'s job.
func (t *Task[V]) Join() error {
	_, err := t.join(-1)
	return err
}

// JoinTimeout is [Task.Join] with a deadline. It reports ok=false with a
// nil error when d elapses first: a timeout is not an error, the task
// keeps running, and a later join may still succeed.
func (t *Task[V]) JoinTimeout(d time.Duration) (ok bool, err error) {
	return t.join(d)
}

func (t *Task[V]) join(limit time.Duration) (bool, error) {
	rec := t.rec()

	// A completed task joins immediately, no matter who asks.
	if rec.finished() {
		return true, nil
	}

	s := t.sched
	if s == nil {
		return false, ErrNoScheduler
	}

	cur := s.Current()
	switch {
	case cur == t.id:
		return false, ErrJoinSelf
	case s.Blocking(cur):
		return false, ErrBlockingCaller
	case s.Blocking(t.id):
		return false, ErrBlockingTarget
	case !rec.started.Load():
		return false, ErrNotStarted
	}

	return s.Park(rec.latch, limit), nil
}

// Value joins t and returns its function's result. A failure inside the
// function, be it an error return, a panic, or a kill, comes back as the
// same [TaskError] wrapping the original cause on every call. The function
// never re-runs.
func (t *Task[V]) Value() (V, error) {
	var zero V

	if err := t.Join(); err != nil {
		return zero, err
	}

	rec := t.rec()
	if err := rec.failureError(); err != nil {
		return zero, err
	}

	v, _ := rec.value.(V)
	return v, nil
}

// Status reports the observable state of t, derived from the completion
// record and the scheduler's liveness query; nothing stores it.
func (t *Task[V]) Status() Status {
	rec := t.rec()

	if rec.finished() {
		if _, failure := rec.outcome(); failure != nil {
			return StatusFailed
		}
		return StatusDone
	}

	s := t.sched
	if s == nil {
		return StatusSleeping
	}
	if s.Current() == t.id {
		return StatusRunning
	}
	if s.Alive(t.id) {
		return StatusSleeping
	}

	// The scheduler no longer reports t alive, yet nothing completed its
	// record: observed like a worker that died.
	return StatusFailed
}

// Stopped reports whether t is not currently running: sleeping or
// completed, without distinguishing the two.
func (t *Task[V]) Stopped() bool {
	return t.Status() != StatusRunning
}

// Kill forcefully completes t with [ErrKilled] and then asks the scheduler
// to terminate it. The record completes before the scheduler acts, so an
// observer sees t go from live to failed in one step; there is no
// intermediate state. Killing a completed task changes nothing.
//
// Kill requires a scheduler implementing [Terminator] and otherwise
// reports [ErrNotTerminable].
func (t *Task[V]) Kill() error {
	s := t.sched
	if s == nil {
		return ErrNoScheduler
	}
	term, ok := s.(Terminator)
	if !ok {
		return ErrNotTerminable
	}

	t.rec().complete(nil, ErrKilled)
	term.Terminate(t.id)

	return nil
}

// Terminate is [Task.Kill] under another name.
func (t *Task[V]) Terminate() error { return t.Kill() }

// Exit is [Task.Kill] under another name.
func (t *Task[V]) Exit() error { return t.Kill() }
