package tasklet

import (
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
)

// A record tracks the completion of one task.
//
// The task owning a record is its normal writer: the wrapper set up by
// [Start] marks it started, runs the user function, stores the outcome and
// fires the latch. The only other writer is a kill; the mutex makes
// whichever completion comes first the one that sticks, and after that the
// record never changes.
//
// The closed latch is the sole completion signal. Waiting on it supports a
// deadline and stays valid after it has fired, which is everything a join
// needs.
type record struct {
	latch   chan struct{}
	started atomic.Bool

	mu        sync.Mutex
	completed bool
	value     any
	failure   error

	wrapOnce sync.Once
	wrapped  error
}

func newRecord() *record {
	return &record{latch: make(chan struct{})}
}

// run executes fn under the completion protocol: flip started, capture the
// outcome (an error return or a panic, taken with its stack), store it,
// flip completed, fire the latch. Nothing fn raises escapes run.
func (r *record) run(fn func() (any, error)) {
	r.started.Store(true)

	var v any
	var err error

	var pc panics.Catcher
	pc.Try(func() { v, err = fn() })
	if p := pc.Recovered(); p != nil {
		v, err = nil, p.AsError()
	}

	r.complete(v, err)
}

// complete records the outcome. The first completion wins; later attempts
// report false and change nothing.
func (r *record) complete(v any, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed {
		return false
	}

	if err != nil {
		v = nil
	}

	r.value, r.failure = v, err
	r.completed = true
	r.started.Store(true) // A kill may complete a record that never ran.

	close(r.latch)

	return true
}

func (r *record) finished() bool {
	select {
	case <-r.latch:
		return true
	default:
		return false
	}
}

// outcome must only be called after the latch has fired.
func (r *record) outcome() (any, error) {
	return r.value, r.failure
}

// failureError wraps the recorded failure, building the wrapper once so
// that every [Task.Value] call re-raises the same object.
func (r *record) failureError() error {
	if r.failure == nil {
		return nil
	}
	r.wrapOnce.Do(func() { r.wrapped = &TaskError{cause: r.failure} })
	return r.wrapped
}
