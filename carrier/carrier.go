// Package carrier provides a single-threaded cooperative scheduler for
// [github.com/tasklet-go/tasklet] tasks.
//
// A Carrier runs its tasks one at a time on the goroutine that calls
// [Carrier.Run], interleaving them at park points. Spawning is allowed at
// any time, from the outside or from within a running task; everything
// else that asks about the calling context must be called either from a
// task's function or from the goroutine driving Run while no task is
// running.
package carrier

import (
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/tasklet-go/tasklet"
)

// A Carrier schedules tasks cooperatively. The zero value is not ready for
// use; call [New].
//
// Carrier implements [tasklet.Scheduler] and [tasklet.Terminator].
type Carrier struct {
	mu      sync.Mutex
	ready   []*proc  // Runnable tasks, in arrival order.
	parked  parkheap // Parked tasks with a deadline, nearest first.
	live    int      // Tasks spawned and not yet ended.
	running *proc

	root  *rootContext
	yield chan yieldMsg
	kick  chan struct{} // Buffered wakeup for an idle Run loop.

	wg   conc.WaitGroup
	trap panics.Catcher
}

// rootContext is the identity [Carrier.Current] reports when no task is
// running. It never compares equal to a task identity.
type rootContext struct{ c *Carrier }

// New creates a Carrier with no tasks.
func New() *Carrier {
	c := &Carrier{
		yield: make(chan yieldMsg),
		kick:  make(chan struct{}, 1),
	}
	c.root = &rootContext{c: c}
	return c
}

var (
	_ tasklet.Scheduler  = (*Carrier)(nil)
	_ tasklet.Terminator = (*Carrier)(nil)
)

// Spawn arranges for fn to run as a new task and returns its identity.
// The task does not run before [Carrier.Run] gets to it.
func (c *Carrier) Spawn(fn func()) tasklet.ID {
	p := &proc{
		fn:        fn,
		resume:    make(chan bool),
		heapIndex: -1,
	}

	c.mu.Lock()
	p.state = procReady
	c.ready = append(c.ready, p)
	c.live++
	c.mu.Unlock()

	c.wg.Go(func() { p.main(c) })
	c.wake()

	return p
}

// Run drives the carrier until every spawned task has ended. Only one
// task executes at a time; Run switches between them at park points and
// sleeps when all live tasks are parked.
//
// A panic raised by a task's function is re-raised from Run, wrapped with
// the panicking task's stack, after the remaining tasks have been given
// the chance to finish. Run must not be called concurrently with itself.
func (c *Carrier) Run() {
	for {
		p := c.next()
		if p == nil {
			break
		}

		c.mu.Lock()
		p.state = procRunning
		c.running = p
		released := p.released
		p.released = false
		c.mu.Unlock()

		p.resume <- released

		msg := <-c.yield

		c.mu.Lock()
		c.running = nil
		if msg.parked {
			c.parkLocked(msg)
		} else {
			msg.p.state = procEnded
			c.live--
		}
		c.mu.Unlock()
	}

	c.wg.Wait()

	if r := c.trap.Recovered(); r != nil {
		panic(r.AsError())
	}
}

// next blocks until a task is runnable and returns it, or returns nil
// once no live task remains.
func (c *Carrier) next() *proc {
	for {
		c.mu.Lock()

		now := time.Now()
		for c.parked.Len() > 0 && !c.parked.top().deadline.After(now) {
			c.unparkLocked(c.parked.top())
		}

		if len(c.ready) != 0 {
			p := c.ready[0]
			c.ready[0] = nil
			c.ready = c.ready[1:]
			c.mu.Unlock()
			return p
		}

		if c.live == 0 {
			c.mu.Unlock()
			return nil
		}

		var timer *time.Timer
		var expire <-chan time.Time
		if c.parked.Len() > 0 {
			timer = time.NewTimer(time.Until(c.parked.top().deadline))
			expire = timer.C
		}

		c.mu.Unlock()

		select {
		case <-c.kick:
		case <-expire:
		}

		if timer != nil {
			timer.Stop()
		}
	}
}

// parkLocked records a freshly-yielded task as parked and arranges for it
// to be made runnable again: by deadline through the park heap, by release
// through a watcher goroutine, or by neither when it parks forever.
func (c *Carrier) parkLocked(msg yieldMsg) {
	p := msg.p

	// A Terminate may land between the yield and here; the proc then goes
	// straight back to ready and dies at its resume.
	if p.killed {
		p.state = procReady
		c.ready = append(c.ready, p)
		return
	}

	p.state = procParked

	if msg.timed {
		p.deadline = msg.deadline
		c.parked.push(p)
	}

	if msg.release != nil {
		stop := make(chan struct{})
		p.stopWatch = stop
		c.wg.Go(func() { c.watchRelease(p, msg.release, stop) })
	}
}

// watchRelease makes p runnable when its release channel fires. The stop
// channel is closed when p is unparked by other means.
func (c *Carrier) watchRelease(p *proc, release <-chan struct{}, stop <-chan struct{}) {
	select {
	case <-release:
	case <-stop:
		return
	}

	c.mu.Lock()
	if p.state == procParked {
		p.released = true
		c.unparkLocked(p)
	}
	c.mu.Unlock()

	c.wake()
}

// unparkLocked moves a parked task back to the ready queue, detaching it
// from the park heap and its release watcher.
func (c *Carrier) unparkLocked(p *proc) {
	if p.heapIndex >= 0 {
		c.parked.remove(p)
	}
	if p.stopWatch != nil {
		close(p.stopWatch)
		p.stopWatch = nil
	}
	p.state = procReady
	c.ready = append(c.ready, p)
}

func (c *Carrier) wake() {
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// Current returns the identity of the running task, or the carrier's own
// root identity when no task is running.
func (c *Carrier) Current() tasklet.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running != nil {
		return c.running
	}
	return c.root
}

// Alive reports whether id is a task of this carrier that has not ended.
func (c *Carrier) Alive(id tasklet.ID) bool {
	p, ok := id.(*proc)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return p.state != procEnded
}

// Blocking reports whether id identifies a non-yielding context. Tasks
// yield; the root context and anything foreign do not.
func (c *Carrier) Blocking(id tasklet.ID) bool {
	_, ok := id.(*proc)
	return !ok
}

// Park suspends the calling task until release is closed or d elapses,
// whichever comes first, reporting whether release fired. A negative d
// parks without a deadline; a nil release makes Park a pure sleep.
//
// Called with no task running, Park degrades to a plain blocking wait on
// the calling goroutine.
func (c *Carrier) Park(release <-chan struct{}, d time.Duration) bool {
	c.mu.Lock()
	p := c.running
	c.mu.Unlock()

	if p == nil {
		return blockingWait(release, d)
	}
	return p.park(c, release, d)
}

// blockingWait is the root-context fallback for [Carrier.Park].
func blockingWait(release <-chan struct{}, d time.Duration) bool {
	if d < 0 {
		if release == nil {
			select {} // Parked forever with no way out.
		}
		<-release
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-release:
		return true
	case <-timer.C:
		return false
	}
}

// Terminate forcefully ends the task identified by id. A parked task is
// woken to die; a ready or running one dies at its next park point, or
// before its function ever runs. Terminating an ended task, or an identity
// this carrier does not know, does nothing.
func (c *Carrier) Terminate(id tasklet.ID) {
	p, ok := id.(*proc)
	if !ok {
		return
	}

	c.mu.Lock()
	switch p.state {
	case procEnded:
		c.mu.Unlock()
		return
	case procParked:
		p.killed = true
		c.unparkLocked(p)
	default:
		p.killed = true
	}
	c.mu.Unlock()

	c.wake()
}
