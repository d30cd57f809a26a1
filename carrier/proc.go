package carrier

import "time"

type procState int

const (
	procReady procState = iota
	procRunning
	procParked
	procEnded
)

// A proc is one task on a carrier. It owns a goroutine, but the goroutine
// only executes while the carrier has handed it the baton: it waits on
// resume, runs until it parks or ends, and reports back on the carrier's
// yield channel.
//
// The value sent on resume is the park verdict, true when the release
// channel fired. The first resume of a proc's life carries no meaning.
type proc struct {
	fn     func()
	resume chan bool

	// The fields below are guarded by the carrier's mutex.
	state     procState
	killed    bool
	released  bool // Release fired while parked; consumed on resume.
	deadline  time.Time
	heapIndex int           // Position in the park heap, -1 when absent.
	stopWatch chan struct{} // Closed to retire the release watcher.
}

// yieldMsg is what a proc hands the carrier when it gives up the baton.
// parked false means the proc has ended.
type yieldMsg struct {
	p        *proc
	parked   bool
	release  <-chan struct{}
	deadline time.Time
	timed    bool
}

// killSignal unwinds a killed proc from its park point.
type killSignal struct{}

// main is the proc's goroutine. A panic out of the task's function is
// trapped by the carrier for re-raising from Run; a kill unwind is
// swallowed here, being an implementation detail of Terminate.
func (p *proc) main(c *Carrier) {
	<-p.resume

	c.mu.Lock()
	killed := p.killed
	c.mu.Unlock()

	if !killed {
		c.trap.Try(p.body)
	}

	c.yield <- yieldMsg{p: p}
}

func (p *proc) body() {
	defer func() {
		if v := recover(); v != nil {
			if _, ok := v.(killSignal); !ok {
				panic(v)
			}
		}
	}()
	p.fn()
}

// park yields the baton until the carrier resumes p. Finding the kill flag
// set, on either side of the yield, unwinds instead of parking or
// returning.
func (p *proc) park(c *Carrier, release <-chan struct{}, d time.Duration) bool {
	c.mu.Lock()
	killed := p.killed
	c.mu.Unlock()
	if killed {
		panic(killSignal{})
	}

	msg := yieldMsg{p: p, parked: true, release: release}
	if d >= 0 {
		msg.timed = true
		msg.deadline = time.Now().Add(d)
	}

	c.yield <- msg
	released := <-p.resume

	c.mu.Lock()
	killed = p.killed
	c.mu.Unlock()
	if killed {
		panic(killSignal{})
	}

	return released
}
