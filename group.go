package tasklet

import "sync"

// A Group is a counter latch: Wait parks the calling task until the
// counter reaches zero. Unlike [sync.WaitGroup], a Group may be reused;
// adding after the counter reached zero arms it again.
type Group struct {
	mu   sync.Mutex
	n    int
	zero chan struct{} // Closed when n reaches zero; nil until someone waits.
}

// Add adds delta, which may be negative, to the counter. Reaching zero
// releases every parked Wait. A negative counter panics.
func (g *Group) Add(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n += delta
	if g.n < 0 {
		panic("tasklet(Group): negative counter")
	}
	if g.n == 0 && g.zero != nil {
		close(g.zero)
		g.zero = nil
	}
}

// Done decrements the counter by one.
func (g *Group) Done() {
	g.Add(-1)
}

// Wait parks the calling task until the counter reaches zero. With the
// counter already zero, Wait returns immediately.
func (g *Group) Wait(s Scheduler) {
	g.mu.Lock()
	if g.n == 0 {
		g.mu.Unlock()
		return
	}
	if g.zero == nil {
		g.zero = make(chan struct{})
	}
	zero := g.zero
	g.mu.Unlock()

	s.Park(zero, -1)
}

// Finished reports whether the counter is zero, i.e. whether waiting would
// return immediately.
func (g *Group) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n == 0
}
