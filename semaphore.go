package tasklet

import (
	"slices"
	"sync"
)

// Semaphore bounds access to a resource, by weight. Acquire parks the
// calling task until the requested weight is available; Release hands
// freed weight to waiters in arrival order.
//
// Note that a Semaphore does not provide backpressure for starting a lot
// of tasks; it only gates the tasks once they run.
type Semaphore struct {
	mu      sync.Mutex
	size    int64
	cur     int64
	waiters []*semWaiter
}

type semWaiter struct {
	n     int64
	grant chan struct{}
}

// NewSemaphore creates a weighted semaphore with the given maximum
// combined weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{size: n}
}

// Acquire parks the calling task until a weight of n is acquired from sem.
// Acquiring more than the semaphore's size can never succeed and parks
// forever.
func (sem *Semaphore) Acquire(s Scheduler, n int64) {
	if n < 0 {
		panic("tasklet(Semaphore): negative weight")
	}

	sem.mu.Lock()

	if n > sem.size {
		sem.mu.Unlock()
		s.Park(nil, -1) // Impossible to succeed.
		return
	}

	if len(sem.waiters) == 0 && sem.size-sem.cur >= n {
		sem.cur += n
		sem.mu.Unlock()
		return
	}

	w := &semWaiter{n: n, grant: make(chan struct{})}
	sem.waiters = append(sem.waiters, w)
	sem.mu.Unlock()

	s.Park(w.grant, -1)
}

// TryAcquire acquires a weight of n without parking, reporting whether it
// succeeded. It never succeeds ahead of already-parked waiters.
func (sem *Semaphore) TryAcquire(n int64) bool {
	if n < 0 {
		panic("tasklet(Semaphore): negative weight")
	}

	sem.mu.Lock()
	defer sem.mu.Unlock()

	if len(sem.waiters) != 0 || sem.size-sem.cur < n {
		return false
	}

	sem.cur += n
	return true
}

// Release releases a weight of n and grants every waiter the freed weight
// now covers, in arrival order.
func (sem *Semaphore) Release(n int64) {
	if n < 0 {
		panic("tasklet(Semaphore): negative weight")
	}

	sem.mu.Lock()

	sem.cur -= n
	if sem.cur < 0 {
		sem.mu.Unlock()
		panic("tasklet(Semaphore): released more than held")
	}

	i := 0
	for ; i < len(sem.waiters); i++ {
		w := sem.waiters[i]
		if sem.size-sem.cur < w.n {
			break
		}
		sem.cur += w.n
		close(w.grant)
	}
	sem.waiters = slices.Delete(sem.waiters, 0, i)

	sem.mu.Unlock()
}
