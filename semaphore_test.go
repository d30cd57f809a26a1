package tasklet_test

import (
	"testing"
	"time"

	"github.com/tasklet-go/tasklet"
	"github.com/tasklet-go/tasklet/carrier"
)

func TestSemaphoreBoundsConcurrency(t *testing.T) {
	c := carrier.New()
	sem := tasklet.NewSemaphore(2)

	var active, peak int
	for range 4 {
		tasklet.Start(c, func() (int, error) {
			sem.Acquire(c, 1)
			active++
			if active > peak {
				peak = active
			}
			tasklet.Sleep(c, 30*time.Millisecond)
			active--
			sem.Release(1)
			return 0, nil
		})
	}

	c.Run()

	if active != 0 {
		t.Fatal("held weight leaked:", active)
	}
	if peak != 2 {
		t.Fatal("got peak", peak, "want 2")
	}
}

func TestSemaphoreFIFO(t *testing.T) {
	c := carrier.New()
	sem := tasklet.NewSemaphore(1)

	var order []int
	for i := 1; i <= 3; i++ {
		tasklet.Start(c, func() (int, error) {
			sem.Acquire(c, 1)
			order = append(order, i)
			tasklet.Sleep(c, 10*time.Millisecond)
			sem.Release(1)
			return 0, nil
		})
	}

	c.Run()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatal("got order", order)
	}
}

func TestSemaphoreTryAcquire(t *testing.T) {
	sem := tasklet.NewSemaphore(1)

	if !sem.TryAcquire(1) {
		t.Fatal("free semaphore refused")
	}
	if sem.TryAcquire(1) {
		t.Fatal("exhausted semaphore granted")
	}
	sem.Release(1)
	if !sem.TryAcquire(1) {
		t.Fatal("released semaphore refused")
	}
}

func TestSemaphorePanics(t *testing.T) {
	sem := tasklet.NewSemaphore(1)

	mustPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Fatal(name, "did not panic")
			}
		}()
		fn()
	}

	mustPanic("TryAcquire", func() { sem.TryAcquire(-1) })
	mustPanic("Release", func() { sem.Release(1) })
}
