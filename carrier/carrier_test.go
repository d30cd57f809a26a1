package carrier_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tasklet-go/tasklet"
	"github.com/tasklet-go/tasklet/carrier"
)

func TestRunOrder(t *testing.T) {
	c := carrier.New()

	var order []int
	for i := 1; i <= 3; i++ {
		c.Spawn(func() { order = append(order, i) })
	}

	c.Run()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatal("got order", order)
	}
}

func TestParkDeadline(t *testing.T) {
	c := carrier.New()

	var released bool
	c.Spawn(func() {
		released = c.Park(nil, 50*time.Millisecond)
	})

	start := time.Now()
	c.Run()
	elapsed := time.Since(start)

	if released {
		t.Fatal("a pure sleep reported a release")
	}
	if elapsed < 50*time.Millisecond {
		t.Fatal("woke early:", elapsed)
	}
	if elapsed >= time.Second {
		t.Fatal("overslept:", elapsed)
	}
}

func TestParkRelease(t *testing.T) {
	c := carrier.New()
	ch := make(chan struct{})

	var released bool
	c.Spawn(func() {
		released = c.Park(ch, time.Hour)
	})
	c.Spawn(func() {
		c.Park(nil, 20*time.Millisecond)
		close(ch)
	})

	start := time.Now()
	c.Run()
	elapsed := time.Since(start)

	if !released {
		t.Fatal("release went unnoticed")
	}
	if elapsed >= time.Second {
		t.Fatal("waited for the deadline instead:", elapsed)
	}
}

func TestParkReleaseNoDeadline(t *testing.T) {
	c := carrier.New()
	ch := make(chan struct{})

	var released bool
	c.Spawn(func() {
		released = c.Park(ch, -1)
	})
	c.Spawn(func() { close(ch) })

	c.Run()

	if !released {
		t.Fatal("release went unnoticed")
	}
}

func TestTerminateParked(t *testing.T) {
	c := carrier.New()
	never := make(chan struct{})

	var resumed bool
	id := c.Spawn(func() {
		c.Park(never, -1)
		resumed = true
	})
	c.Spawn(func() {
		c.Park(nil, 10*time.Millisecond)
		c.Terminate(id)
	})

	start := time.Now()
	c.Run()
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Fatal("terminated task held up the carrier:", elapsed)
	}

	if resumed {
		t.Fatal("terminated task ran past its park point")
	}
	if c.Alive(id) {
		t.Fatal("terminated task still alive")
	}
}

func TestTerminateBeforeRun(t *testing.T) {
	c := carrier.New()

	var ran bool
	id := c.Spawn(func() { ran = true })
	c.Terminate(id)

	c.Run()

	if ran {
		t.Fatal("terminated task ran anyway")
	}
	if c.Alive(id) {
		t.Fatal("terminated task still alive")
	}
}

func TestPanicPropagates(t *testing.T) {
	c := carrier.New()

	var survivorRan bool
	c.Spawn(func() { panic("kaboom") })
	c.Spawn(func() {
		c.Park(nil, 10*time.Millisecond)
		survivorRan = true
	})

	defer func() {
		v := recover()
		if v == nil {
			t.Fatal("panic did not reach Run's caller")
		}
		err, ok := v.(error)
		if !ok || !strings.Contains(err.Error(), "kaboom") {
			t.Fatal("panic value mangled:", v)
		}
		if !survivorRan {
			t.Fatal("other tasks abandoned")
		}
	}()

	c.Run()
}

func TestContextIdentity(t *testing.T) {
	c := carrier.New()

	root := c.Current()
	if !c.Blocking(root) {
		t.Fatal("root context not blocking")
	}
	if c.Alive(root) {
		t.Fatal("root context reported as a live task")
	}

	var inside tasklet.ID
	id := c.Spawn(func() { inside = c.Current() })

	c.Run()

	if inside != id {
		t.Fatal("Current inside a task is not its own identity")
	}
	if c.Blocking(id) {
		t.Fatal("a task reported as blocking")
	}
	if c.Current() != root {
		t.Fatal("root identity drifted")
	}
}

func TestSpawnDuringRun(t *testing.T) {
	c := carrier.New()

	var child int
	c.Spawn(func() {
		c.Spawn(func() { child = 42 })
	})

	c.Run()

	if child != 42 {
		t.Fatal("task spawned mid-run never ran")
	}
}
