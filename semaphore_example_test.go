package tasklet_test

import (
	"fmt"
	"time"

	"github.com/tasklet-go/tasklet"
	"github.com/tasklet-go/tasklet/carrier"
)

func ExampleSemaphore() {
	c := carrier.New()

	// Four tasks, at most two holding the semaphore at once.
	// Waiters are granted in arrival order.
	sem := tasklet.NewSemaphore(2)

	for n := 1; n <= 4; n++ {
		tasklet.Start(c, func() (int, error) {
			sem.Acquire(c, 1)
			fmt.Println(n)
			tasklet.Sleep(c, 10*time.Millisecond)
			sem.Release(1)
			return n, nil
		})
	}

	c.Run()

	// Output:
	// 1
	// 2
	// 3
	// 4
}
