package carrier

import (
	"container/heap"
	"math/rand/v2"
	"testing"
	"time"
)

func TestParkheap(t *testing.T) {
	var h parkheap

	now := time.Now()
	var procs []*proc
	for _, d := range rand.Perm(32) {
		p := &proc{deadline: now.Add(time.Duration(d)), heapIndex: -1}
		procs = append(procs, p)
		h.push(p)
	}

	h.remove(procs[10])
	if procs[10].heapIndex != -1 {
		t.Fatal("removed proc keeps a heap position")
	}

	var prev time.Time
	for h.Len() > 0 {
		p := h.top()
		if heap.Pop(&h).(*proc) != p {
			t.Fatal("top and pop disagree")
		}
		if p == procs[10] {
			t.Fatal("removed proc popped")
		}
		if p.deadline.Before(prev) {
			t.Fatal("deadlines popped out of order")
		}
		prev = p.deadline
	}
}
