package carrier

import "container/heap"

// parkheap orders parked procs by deadline, nearest on top. Each proc
// tracks its own position so it can be removed when unparked early.
type parkheap []*proc

func (h parkheap) Len() int { return len(h) }

func (h parkheap) Less(i, j int) bool {
	return h[i].deadline.Before(h[j].deadline)
}

func (h parkheap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *parkheap) Push(x any) {
	p := x.(*proc)
	p.heapIndex = len(*h)
	*h = append(*h, p)
}

func (h *parkheap) Pop() any {
	old := *h
	n := len(old) - 1
	p := old[n]
	old[n] = nil
	p.heapIndex = -1
	*h = old[:n]
	return p
}

func (h *parkheap) push(p *proc) { heap.Push(h, p) }

func (h *parkheap) top() *proc { return (*h)[0] }

func (h *parkheap) remove(p *proc) { heap.Remove(h, p.heapIndex) }
