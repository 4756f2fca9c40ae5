package eviction

/*
fifo evicts in insertion order: the front of the queue is the oldest key.
Reads never reorder anything. The set mirrors queue membership so duplicate
inserts and removals stay O(1) to detect.
*/
type fifo struct {
	queue []string
	set   map[string]struct{}
}

func newFIFO() *fifo {
	return &fifo{
		queue: make([]string, 0),
		set:   make(map[string]struct{}),
	}
}

// OnGet is ignored; FIFO only cares about insertion order.
func (f *fifo) OnGet(string) {}

// OnPut appends the key on first insertion only.
func (f *fifo) OnPut(k string) {
	if _, ok := f.set[k]; ok {
		return
	}
	f.queue = append(f.queue, k)
	f.set[k] = struct{}{}
}

// Evict pops the oldest key.
func (f *fifo) Evict() string {
	if len(f.queue) == 0 {
		return ""
	}
	k := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.set, k)
	return k
}

// Remove deletes the key from both structures, preserving queue order for the
// rest.
func (f *fifo) Remove(k string) {
	if _, ok := f.set[k]; !ok {
		return
	}
	delete(f.set, k)
	for i, v := range f.queue {
		if v == k {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			break
		}
	}
}
