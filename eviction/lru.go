package eviction

// lruNode is one tracked key in the recency list.
type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

/*
lru tracks recency with a doubly-linked list plus a key -> node map, so reads,
writes, and removals are all O(1). Head is most recently used, tail is the
eviction victim.
*/
type lru struct {
	nodes map[string]*lruNode
	head  *lruNode
	tail  *lruNode
}

func newLRU() *lru {
	return &lru{nodes: make(map[string]*lruNode)}
}

// OnGet marks the key as most recently used.
func (l *lru) OnGet(k string) {
	if n, ok := l.nodes[k]; ok {
		l.remove(n)
		l.addFront(n)
	}
}

// OnPut starts tracking a new key at the front. Re-inserting an existing key
// is a no-op; its position is managed by OnGet.
func (l *lru) OnPut(k string) {
	if _, ok := l.nodes[k]; ok {
		return
	}
	n := &lruNode{key: k}
	l.nodes[k] = n
	l.addFront(n)
}

// Evict removes and returns the least recently used key.
func (l *lru) Evict() string {
	if l.tail == nil {
		return ""
	}
	k := l.tail.key
	l.remove(l.tail)
	delete(l.nodes, k)
	return k
}

func (l *lru) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.remove(n)
		delete(l.nodes, k)
	}
}

func (l *lru) addFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *lru) remove(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
}
