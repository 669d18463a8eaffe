package library

// NewQueue returns a new FIFO queue with the given initial size.
func NewQueue[T any](size int) *Queue[T] {
	if size < 1 {
		size = 1
	}
	return &Queue[T]{
		nodes: make([]T, size),
		size:  size,
	}
}

// Queue is a FIFO ring buffer that resizes as needed. It is not safe for concurrent use.
type Queue[T any] struct {
	nodes []T
	size  int
	head  int
	tail  int
	count int
}

// Push adds n to the back of the queue.
func (q *Queue[T]) Push(n T) {
	if q.head == q.tail && q.count > 0 {
		nodes := make([]T, len(q.nodes)+q.size)
		copy(nodes, q.nodes[q.head:])
		copy(nodes[len(q.nodes)-q.head:], q.nodes[:q.head])
		q.head = 0
		q.tail = len(q.nodes)
		q.nodes = nodes
	}
	q.nodes[q.tail] = n
	q.tail = (q.tail + 1) % len(q.nodes)
	q.count++
}

// Pop removes and returns the front of the queue.
func (q *Queue[T]) Pop() (n T, ok bool) {
	if q.count == 0 {
		return n, false
	}
	n = q.nodes[q.head]
	var zero T
	q.nodes[q.head] = zero
	q.head = (q.head + 1) % len(q.nodes)
	q.count--
	return n, true
}

// Peek returns the front of the queue without removing it.
func (q *Queue[T]) Peek() (n T, ok bool) {
	if q.count == 0 {
		return n, false
	}
	return q.nodes[q.head], true
}

func (q *Queue[T]) Len() int {
	return q.count
}
