package stream

// ring is a growable FIFO queue backed by a circular slice.
type ring[T any] struct {
	buf  []T
	head int
	size int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

func (q *ring[T]) len() int { return q.size }

func (q *ring[T]) pushBack(v T) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
}

func (q *ring[T]) popFront() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// rotate moves the head to the tail and returns it.
func (q *ring[T]) rotate() (T, bool) {
	v, ok := q.popFront()
	if ok {
		q.pushBack(v)
	}
	return v, ok
}

// drain empties the queue and returns its elements in order.
func (q *ring[T]) drain() []T {
	out := make([]T, 0, q.size)
	for q.size > 0 {
		v, _ := q.popFront()
		out = append(out, v)
	}
	q.head = 0
	return out
}

func (q *ring[T]) grow() {
	buf := make([]T, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
