package stream

import (
	"sync"
	"sync/atomic"
)

// DefaultRoundRobinCapacity is the initial queue capacity used when no hint is given.
const DefaultRoundRobinCapacity = 16

// RoundRobin delivers every dispatched message to a single receiver.
//
// Each Dispatch rotates the queue, so the receiver tried first changes from
// call to call and no receiver is starved. The lock only guards queue
// manipulation; receivers are always invoked with the lock released.
type RoundRobin[T any] struct {
	mu    sync.Mutex
	queue *ring[Receiver[T]]
	count atomic.Int64
}

// NewRoundRobin returns an empty RoundRobin strategy.
// capacity is a hint for the initial queue size; the queue grows as needed.
func NewRoundRobin[T any](capacity int) *RoundRobin[T] {
	if capacity <= 0 {
		capacity = DefaultRoundRobinCapacity
	}
	return &RoundRobin[T]{queue: newRing[Receiver[T]](capacity)}
}

// Register enqueues r at the tail. Registration order defines the initial rotation order.
func (rr *RoundRobin[T]) Register(r Receiver[T]) {
	mustComparable(r)

	rr.mu.Lock()
	rr.queue.pushBack(r)
	rr.count.Store(int64(rr.queue.len()))
	rr.mu.Unlock()
}

// Remove deregisters the first occurrence of r and signals OnCompleted to it.
// The relative order of the remaining receivers is preserved.
func (rr *RoundRobin[T]) Remove(r Receiver[T]) {
	if !isComparable(r) {
		return
	}

	found := false

	rr.mu.Lock()
	n := rr.queue.len()
	for i := 0; i < n; i++ {
		cur, _ := rr.queue.popFront()
		if !found && cur == r {
			found = true
			continue
		}
		rr.queue.pushBack(cur)
	}
	rr.count.Store(int64(rr.queue.len()))
	rr.mu.Unlock()

	if found {
		deliverCompleted(r, nil)
	}
}

// Dispatch offers value to receivers in rotation order until one handles it.
//
// The first rotated receiver is the sentinel: reaching it again means a full
// cycle found no handler. A single call never visits more receivers than the
// queue held when the call started.
func (rr *RoundRobin[T]) Dispatch(value T) bool {
	if rr.count.Load() == 0 {
		return false
	}

	var (
		end    Receiver[T]
		limit  int
		visits int
	)

	for {
		rr.mu.Lock()
		if visits == 0 {
			limit = rr.queue.len()
		}
		r, ok := rr.queue.rotate()
		rr.mu.Unlock()

		if !ok {
			return false
		}

		if visits == 0 {
			end = r
		} else if r == end || visits >= limit {
			return false
		}
		visits++

		if deliverNext(r, value, nil) {
			return true
		}
	}
}

// Clear completes every queued receiver and empties the queue.
func (rr *RoundRobin[T]) Clear() {
	rr.mu.Lock()
	receivers := rr.queue.drain()
	rr.count.Store(0)
	rr.mu.Unlock()

	for _, r := range receivers {
		deliverCompleted(r, nil)
	}
}

// Count returns the number of queued receivers.
func (rr *RoundRobin[T]) Count() int {
	return int(rr.count.Load())
}

// Close is equivalent to Clear.
func (rr *RoundRobin[T]) Close() error {
	rr.Clear()
	return nil
}
