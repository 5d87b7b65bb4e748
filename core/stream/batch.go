package stream

import (
	"sync"
	"sync/atomic"
)

// Batch broadcasts every dispatched message to all registered receivers.
//
// Dispatch holds a shared lock, so concurrent dispatches run together and are
// serialized only against Register, Remove and Clear. Receivers must not
// register or remove receivers of the same Batch from inside OnNext.
type Batch[T any] struct {
	mu        sync.RWMutex
	receivers map[Receiver[T]]struct{}
	count     atomic.Int64
}

// NewBatch returns an empty Batch strategy.
func NewBatch[T any]() *Batch[T] {
	return &Batch[T]{
		receivers: make(map[Receiver[T]]struct{}),
	}
}

// Register adds r. Registering the same receiver twice has no effect.
func (b *Batch[T]) Register(r Receiver[T]) {
	mustComparable(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.receivers[r] = struct{}{}
	b.count.Store(int64(len(b.receivers)))
}

// Remove deregisters r and signals OnCompleted to it.
func (b *Batch[T]) Remove(r Receiver[T]) {
	if !isComparable(r) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.receivers[r]; !ok {
		return
	}
	delete(b.receivers, r)
	b.count.Store(int64(len(b.receivers)))

	deliverCompleted(r, nil)
}

// Dispatch calls OnNext on every receiver.
// It returns true if at least one receiver handled the value.
func (b *Batch[T]) Dispatch(value T) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handled := false
	for r := range b.receivers {
		if deliverNext(r, value, nil) {
			handled = true
		}
	}
	return handled
}

// Clear completes every receiver and empties the set.
func (b *Batch[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for r := range b.receivers {
		deliverCompleted(r, nil)
	}
	clear(b.receivers)
	b.count.Store(0)
}

// Count returns the number of registered receivers.
func (b *Batch[T]) Count() int {
	return int(b.count.Load())
}

// Close is equivalent to Clear.
func (b *Batch[T]) Close() error {
	b.Clear()
	return nil
}
