package stream

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Disposable releases a subscription.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func()

// Dispose calls f.
func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Subscription ties one receiver to the stream it was registered on.
// The stream does not own the subscription; disposing it only deregisters
// the receiver.
type Subscription[T any] struct {
	id       string
	stream   *Stream[T]
	receiver Receiver[T]
	disposed atomic.Bool
}

func newSubscription[T any](s *Stream[T], r Receiver[T]) *Subscription[T] {
	return &Subscription[T]{
		id:       uuid.New().String(),
		stream:   s,
		receiver: r,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription[T]) ID() string {
	return s.id
}

// Receiver returns the subscribed receiver.
func (s *Subscription[T]) Receiver() Receiver[T] {
	return s.receiver
}

// Disposed reports whether Dispose has been called.
func (s *Subscription[T]) Disposed() bool {
	return s.disposed.Load()
}

// Dispose removes the receiver from the stream, completing it.
// It is safe after the stream was closed and on repeated calls.
func (s *Subscription[T]) Dispose() {
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}
	s.stream.remove(s)
}
