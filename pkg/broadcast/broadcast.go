package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/relay/core/stream"
)

var (
	// ErrBroadcasterClosed is returned when broadcasting on a closed broadcaster.
	ErrBroadcasterClosed = errors.New("broadcast: broadcaster is closed")

	// ErrSubscriberClosed is returned when closing a subscriber twice.
	ErrSubscriberClosed = errors.New("broadcast: subscriber is closed")
)

// Message wraps broadcast data.
type Message[T any] struct {
	Data T
}

// Broadcaster sends messages to multiple subscribers.
type Broadcaster[T any] interface {
	Broadcast(ctx context.Context, msg Message[T]) error
	Subscribe(ctx context.Context) Subscriber[T]
	Close() error
}

// Subscriber receives broadcast messages.
type Subscriber[T any] interface {
	Receive() <-chan Message[T]
	Close() error
}

// MemoryBroadcaster is an in-memory Broadcaster built on a Batch stream.
// Each subscriber owns a buffered channel; messages are dropped for a
// subscriber whose buffer is full.
type MemoryBroadcaster[T any] struct {
	stream     *stream.Stream[Message[T]]
	bufferSize int
	closed     atomic.Bool
}

// NewMemoryBroadcaster creates a broadcaster with bufferSize messages per subscriber.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &MemoryBroadcaster[T]{
		stream:     stream.New[Message[T]](stream.NewBatch[Message[T]]()),
		bufferSize: bufferSize,
	}
}

// Broadcast delivers msg to every subscriber without blocking.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	if b.closed.Load() {
		return ErrBroadcasterClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.stream.Dispatch(msg)
	return nil
}

// Subscribe registers a subscriber that is closed automatically when ctx is done.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	r := &chanReceiver[T]{ch: make(chan Message[T], b.bufferSize)}
	s := &memorySubscriber[T]{receiver: r}
	s.sub = b.stream.Subscribe(r)
	s.stop = context.AfterFunc(ctx, s.sub.Dispose)
	return s
}

// Subscribers returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Subscribers() int {
	return b.stream.Count()
}

// Close closes every subscriber channel. Later broadcasts fail with ErrBroadcasterClosed.
func (b *MemoryBroadcaster[T]) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.stream.Close()
}

type memorySubscriber[T any] struct {
	receiver *chanReceiver[T]
	sub      *stream.Subscription[Message[T]]
	stop     func() bool
}

func (s *memorySubscriber[T]) Receive() <-chan Message[T] {
	return s.receiver.ch
}

func (s *memorySubscriber[T]) Close() error {
	if s.sub.Disposed() {
		return ErrSubscriberClosed
	}
	s.stop()
	s.sub.Dispose()
	return nil
}

// chanReceiver forwards values into a buffered channel.
// The stream never calls OnNext concurrently with OnCompleted.
type chanReceiver[T any] struct {
	ch   chan Message[T]
	once sync.Once
}

func (r *chanReceiver[T]) OnNext(msg Message[T]) bool {
	select {
	case r.ch <- msg:
		return true
	default:
		return false
	}
}

func (r *chanReceiver[T]) OnError(error) {}

func (r *chanReceiver[T]) OnCompleted() {
	r.once.Do(func() { close(r.ch) })
}
