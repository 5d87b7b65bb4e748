package stream

import (
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/relay/core/logger"
)

// Stream binds one dispatch strategy to a subscribe/dispatch surface and owns
// a routing container for nested sub-channels.
//
// Example:
//
//	s := stream.New[Tick](stream.NewBatch[Tick]())
//	defer s.Close()
//
//	sub := s.SubscribeFunc(func(t Tick) bool {
//	    return process(t)
//	})
//	defer sub.Dispose()
//
//	s.Dispatch(Tick{At: time.Now()})
type Stream[T any] struct {
	strategy  Strategy[T]
	container Container
	logger    *slog.Logger
	closed    atomic.Bool
}

// New creates a stream around strategy.
// Without WithContainer the stream gets a container that resolves nothing.
func New[T any](strategy Strategy[T], opts ...Option) *Stream[T] {
	if strategy == nil {
		panic("stream: strategy must not be nil")
	}

	o := streamOptions{
		container: NullContainer(),
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Stream[T]{
		strategy:  strategy,
		container: o.container,
		logger:    o.logger,
	}
}

// Subscribe registers r and returns the handle that deregisters it.
// On a closed stream r is completed immediately and the handle is inert.
func (s *Stream[T]) Subscribe(r Receiver[T]) *Subscription[T] {
	sub := newSubscription(s, r)

	if s.closed.Load() {
		mustComparable(r)
		deliverCompleted(r, nil)
		sub.disposed.Store(true)
		return sub
	}

	s.strategy.Register(r)
	if s.closed.Load() {
		// Lost a race with Close: Remove completes r unless Clear already did.
		s.strategy.Remove(r)
		sub.disposed.Store(true)
		return sub
	}

	s.logger.Debug("receiver subscribed",
		logger.Subscription(sub.ID()),
		logger.Receivers(s.strategy.Count()))

	return sub
}

// SubscribeFunc subscribes a function that only observes values.
func (s *Stream[T]) SubscribeFunc(fn func(T) bool) *Subscription[T] {
	return s.Subscribe(NextFunc(fn))
}

// Dispatch forwards value to the strategy and reports whether it was handled.
// A closed stream handles nothing.
func (s *Stream[T]) Dispatch(value T) bool {
	if s.closed.Load() {
		return false
	}
	return s.strategy.Dispatch(value)
}

// Count returns the number of registered receivers.
func (s *Stream[T]) Count() int {
	return s.strategy.Count()
}

// Container returns the routing container of the stream.
func (s *Stream[T]) Container() Container {
	return s.container
}

// Close disposes the strategy, completing every registered receiver.
// Closing the shared container is left to its owner.
func (s *Stream[T]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	n := s.strategy.Count()
	err := s.strategy.Close()
	s.logger.Debug("stream closed", logger.Receivers(n), logger.Error(err))
	return err
}

func (s *Stream[T]) remove(sub *Subscription[T]) {
	s.strategy.Remove(sub.receiver)
	s.logger.Debug("receiver disposed",
		logger.Subscription(sub.ID()),
		logger.Receivers(s.strategy.Count()))
}

// Observable exposes the stream through the Observable interface.
func (s *Stream[T]) Observable() Observable[T] {
	return Create(func(r Receiver[T]) Disposable {
		return s.Subscribe(r)
	})
}
