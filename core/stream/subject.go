package stream

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/relay/core/logger"
)

// Observable is anything receivers can subscribe to.
type Observable[T any] interface {
	Subscribe(r Receiver[T]) Disposable
}

// Subject is a standalone broadcast observable without routing.
//
// It follows the same locking and isolation rules as Batch. In addition,
// panics raised by an observer's own OnError or OnCompleted handlers are
// reported to the unhandled hook instead of being dropped.
type Subject[T any] struct {
	mu          sync.RWMutex
	observers   map[Receiver[T]]struct{}
	count       atomic.Int64
	closed      bool
	onUnhandled func(error)
	logger      *slog.Logger
}

// SubjectOption configures a Subject.
type SubjectOption func(*subjectOptions)

type subjectOptions struct {
	onUnhandled func(error)
	logger      *slog.Logger
}

// WithUnhandled sets the hook receiving failures of observers' error and completion handlers.
// By default they are logged at error level.
func WithUnhandled(fn func(error)) SubjectOption {
	return func(o *subjectOptions) {
		if fn != nil {
			o.onUnhandled = fn
		}
	}
}

// WithSubjectLogger configures structured logging for the subject.
func WithSubjectLogger(logger *slog.Logger) SubjectOption {
	return func(o *subjectOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewSubject returns an empty subject.
func NewSubject[T any](opts ...SubjectOption) *Subject[T] {
	o := subjectOptions{logger: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Subject[T]{
		observers:   make(map[Receiver[T]]struct{}),
		onUnhandled: o.onUnhandled,
		logger:      o.logger,
	}
	if s.onUnhandled == nil {
		s.onUnhandled = func(err error) {
			s.logger.Error("unhandled observer failure", logger.Error(err))
		}
	}
	return s
}

// Subscribe registers r. On a closed subject r is completed immediately.
func (s *Subject[T]) Subscribe(r Receiver[T]) Disposable {
	mustComparable(r)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		deliverCompleted(r, s.onUnhandled)
		return DisposeFunc(nil)
	}
	s.observers[r] = struct{}{}
	s.count.Store(int64(len(s.observers)))
	s.mu.Unlock()

	var once sync.Once
	return DisposeFunc(func() {
		once.Do(func() { s.remove(r) })
	})
}

func (s *Subject[T]) remove(r Receiver[T]) {
	if !isComparable(r) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.observers[r]; !ok {
		return
	}
	delete(s.observers, r)
	s.count.Store(int64(len(s.observers)))

	deliverCompleted(r, s.onUnhandled)
}

// Dispatch delivers value to every observer and reports whether any handled it.
func (s *Subject[T]) Dispatch(value T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handled := false
	for r := range s.observers {
		if deliverNext(r, value, s.onUnhandled) {
			handled = true
		}
	}
	return handled
}

// Count returns the number of observers.
func (s *Subject[T]) Count() int {
	return int(s.count.Load())
}

// Close completes every observer. Later subscriptions complete immediately.
func (s *Subject[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for r := range s.observers {
		deliverCompleted(r, s.onUnhandled)
	}
	clear(s.observers)
	s.count.Store(0)
	return nil
}

type observableFunc[T any] func(Receiver[T]) Disposable

func (f observableFunc[T]) Subscribe(r Receiver[T]) Disposable {
	d := f(r)
	if d == nil {
		return DisposeFunc(nil)
	}
	return d
}

// Create wraps a subscribe function into an Observable.
//
// Example:
//
//	ticks := stream.Create(func(r stream.Receiver[int]) stream.Disposable {
//	    stop := make(chan struct{})
//	    go emit(stop, r)
//	    return stream.DisposeFunc(func() { close(stop) })
//	})
func Create[T any](subscribe func(Receiver[T]) Disposable) Observable[T] {
	if subscribe == nil {
		panic("stream: subscribe function must not be nil")
	}
	return observableFunc[T](subscribe)
}
