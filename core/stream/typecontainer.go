package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dmitrymomot/relay/core/logger"
)

// TypeContainer maps message types to lazily created child streams.
//
// Every child wraps a fresh strategy built by the container's factory and
// shares the container with its siblings. A key maps to at most one child
// for the lifetime of the container, even under concurrent first access.
//
// Example:
//
//	c := stream.NewTypeContainer(stream.BatchFactory(), stream.WithDowncast(true))
//	defer c.Close()
//
//	sub, err := stream.SubscribeTo(c, stream.NextFunc(func(s Shape) bool {
//	    return draw(s)
//	}))
//	if err != nil {
//	    return err
//	}
//	defer sub.Dispose()
//
//	// Circle embeds Shape, so it is routed to the Shape channel.
//	handled, err := c.Publish(Circle{Shape: Shape{X: 1, Y: 2}, R: 3})
type TypeContainer struct {
	mu        sync.RWMutex
	children  map[reflect.Type]*Stream[any]
	factory   Factory[any]
	hierarchy *Hierarchy
	downcast  bool
	closed    bool
	logger    *slog.Logger
}

// ContainerOption configures a TypeContainer.
type ContainerOption func(*TypeContainer)

// WithDowncast enables resolving a message to the channel of its nearest
// registered ancestor type when no exact channel exists.
func WithDowncast(enabled bool) ContainerOption {
	return func(c *TypeContainer) {
		c.downcast = enabled
	}
}

// WithHierarchy sets the type hierarchy used for downcast matching.
func WithHierarchy(h *Hierarchy) ContainerOption {
	return func(c *TypeContainer) {
		if h != nil {
			c.hierarchy = h
		}
	}
}

// WithContainerLogger configures structured logging for the container and its children.
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(c *TypeContainer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// BatchFactory returns a factory of Batch strategies for untyped children.
func BatchFactory() Factory[any] {
	return func() Strategy[any] { return NewBatch[any]() }
}

// RoundRobinFactory returns a factory of RoundRobin strategies for untyped children.
func RoundRobinFactory(capacity int) Factory[any] {
	return func() Strategy[any] { return NewRoundRobin[any](capacity) }
}

// NewTypeContainer creates an empty container whose children use strategies built by factory.
func NewTypeContainer(factory Factory[any], opts ...ContainerOption) *TypeContainer {
	if factory == nil {
		panic("stream: strategy factory must not be nil")
	}

	c := &TypeContainer{
		children:  make(map[reflect.Type]*Stream[any]),
		factory:   factory,
		hierarchy: NewHierarchy(),
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Child returns the stream for key, creating it exactly once.
// Once the container is closed, new children are created already closed.
func (c *TypeContainer) Child(key reflect.Type) (*Stream[any], error) {
	if key == nil {
		return nil, ErrInvalidKey
	}

	c.mu.RLock()
	child, ok := c.children[key]
	c.mu.RUnlock()
	if ok {
		return child, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if child, ok := c.children[key]; ok {
		return child, nil
	}

	child = New(c.factory(), WithContainer(c), WithLogger(c.logger))
	if c.closed {
		_ = child.Close()
	}
	c.children[key] = child

	c.logger.Debug("child stream created", logger.MessageType(key))
	return child, nil
}

// ChildFor returns the child stream keyed by T.
func ChildFor[T any](c Container) (*Stream[any], error) {
	return c.Child(reflect.TypeFor[T]())
}

// Resolve returns the stream for the runtime type of msg.
// With downcast matching enabled it falls back to the nearest ancestor that
// has a stream.
func (c *TypeContainer) Resolve(msg any) (*Stream[any], bool) {
	child, _, ok := c.resolve(msg)
	return child, ok
}

func (c *TypeContainer) resolve(msg any) (*Stream[any], reflect.Type, bool) {
	if msg == nil {
		return nil, nil, false
	}
	t := reflect.TypeOf(msg)

	c.mu.RLock()
	child, ok := c.children[t]
	c.mu.RUnlock()
	if ok {
		return child, t, true
	}
	if !c.downcast {
		return nil, nil, false
	}

	for _, ancestor := range c.hierarchy.Ancestors(t) {
		c.mu.RLock()
		child, ok := c.children[ancestor]
		c.mu.RUnlock()
		if ok {
			return child, ancestor, true
		}
	}
	return nil, nil, false
}

// Publish routes msg to its resolved stream and dispatches it.
// A message resolved through an ancestor is converted to that ancestor type
// first. It returns ErrNoChannel when no stream matches.
func (c *TypeContainer) Publish(msg any) (bool, error) {
	child, key, ok := c.resolve(msg)
	if !ok {
		return false, fmt.Errorf("%w: %T", ErrNoChannel, msg)
	}

	value := msg
	if reflect.TypeOf(msg) != key {
		v, ok := c.hierarchy.Upcast(msg, key)
		if !ok {
			return false, fmt.Errorf("%w: cannot convert %T to %s", ErrNoChannel, msg, key)
		}
		value = v
	}
	return child.Dispatch(value), nil
}

// Hierarchy returns the type hierarchy used for downcast matching.
func (c *TypeContainer) Hierarchy() *Hierarchy {
	return c.hierarchy
}

// Len returns the number of child streams.
func (c *TypeContainer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.children)
}

// Close closes every child stream. Children stay registered, so later
// lookups return the closed stream instead of building a new one, and
// children created afterwards start closed.
func (c *TypeContainer) Close() error {
	c.mu.Lock()
	c.closed = true
	children := make([]*Stream[any], 0, len(c.children))
	for _, child := range c.children {
		children = append(children, child)
	}
	c.mu.Unlock()

	var errs []error
	for _, child := range children {
		if err := child.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SubscribeTo subscribes r to the child stream keyed by T.
func SubscribeTo[T any](c Container, r Receiver[T]) (*Subscription[any], error) {
	child, err := ChildFor[T](c)
	if err != nil {
		return nil, err
	}
	return child.Subscribe(Untyped(r)), nil
}
