package stream

import "reflect"

// Container resolves routing keys to child streams.
type Container interface {
	// Child returns the stream for key, creating it on first use.
	Child(key reflect.Type) (*Stream[any], error)

	// Resolve returns the stream registered for the runtime type of msg.
	// It never creates streams.
	Resolve(msg any) (*Stream[any], bool)

	// Close closes every child stream.
	Close() error
}

type nullContainer struct{}

// NullContainer returns a container that resolves nothing.
// It is the default container of leaf streams.
func NullContainer() Container {
	return nullContainer{}
}

func (nullContainer) Child(reflect.Type) (*Stream[any], error) { return nil, ErrNoRouting }

func (nullContainer) Resolve(any) (*Stream[any], bool) { return nil, false }

func (nullContainer) Close() error { return nil }
