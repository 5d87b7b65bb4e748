package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a routing key is nil.
	ErrInvalidKey = errors.New("stream: invalid routing key")

	// ErrNoRouting is returned by containers that never resolve children.
	ErrNoRouting = errors.New("stream: container does not route messages")

	// ErrNoChannel is returned when no channel is registered for a message type.
	ErrNoChannel = errors.New("stream: no channel for message type")

	// ErrNotAssignable is returned when an explicit parent type is not implemented by the child type.
	ErrNotAssignable = errors.New("stream: child type does not implement parent type")

	// ErrUnknownStrategy is returned for unsupported strategy variants.
	ErrUnknownStrategy = errors.New("stream: unknown dispatch strategy")

	// ErrInvalidCapacity is returned when a negative capacity hint is configured.
	ErrInvalidCapacity = errors.New("stream: capacity must not be negative")
)

// PanicError wraps a value recovered from a panicking receiver.
// It is delivered to the same receiver's OnError.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("stream: receiver panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
