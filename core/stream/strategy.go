package stream

import "fmt"

// Strategy owns the registered receivers of a channel and decides which of
// them receive a dispatched message.
//
// All methods are safe for concurrent use.
type Strategy[T any] interface {
	// Register adds a receiver.
	Register(r Receiver[T])

	// Remove deregisters r and signals OnCompleted to it.
	// Removing an unknown receiver is a no-op.
	Remove(r Receiver[T])

	// Dispatch delivers value and reports whether it was handled.
	Dispatch(value T) bool

	// Clear completes and removes every receiver.
	Clear()

	// Count returns a point-in-time receiver count.
	Count() int

	// Close releases the strategy. It is equivalent to Clear.
	Close() error
}

// Variant names a dispatch strategy implementation.
type Variant string

const (
	// VariantBatch broadcasts every message to all receivers.
	VariantBatch Variant = "batch"

	// VariantRoundRobin delivers every message to one receiver, rotating fairly.
	VariantRoundRobin Variant = "round_robin"
)

// String implements fmt.Stringer.
func (v Variant) String() string {
	return string(v)
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantBatch || v == VariantRoundRobin
}

// Factory constructs fresh strategy instances.
type Factory[T any] func() Strategy[T]

// NewStrategy returns a strategy of the given variant.
// capacity is only a hint and is ignored by Batch.
func NewStrategy[T any](v Variant, capacity int) (Strategy[T], error) {
	f, err := NewFactory[T](v, capacity)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// NewFactory returns a factory producing strategies of the given variant.
func NewFactory[T any](v Variant, capacity int) (Factory[T], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	switch v {
	case VariantBatch:
		return func() Strategy[T] { return NewBatch[T]() }, nil
	case VariantRoundRobin:
		return func() Strategy[T] { return NewRoundRobin[T](capacity) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(v))
	}
}

// UnmarshalText parses a variant name, accepting "round-robin" as an alias.
func (v *Variant) UnmarshalText(text []byte) error {
	switch s := Variant(text); s {
	case VariantBatch, VariantRoundRobin:
		*v = s
	case "round-robin", "roundrobin":
		*v = VariantRoundRobin
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(text))
	}
	return nil
}
