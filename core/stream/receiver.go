package stream

// Receiver is the push-notification contract implemented by subscribers.
//
// OnNext reports whether the receiver handled the value. OnError reports that
// delivery to this receiver failed. OnCompleted signals that no further values
// will arrive on the subscription.
//
// Receivers are tracked by identity, so implementations must be comparable.
// Pointer receivers are the usual choice.
type Receiver[T any] interface {
	OnNext(value T) bool
	OnError(err error)
	OnCompleted()
}

// Funcs adapts plain functions to the Receiver contract.
// Nil fields are treated as no-ops; a nil Next reports the value as unhandled.
type Funcs[T any] struct {
	Next      func(T) bool
	Error     func(error)
	Completed func()
}

// OnNext calls f.Next.
func (f *Funcs[T]) OnNext(value T) bool {
	if f.Next == nil {
		return false
	}
	return f.Next(value)
}

// OnError calls f.Error.
func (f *Funcs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// OnCompleted calls f.Completed.
func (f *Funcs[T]) OnCompleted() {
	if f.Completed != nil {
		f.Completed()
	}
}

// NextFunc returns a receiver that only observes values.
func NextFunc[T any](fn func(T) bool) Receiver[T] {
	return &Funcs[T]{Next: fn}
}

// typedReceiver lets a Receiver[T] subscribe to an untyped channel.
// Values of any other type are reported as unhandled. It is stored by value,
// so two wrappers of the same receiver compare equal.
type typedReceiver[T any] struct {
	inner Receiver[T]
}

func (r typedReceiver[T]) OnNext(value any) bool {
	v, ok := value.(T)
	if !ok {
		return false
	}
	return r.inner.OnNext(v)
}

func (r typedReceiver[T]) OnError(err error) { r.inner.OnError(err) }

func (r typedReceiver[T]) OnCompleted() { r.inner.OnCompleted() }

// Untyped wraps r so it can be registered on a Stream[any].
// Wrapping the same receiver twice yields equal receivers.
// It panics if r is nil or not comparable.
func Untyped[T any](r Receiver[T]) Receiver[any] {
	mustComparable(r)
	if u, ok := any(r).(Receiver[any]); ok {
		return u
	}
	return typedReceiver[T]{inner: r}
}
