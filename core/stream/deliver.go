package stream

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// deliverNext calls OnNext and routes a panic to the receiver's OnError.
// report receives panics raised by OnError itself; nil drops them.
func deliverNext[T any](r Receiver[T], value T, report func(error)) (handled bool) {
	defer func() {
		if p := recover(); p != nil {
			handled = false
			deliverError(r, newPanicError(p), report)
		}
	}()
	return r.OnNext(value)
}

// deliverCompleted signals completion with the same isolation as deliverNext.
func deliverCompleted[T any](r Receiver[T], report func(error)) {
	defer func() {
		if p := recover(); p != nil {
			deliverError(r, newPanicError(p), report)
		}
	}()
	r.OnCompleted()
}

// deliverError is best-effort: a panic from OnError never propagates.
func deliverError[T any](r Receiver[T], err error, report func(error)) {
	defer func() {
		if p := recover(); p != nil && report != nil {
			report(fmt.Errorf("error handler failed: %w", newPanicError(p)))
		}
	}()
	r.OnError(err)
}

func newPanicError(p any) *PanicError {
	return &PanicError{Value: p, Stack: debug.Stack()}
}

func mustComparable[T any](r Receiver[T]) {
	if r == nil {
		panic("stream: receiver must not be nil")
	}
	if !isComparable(r) {
		panic(fmt.Sprintf("stream: receiver of type %T is not comparable", r))
	}
}

// isComparable reports whether r can be used as a set key.
// A receiver that is not comparable can never have been registered.
func isComparable[T any](r Receiver[T]) bool {
	return r != nil && reflect.TypeOf(r).Comparable()
}
