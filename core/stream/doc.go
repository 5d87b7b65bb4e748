// Package stream implements a typed in-process publish/subscribe core.
//
// Receivers subscribe to a Stream, producers dispatch values into it, and a
// pluggable Strategy decides who receives each value. A routing Container
// maps message types to child streams that are created on first use.
//
// # Receivers
//
// A Receiver implements three callbacks:
//
//	type Receiver[T any] interface {
//	    OnNext(value T) bool // a value arrived; true means handled
//	    OnError(err error)   // delivery to this receiver failed
//	    OnCompleted()        // no further values will arrive
//	}
//
// Funcs and NextFunc adapt plain functions. Receivers are tracked by
// identity, so they must be comparable; pointer receivers are the norm.
//
// # Dispatch Strategies
//
// Batch broadcasts every value to all receivers under a shared lock:
//
//	s := stream.New[Order](stream.NewBatch[Order]())
//	handled := s.Dispatch(order) // true if any receiver returned true
//
// RoundRobin hands every value to one receiver. Each call rotates the queue,
// so the first receiver tried changes from call to call. Delivery stops at
// the first receiver returning true, or after one full pass:
//
//	workers := stream.New[Job](stream.NewRoundRobin[Job](8))
//	workers.Dispatch(job)
//
// # Failure Isolation
//
// A panic inside OnNext or OnCompleted is recovered and delivered to the same
// receiver's OnError as a *PanicError. A panic inside OnError is dropped.
// Neither reaches the producer, and other receivers still get the value.
//
// # Subscriptions
//
// Subscribe returns a *Subscription. Dispose removes the receiver and
// signals OnCompleted. Disposing after the stream was closed is safe.
//
//	sub := s.Subscribe(receiver)
//	defer sub.Dispose()
//
// # Type Routing
//
// TypeContainer keys child streams by reflect.Type. Child creates a stream
// exactly once per key. Resolve and Publish use the runtime type of a
// message; with WithDowncast(true) they fall back to the nearest ancestor
// that has a stream. Ancestry follows struct embedding and explicit
// Hierarchy.Extend registrations, and slices and arrays are resolved
// through their element types.
//
//	type Shape struct{ X, Y int }
//	type Circle struct {
//	    Shape
//	    R int
//	}
//
//	c := stream.NewTypeContainer(stream.BatchFactory(), stream.WithDowncast(true))
//	stream.SubscribeTo(c, stream.NextFunc(func(s Shape) bool { return true }))
//	c.Publish(Circle{R: 1}) // delivered as Shape
//
// # Subjects
//
// Subject is a standalone broadcast observable with the Batch contract.
// Failures of observers' own error and completion handlers go to the hook
// set with WithUnhandled. Create turns any subscribe function into an
// Observable.
package stream
