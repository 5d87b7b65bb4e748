package stream_test

import (
	"sync"
)

// journal records the order in which probes see values.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(name string) {
	j.mu.Lock()
	j.entries = append(j.entries, name)
	j.mu.Unlock()
}

func (j *journal) take() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.entries
	j.entries = nil
	return out
}

// probe is a configurable receiver recording every callback.
type probe[T any] struct {
	name           string
	handle         bool
	panicNext      any
	panicError     bool
	panicCompleted bool
	journal        *journal

	mu        sync.Mutex
	values    []T
	errs      []error
	completed int
}

func newProbe[T any](name string, handle bool) *probe[T] {
	return &probe[T]{name: name, handle: handle}
}

func (p *probe[T]) OnNext(v T) bool {
	if p.journal != nil {
		p.journal.add(p.name)
	}
	p.mu.Lock()
	p.values = append(p.values, v)
	p.mu.Unlock()
	if p.panicNext != nil {
		panic(p.panicNext)
	}
	return p.handle
}

func (p *probe[T]) OnError(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
	if p.panicError {
		panic("error handler exploded")
	}
}

func (p *probe[T]) OnCompleted() {
	p.mu.Lock()
	p.completed++
	p.mu.Unlock()
	if p.panicCompleted {
		panic("completion exploded")
	}
}

func (p *probe[T]) Values() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.values...)
}

func (p *probe[T]) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.errs...)
}

func (p *probe[T]) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// valueReceiver is comparable by value but not a pointer.
type valueReceiver struct{ id int }

func (valueReceiver) OnNext(int) bool { return true }
func (valueReceiver) OnError(error)   {}
func (valueReceiver) OnCompleted()    {}

// sliceReceiver is not comparable.
type sliceReceiver []int

func (sliceReceiver) OnNext(int) bool { return true }
func (sliceReceiver) OnError(error)   {}
func (sliceReceiver) OnCompleted()    {}
