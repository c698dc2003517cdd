package cqlmapper

import (
	"context"
	"sync"
)

// Future is an asynchronous no-result completion handle. It is returned
// immediately by asynchronous method shapes and completes with no value, or
// exceptionally when execution fails.
type Future struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewFuture returns an incomplete future. Session implementations complete
// it exactly once via Complete.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// CompletedFuture returns a future that is already completed with err.
func CompletedFuture(err error) *Future {
	f := NewFuture()
	f.Complete(err)
	return f
}

// Complete settles the future. Only the first call has any effect.
func (f *Future) Complete(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future has completed.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the future completes or ctx is cancelled, and returns
// the completion error, if any.
func (f *Future) Await(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the completion error without blocking. It returns nil while
// the future is still pending.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
