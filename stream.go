package cqlmapper

import "context"

// Stream is a cold, subscription-triggered execution handle. Constructing a
// Stream performs no work; every call to Subscribe runs the underlying
// source independently. For mutating statements this means each subscription
// re-applies the mutation.
type Stream struct {
	source func(context.Context) error
}

// Defer wraps a source function into a cold stream. The source is invoked
// once per subscription, never at construction time.
func Defer(source func(context.Context) error) *Stream {
	return &Stream{source: source}
}

// Subscribe starts an independent execution of the source and returns a
// channel delivering exactly one terminal signal: nil on completion, a
// non-nil error on failure. The channel is closed after the signal.
// Execution failures are delivered on the channel, never panicked or
// returned from Subscribe itself.
func (s *Stream) Subscribe(ctx context.Context) <-chan error {
	signals := make(chan error, 1)
	go func() {
		defer close(signals)
		if s.source == nil {
			signals <- nil
			return
		}
		signals <- s.source(ctx)
	}()
	return signals
}
