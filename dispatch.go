package cqlmapper

import (
	"context"
	"fmt"

	"github.com/vellumdb/cqlmapper/dialect/cql"
)

// Dispatcher interprets a statement plan dynamically against a Session. It
// provides the same bind-and-execute sequence as statically generated code
// for environments where ahead-of-time generation is unavailable, and obeys
// the same contract: identical plan and values produce identical statements.
//
// The plan's statement is prepared once, at construction time, before the
// dispatcher is exposed to any caller.
type Dispatcher struct {
	session Session
	plan    *cql.Plan
	stmt    PreparedStatement
	attrs   Attributes
}

// NewDispatcher prepares the plan's statement on the session and returns a
// dispatcher bound to it.
func NewDispatcher(ctx context.Context, session Session, plan *cql.Plan) (*Dispatcher, error) {
	if plan == nil || len(plan.Terms) == 0 {
		return nil, fmt.Errorf("cqlmapper: dispatcher requires a non-empty plan")
	}
	stmt, err := session.Prepare(ctx, plan.Query())
	if err != nil {
		return nil, fmt.Errorf("cqlmapper: prepare %q: %w", plan.Query(), err)
	}
	return &Dispatcher{session: session, plan: plan, stmt: stmt}, nil
}

// WithAttributes sets static statement attributes applied to every
// execution. The attributes are passed through to the engine unchanged.
func (d *Dispatcher) WithAttributes(a Attributes) *Dispatcher {
	d.attrs = a
	return d
}

// Plan returns the plan the dispatcher was built from.
func (d *Dispatcher) Plan() *cql.Plan { return d.plan }

// bind builds an immutable bound statement from the given values, keyed by
// column name. The sequence matches generated method bodies exactly:
// attributes, then the customizer, then value binding. Absent values follow
// the session's null-handling capability: left unset when the protocol
// supports it, bound as explicit nulls otherwise.
func (d *Dispatcher) bind(values map[string]any, fn Customizer) *BoundStatement {
	b := d.stmt.Builder().WithAttributes(d.attrs).Apply(fn)
	strategy := SetToNull
	if d.session.SupportsUnset() {
		strategy = DoNotSet
	}
	for _, t := range d.plan.Terms {
		v, ok := values[t.Column]
		switch {
		case ok && v != nil:
			b.Set(t.Column, v)
		case strategy == SetToNull:
			b.SetNull(t.Column)
		}
	}
	return b.Build()
}

// Execute binds the values and runs the statement, blocking until the
// execution engine reports completion.
func (d *Dispatcher) Execute(ctx context.Context, values map[string]any, fn Customizer) error {
	return d.session.Execute(ctx, d.bind(values, fn))
}

// ExecuteAsync binds the values and starts the execution without blocking.
func (d *Dispatcher) ExecuteAsync(ctx context.Context, values map[string]any, fn Customizer) *Future {
	return d.session.ExecuteAsync(ctx, d.bind(values, fn))
}

// Stream returns a cold stream over the execution. No work happens until a
// subscriber arrives; every subscription binds and executes independently,
// so a mutating plan is re-applied per subscription.
func (d *Dispatcher) Stream(values map[string]any, fn Customizer) *Stream {
	return Defer(func(ctx context.Context) error {
		return d.session.Execute(ctx, d.bind(values, fn))
	})
}
