package cqlmapper

import (
	"fmt"
	"time"
)

// NullSavingStrategy governs how an absent property value is bound.
type NullSavingStrategy int

const (
	// SetToNull sends an explicit null for absent values.
	SetToNull NullSavingStrategy = iota
	// DoNotSet leaves the bind marker unset so the column is not written
	// at all. Requires protocol support, see Session.SupportsUnset.
	DoNotSet
)

// String returns the strategy name.
func (s NullSavingStrategy) String() string {
	switch s {
	case SetToNull:
		return "SET_TO_NULL"
	case DoNotSet:
		return "DO_NOT_SET"
	default:
		return fmt.Sprintf("NullSavingStrategy(%d)", int(s))
	}
}

// PreparedStatement is a statement already registered with the execution
// engine. Handles are created once per DAO instance and reused across calls.
type PreparedStatement interface {
	// Query returns the statement text the handle was prepared from.
	Query() string

	// Builder returns a fresh builder for binding values onto the
	// prepared form. Each call returns an independent builder.
	Builder() *BoundStatementBuilder
}

// Attributes are static statement attributes carried through to the
// execution engine unchanged. They are never interpreted by the mapper.
type Attributes struct {
	PageSize int
	Timeout  time.Duration
	Profile  string
}

// BoundStatementBuilder accumulates named bind values for one execution.
// The zero builder is not usable; obtain one from a PreparedStatement.
type BoundStatementBuilder struct {
	query  string
	values map[string]any
	attrs  Attributes
}

// NewBoundStatementBuilder returns a builder for the given statement text.
// It is exported for Session implementations and tests; generated code goes
// through PreparedStatement.Builder.
func NewBoundStatementBuilder(query string) *BoundStatementBuilder {
	return &BoundStatementBuilder{
		query:  query,
		values: make(map[string]any),
	}
}

// Set binds a value to the named marker.
func (b *BoundStatementBuilder) Set(name string, v any) *BoundStatementBuilder {
	b.values[name] = v
	return b
}

// SetNull binds an explicit null to the named marker.
func (b *BoundStatementBuilder) SetNull(name string) *BoundStatementBuilder {
	b.values[name] = nil
	return b
}

// Unset removes any binding for the named marker, leaving it unset.
func (b *BoundStatementBuilder) Unset(name string) *BoundStatementBuilder {
	delete(b.values, name)
	return b
}

// WithAttributes sets the static statement attributes.
func (b *BoundStatementBuilder) WithAttributes(a Attributes) *BoundStatementBuilder {
	b.attrs = a
	return b
}

// Apply runs a customizer over the builder. A nil customizer is a no-op.
func (b *BoundStatementBuilder) Apply(fn Customizer) *BoundStatementBuilder {
	if fn == nil {
		return b
	}
	return fn(b)
}

// Build finalizes the builder into an immutable bound statement. The builder
// may be reused afterwards; the snapshot is independent.
func (b *BoundStatementBuilder) Build() *BoundStatement {
	values := make(map[string]any, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	return &BoundStatement{
		query:  b.query,
		values: values,
		attrs:  b.attrs,
	}
}

// BoundStatement is an immutable snapshot of a builder, ready for execution.
type BoundStatement struct {
	query  string
	values map[string]any
	attrs  Attributes
}

// Query returns the statement text.
func (s *BoundStatement) Query() string { return s.query }

// Attributes returns the static statement attributes.
func (s *BoundStatement) Attributes() Attributes { return s.attrs }

// Value returns the value bound to the named marker. The second result is
// false if the marker was left unset. A bound explicit null yields (nil, true).
func (s *BoundStatement) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Values returns a copy of all bound values keyed by marker name.
func (s *BoundStatement) Values() map[string]any {
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values
}

// Len returns the number of bound markers, explicit nulls included.
func (s *BoundStatement) Len() int { return len(s.values) }
