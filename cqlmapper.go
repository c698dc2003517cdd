// Package cqlmapper provides the runtime contracts consumed by generated
// data-access code: the execution-engine session, bound-statement building,
// null-handling policies, and the asynchronous and reactive result shapes.
//
// The package is intentionally free of any network or protocol logic. The
// actual execution engine (connection pooling, retries, consistency) lives
// behind the Session interface and is never inspected here.
package cqlmapper

import "context"

// Session is the opaque execution engine a generated DAO talks to.
// Implementations are expected to be safe for concurrent use.
type Session interface {
	// Prepare registers a statement with the execution engine and returns
	// a reusable handle for it.
	Prepare(ctx context.Context, query string) (PreparedStatement, error)

	// Execute runs a bound statement and blocks until it completes.
	Execute(ctx context.Context, stmt *BoundStatement) error

	// ExecuteAsync runs a bound statement without blocking. The returned
	// future completes with no value, or exceptionally on failure.
	ExecuteAsync(ctx context.Context, stmt *BoundStatement) *Future

	// SupportsUnset reports whether the engine's protocol allows leaving
	// a bind marker unset. When false, absent values must be sent as
	// explicit nulls.
	SupportsUnset() bool

	// Keyspace returns the ambient default keyspace of the session, or an
	// empty string if none is set. Unqualified statements depend on it.
	Keyspace() string
}

// Customizer is a pure transform applied to a statement builder immediately
// before execution. It allows call sites to tune per-request aspects such as
// page size or timeout without regenerating code.
type Customizer func(*BoundStatementBuilder) *BoundStatementBuilder
