// Package cql is the code emitter: it turns validated DAO and entity specs
// into Go source using jennifer. Emission is deterministic; identical specs
// render identical files.
package cql
