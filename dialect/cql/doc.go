// Package cql holds the abstract statement description shared by the
// compiler and the runtime: the Plan IR produced by the statement template
// builder, and the text builder that renders it. Both sides depend on the
// same rendering so generated code and dynamic dispatch agree byte-for-byte.
package cql
