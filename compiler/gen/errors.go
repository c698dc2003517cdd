// Package gen implements the mapper compiler: it builds entity models from
// declarations, validates declared data-access methods against their kind's
// contract, constructs abstract statement plans, and drives code emission.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidDeclaration indicates structurally invalid entity or
	// method metadata.
	ErrInvalidDeclaration = errors.New("cqlmapper: invalid declaration")
	// ErrAmbiguousStrategy indicates conflicting strategy signals during
	// defaulting.
	ErrAmbiguousStrategy = errors.New("cqlmapper: ambiguous property strategy")
	// ErrGenerationFailed indicates that a generation run recorded at
	// least one diagnostic. A partial artifact must never pass for a
	// complete one.
	ErrGenerationFailed = errors.New("cqlmapper: code generation failed")
)

// DeclarationError reports structurally invalid entity or method metadata:
// a missing required constructor, a wrong parameter type, an unsupported
// return shape, or zero bindable columns.
type DeclarationError struct {
	Entity  string // entity name, if attributable
	Method  string // method name, if attributable
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	var b strings.Builder
	b.WriteString("cqlmapper: declaration error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Method != "" {
		b.WriteString(" method ")
		b.WriteString(e.Method)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DeclarationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DeclarationError.
func (e *DeclarationError) Is(target error) bool {
	return target == ErrInvalidDeclaration
}

// NewDeclarationError creates a new DeclarationError.
func NewDeclarationError(entity, method, format string, args ...any) *DeclarationError {
	return &DeclarationError{
		Entity:  entity,
		Method:  method,
		Message: fmt.Sprintf(format, args...),
	}
}

// AmbiguityError reports conflicting explicit strategy fragments on one
// entity declaration.
type AmbiguityError struct {
	Entity  string
	Option  string // the strategy field the fragments disagree on
	Message string
}

// Error implements the error interface.
func (e *AmbiguityError) Error() string {
	var b strings.Builder
	b.WriteString("cqlmapper: ambiguity error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Option != "" {
		b.WriteString(" option ")
		b.WriteString(e.Option)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for AmbiguityError.
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguousStrategy
}

// NewAmbiguityError creates a new AmbiguityError.
func NewAmbiguityError(entity, option, format string, args ...any) *AmbiguityError {
	return &AmbiguityError{
		Entity:  entity,
		Option:  option,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsDeclarationError reports whether the error is a DeclarationError.
func IsDeclarationError(err error) bool {
	var declErr *DeclarationError
	return errors.As(err, &declErr)
}

// IsAmbiguityError reports whether the error is an AmbiguityError.
func IsAmbiguityError(err error) bool {
	var ambErr *AmbiguityError
	return errors.As(err, &ambErr)
}
