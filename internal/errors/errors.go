// Package errors defines the closed error taxonomy returned by the fastqx
// core and its adapters.
package errors

import (
	"errors"
	"fmt"
)

// Kind is the closed enumeration of structured error kinds a caller may
// match on.
type Kind string

const (
	ShapeMismatch   Kind = "ShapeMismatch"
	DuplicateColumn Kind = "DuplicateColumn"
	UnknownColumn   Kind = "UnknownColumn"
	TypeMismatch    Kind = "TypeMismatch"
	ParseError      Kind = "ParseError"
	IndexOutOfRange Kind = "IndexOutOfRange"
	EmptyInput      Kind = "EmptyInput"
	BackendError    Kind = "BackendError"
	Cancelled       Kind = "Cancelled"
)

// Error is the concrete error type returned throughout the core and its
// adapters. It never carries a panic-only condition: every data-dependent
// failure surfaces as one of these.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, &Error{Kind: ShapeMismatch}) matches any ShapeMismatch.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func new_(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewShapeMismatch(format string, args ...interface{}) *Error {
	return new_(ShapeMismatch, format, args...)
}

func NewDuplicateColumn(name string) *Error {
	return new_(DuplicateColumn, "duplicate column %q", name)
}

func NewUnknownColumn(name string) *Error {
	return new_(UnknownColumn, "unknown column %q", name)
}

func NewTypeMismatch(format string, args ...interface{}) *Error {
	return new_(TypeMismatch, format, args...)
}

func NewParseError(format string, args ...interface{}) *Error {
	return new_(ParseError, format, args...)
}

func NewIndexOutOfRange(format string, args ...interface{}) *Error {
	return new_(IndexOutOfRange, format, args...)
}

func NewEmptyInput(format string, args ...interface{}) *Error {
	return new_(EmptyInput, format, args...)
}

// NewBackendError wraps an adapter-level failure (SQL/HTTP) unchanged.
func NewBackendError(cause error) *Error {
	return &Error{Kind: BackendError, Message: "backend operation failed", Cause: cause}
}

func NewCancelled(format string, args ...interface{}) *Error {
	return new_(Cancelled, format, args...)
}

// Of reports whether err is a *Error of the given kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
