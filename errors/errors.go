// Package errors defines the error kinds used throughout the filesystem core.
//
// Errors are modeled as sentinel string constants (FSError) rather than
// structured types so that callers can compare against a fixed, documented
// set of failure modes (spec error kinds: IoError, NotFormatted,
// InvalidArgument, NotFound, NotADirectory, AlreadyExists, OutOfSpace,
// CorruptFormat) using errors.Is, while still being able to attach
// operation-specific context with WithMessage or wrap an underlying cause
// with Wrap.
package errors

import (
	"fmt"
)

// DriverError is the interface implemented by every error this package
// produces: a plain error, optionally carrying a wrapped cause reachable
// through errors.Is and errors.As, plus two fluent constructors for adding
// context.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	Wrap(err error) DriverError
}

// FSError is a sentinel error kind. Comparing a returned error against one of
// the constants below with errors.Is tells the caller which of the kinds in
// the spec occurred, regardless of how much context was attached on the way
// up the call stack.
type FSError string

const (
	NotFormatted   = FSError("unknown disk format")
	InvalidArgument = FSError("invalid argument")
	NotFound        = FSError("no such file or directory")
	NotADirectory   = FSError("not a directory")
	AlreadyExists   = FSError("already exists")
	OutOfSpace      = FSError("no space left on device")
	CorruptFormat   = FSError("filesystem structure needs cleaning")
	IOFailed        = FSError("input/output error")
)

func (e FSError) Error() string {
	return string(e)
}

func (e FSError) WithMessage(message string) DriverError {
	return &wrappedError{
		message:  fmt.Sprintf("%s: %s", string(e), message),
		sentinel: e,
	}
}

func (e FSError) Wrap(err error) DriverError {
	return &wrappedError{
		message:  fmt.Sprintf("%s: %s", string(e), err.Error()),
		sentinel: e,
		cause:    err,
	}
}

// -----------------------------------------------------------------------------

// wrappedError carries both the FSError sentinel it originated from and an
// optional wrapped cause, so errors.Is can match either one regardless of
// how much WithMessage/Wrap context was layered on top.
type wrappedError struct {
	message  string
	sentinel FSError
	cause    error
}

func (e *wrappedError) Error() string {
	return e.message
}

func (e *wrappedError) WithMessage(message string) DriverError {
	return &wrappedError{
		message:  fmt.Sprintf("%s: %s", e.message, message),
		sentinel: e.sentinel,
		cause:    e,
	}
}

func (e *wrappedError) Wrap(err error) DriverError {
	return &wrappedError{
		message:  fmt.Sprintf("%s: %s", e.message, err.Error()),
		sentinel: e.sentinel,
		cause:    err,
	}
}

// Unwrap lets errors.Is/errors.As reach both the original FSError sentinel
// and the wrapped cause, regardless of which one a caller is checking for.
func (e *wrappedError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.sentinel}
	}
	return []error{e.sentinel, e.cause}
}
