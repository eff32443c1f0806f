package sts

import (
	"errors"
	"fmt"
)

// ErrorKind partitions failures per spec.md §7. The driver uses Kind to
// decide whether a failure is test-level (mark this TestResult failed,
// continue with the next bitstream) or run-level (abort and propagate).
type ErrorKind string

const (
	// InvalidParameter is fatal at Init: the program exits nonzero.
	InvalidParameter ErrorKind = "InvalidParameter"
	// NumericDomain marks a single test failed with p=0.0 and a failed
	// criterion explaining why; other tests continue.
	NumericDomain ErrorKind = "NumericDomain"
	// StructuralPrerequisite records a failed criterion (e.g. cycle count
	// below the rejection constraint); the P-value is still computed and
	// reported, but the overall test fails.
	StructuralPrerequisite ErrorKind = "StructuralPrerequisite"
	// OutOfMemory propagates; the driver releases what it has and exits
	// nonzero. Partial reports are not emitted.
	OutOfMemory ErrorKind = "OutOfMemory"
	// IOError propagates to the caller with no partial report.
	IOError ErrorKind = "IOError"
)

// Error is the suite's error type: a Kind tag plus a formatted message,
// optionally wrapping an underlying cause (modeled on the teacher's
// fmt.Errorf("...: %w", err) wrapping in sim/bundle.go).
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a *Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a *Error of the given kind wrapping an underlying error.
func Wrap(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the ErrorKind from err, defaulting to IOError for
// errors that don't originate from this package (e.g. raw os.Open
// failures the caller wraps further up).
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return IOError
}
