// Package dbgerr is the error taxonomy used throughout the debug core. It
// layers a small classification (Kind) over the module's curated package so
// that callers can branch on "what kind of failure was this" (Timeout vs
// NotHalted vs Fail) while still getting curated's pattern-based Is()/Has()
// for precise matching where that's what's needed.
package dbgerr

import (
	"github.com/probelab/dbgcore/curated"
)

// Kind classifies a failure the way spec.md §7 does. The zero value, Ok, is
// never attached to an actual error value — a nil error already means Ok.
type Kind int

// List of valid Kind values.
const (
	Ok Kind = iota

	// Transport means a DAP/EJTAG scan returned non-OK; the underlying
	// transport error is propagated unchanged as the wrapped value.
	Transport

	// Timeout means a handshake bit did not settle within its budget. The
	// current operation aborts; the session is not torn down.
	Timeout

	// NotHalted means the operation requires the target to be Halted and it
	// wasn't.
	NotHalted

	// InvalidArguments means a register index was out of range, a size was
	// bad, or a named register was missing from a register list.
	InvalidArguments

	// ResourceNotAvailable means no free hardware breakpoint/watchpoint slot
	// or no working area could be allocated.
	ResourceNotAvailable

	// Fail means an operational invariant was violated: an unreachable
	// PrAcc address, a Jazelle resume request, an unknown TAP mode, and
	// similar "this should not happen" conditions.
	Fail
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Ok:
		return "Ok"
	case Transport:
		return "Transport"
	case Timeout:
		return "Timeout"
	case NotHalted:
		return "NotHalted"
	case InvalidArguments:
		return "InvalidArguments"
	case ResourceNotAvailable:
		return "ResourceNotAvailable"
	case Fail:
		return "Fail"
	}
	return "Unknown"
}

// dbgError pairs a curated error (for pattern matching) with a Kind (for
// coarse classification).
type dbgError struct {
	kind    Kind
	wrapped error
}

// Error implements the go language error interface.
func (e dbgError) Error() string {
	return e.wrapped.Error()
}

// Unwrap lets errors.Is/errors.As see through to the curated error beneath.
func (e dbgError) Unwrap() error {
	return e.wrapped
}

// New creates an error of the given kind, formatted the way curated.Errorf
// formats its pattern: the pattern/values are stored, not pre-formatted, so
// that Is()/Has() can match on the pattern regardless of the interpolated
// values.
func New(kind Kind, pattern string, values ...interface{}) error {
	return dbgError{
		kind:    kind,
		wrapped: curated.Errorf(pattern, values...),
	}
}

// Wrap attaches kind to an existing error, most commonly a transport error
// being classified as Transport on its way back up to the caller.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return dbgError{kind: kind, wrapped: err}
}

// KindOf recovers the Kind attached to err by New/Wrap. An error with no
// attached Kind (eg. a plain error from outside this package) reports Fail,
// since that is the taxonomy's catch-all for "something went wrong that we
// didn't specifically classify".
func KindOf(err error) Kind {
	if err == nil {
		return Ok
	}
	if de, ok := err.(dbgError); ok {
		return de.kind
	}
	return Fail
}

// curatedOf unwraps through any chain of dbgError wrappers (Wrap may nest
// one dbgError inside another) down to the underlying curated error.
func curatedOf(err error) (error, bool) {
	for {
		de, ok := err.(dbgError)
		if !ok {
			break
		}
		err = de.wrapped
	}
	if !curated.IsAny(err) {
		return nil, false
	}
	return err, true
}

// Is reports whether err is a dbgerr error (of any kind) whose underlying
// curated pattern matches pattern.
func Is(err error, pattern string) bool {
	c, ok := curatedOf(err)
	if !ok {
		return false
	}
	return curated.Is(c, pattern)
}

// Has is like Is but checks the whole wrapped error chain.
func Has(err error, pattern string) bool {
	c, ok := curatedOf(err)
	if !ok {
		return false
	}
	return curated.Has(c, pattern)
}

// Timeoutf is a convenience for the most common Kind in the handshake-heavy
// parts of this module.
func Timeoutf(pattern string, values ...interface{}) error {
	return New(Timeout, pattern, values...)
}

// Failf is a convenience for New(Fail, ...).
func Failf(pattern string, values ...interface{}) error {
	return New(Fail, pattern, values...)
}
