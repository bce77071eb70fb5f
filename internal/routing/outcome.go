package routing

import (
	"errors"
	"fmt"
	"reflect"
)

type outcomeKind uint8

const (
	kindCancelled outcomeKind = iota // zero value: a zero Outcome reads as cancelled
	kindSucceeded
	kindFailed
)

// errNilFailure keeps Failed total: a failed outcome always carries an error.
var errNilFailure = errors.New("form failed with nil error")

// Outcome describes how a presented form ended: succeeded with a value,
// cancelled by the user, or failed with an error. Exactly one variant is set;
// the boolean accessors are computed from the variant and cannot drift from it.
//
// The zero Outcome is cancelled.
type Outcome[T any] struct {
	kind  outcomeKind
	value T
	err   error
}

// Succeeded wraps the value produced by a completed form.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{kind: kindSucceeded, value: v}
}

// Cancelled reports a form dismissed without producing a result.
func Cancelled[T any]() Outcome[T] {
	return Outcome[T]{kind: kindCancelled}
}

// Failed wraps the error that ended a form. A nil err is recorded as a
// placeholder error so the outcome still reads as failed.
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = errNilFailure
	}
	return Outcome[T]{kind: kindFailed, err: err}
}

// IsSuccess reports whether the form produced a value.
func (o Outcome[T]) IsSuccess() bool { return o.kind == kindSucceeded }

// IsCancelled reports whether the form was dismissed without a result.
func (o Outcome[T]) IsCancelled() bool { return o.kind == kindCancelled }

// IsError reports whether the form ended with an error.
func (o Outcome[T]) IsError() bool { return o.kind == kindFailed }

// IsCompleted reports whether the form ran to a terminal result, either a
// value or an error.
func (o Outcome[T]) IsCompleted() bool { return o.IsSuccess() || o.IsError() }

// IsFinished reports whether the form ended by any means other than
// cancellation.
func (o Outcome[T]) IsFinished() bool { return !o.IsCancelled() }

// Value returns the success payload. ok is false unless IsSuccess.
func (o Outcome[T]) Value() (T, bool) {
	if o.kind != kindSucceeded {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Err returns the failure cause, nil unless IsError.
func (o Outcome[T]) Err() error {
	if o.kind != kindFailed {
		return nil
	}
	return o.err
}

// Equal reports whether two outcomes ended the same way: same variant, and
// for succeeded an equal payload, for failed the same error by identity or,
// failing that, by message.
func (o Outcome[T]) Equal(other Outcome[T]) bool {
	if o.kind != other.kind {
		return false
	}
	switch o.kind {
	case kindSucceeded:
		return reflect.DeepEqual(o.value, other.value)
	case kindFailed:
		if o.err == other.err {
			return true
		}
		return o.err.Error() == other.err.Error()
	default:
		return true
	}
}

func (o Outcome[T]) String() string {
	switch o.kind {
	case kindSucceeded:
		return fmt.Sprintf("succeeded(%v)", o.value)
	case kindFailed:
		return fmt.Sprintf("failed(%v)", o.err)
	default:
		return "cancelled"
	}
}
