package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so handlers can pick the right HTTP status
// without string matching.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindExpired           Kind = "expired"
	KindIllegalTransition Kind = "illegal_transition"
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindUpstream          Kind = "upstream"
	KindInternal          Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string

	// Seats carries the conflicting seat labels for seat-unavailable
	// conflicts so clients can re-render the seat map.
	Seats []string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// SeatUnavailable reports the subset of requested seats that lost the race.
func SeatUnavailable(seats []string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("seats unavailable: %v", seats),
		Seats:   seats,
	}
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ConflictSeats extracts the conflicting seat labels, if any.
func ConflictSeats(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Seats
	}
	return nil
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }
