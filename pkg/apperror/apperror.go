package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Transport layers map kinds to their own codes.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindValidation        Kind = "validation"
	KindInvalidRange      Kind = "invalid_range"
	KindPastDate          Kind = "past_date"
	KindCapacityExceeded  Kind = "capacity_exceeded"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindInvalidState      Kind = "invalid_state"
	KindAlreadyCancelled  Kind = "already_cancelled"
	KindAlreadyCheckedOut Kind = "already_checked_out"
	KindTooLate           Kind = "too_late"
	KindInternal          Kind = "internal"
)

// Sentinels for errors.Is matching. Only the kind is compared.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidRange      = &Error{Kind: KindInvalidRange}
	ErrPastDate          = &Error{Kind: KindPastDate}
	ErrCapacityExceeded  = &Error{Kind: KindCapacityExceeded}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrAlreadyCancelled  = &Error{Kind: KindAlreadyCancelled}
	ErrAlreadyCheckedOut = &Error{Kind: KindAlreadyCheckedOut}
	ErrTooLate           = &Error{Kind: KindTooLate}
	ErrInternal          = &Error{Kind: KindInternal}
)

type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation carries per-field messages in Details.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: fields}
}

// Internal wraps an infrastructure failure. The message is safe to log, not to show.
func Internal(err error, operation string) *Error {
	return &Error{Kind: KindInternal, Message: operation, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for err. Internal errors are never exposed.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		if appErr.Message != "" {
			return appErr.Message
		}
		return string(appErr.Kind)
	}
	return "Internal server error"
}

// DetailsOf returns the Details payload of err, if any.
func DetailsOf(err error) any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
