package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a lease transition or request was rejected.
// Every rejection carries exactly one kind so clients can distinguish
// "wrong amount" from "not your turn" from "too early".
type ErrorKind string

const (
	// KindValidation marks malformed or out-of-range input.
	KindValidation ErrorKind = "validation"
	// KindAuthorization marks a caller that is not the required party.
	KindAuthorization ErrorKind = "authorization"
	// KindState marks an entry point invoked against a lease or property
	// that is not in the required lifecycle state.
	KindState ErrorKind = "state"
	// KindPayment marks funds that do not exactly match the required
	// amount, or an outbound transfer that failed.
	KindPayment ErrorKind = "payment"
	// KindTiming marks an action attempted outside its valid time window.
	KindTiming ErrorKind = "timing"
)

// Error is a classified domain error. Transitions return *Error for every
// rejection they produce themselves; infrastructure failures pass through
// unwrapped.
type Error struct {
	Kind    ErrorKind
	Message string
	wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.wrapped != nil {
		return e.Message + ": " + e.wrapped.Error()
	}

	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.wrapped }

// Is reports whether target is a *Error with the same kind, so
// errors.Is(err, &Error{Kind: KindTiming}) works for kind checks.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// KindOf returns the ErrorKind of err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}

// Validationf builds a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Authorizationf builds a KindAuthorization error.
func Authorizationf(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Statef builds a KindState error.
func Statef(format string, args ...any) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// Paymentf builds a KindPayment error.
func Paymentf(format string, args ...any) *Error {
	return &Error{Kind: KindPayment, Message: fmt.Sprintf(format, args...)}
}

// PaymentWrap builds a KindPayment error around a transfer failure.
func PaymentWrap(msg string, cause error) *Error {
	return &Error{Kind: KindPayment, Message: msg, wrapped: cause}
}

// Timingf builds a KindTiming error.
func Timingf(format string, args ...any) *Error {
	return &Error{Kind: KindTiming, Message: fmt.Sprintf(format, args...)}
}

// Sentinel errors for entity lookups.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrLeaseNotFound    = errors.New("lease not found")
	ErrPartyNotFound    = errors.New("party not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrReentrancy is returned when a state-mutating entry point is invoked
// while another transition on the same property is still in flight.
var ErrReentrancy = &Error{Kind: KindState, Message: "transition already in progress for this property"}
