package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the API's transportable error: a stable machine code, a message
// safe to show callers, and the HTTP status it maps to.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a code, status and message to an underlying cause.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Sentinel errors. Handlers and services clone these with a more specific
// message rather than inventing new codes ad hoc.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	ErrSlotTaken          = New("SLOT_TAKEN", http.StatusConflict, "time slot is already booked")
	ErrSlotUnknown        = New("SLOT_UNKNOWN", http.StatusBadRequest, "time does not match any offered slot")
	ErrSlotPassed         = New("SLOT_PASSED", http.StatusBadRequest, "time slot is already in the past")
	ErrDayDisabled        = New("DAY_DISABLED", http.StatusBadRequest, "the clinic is closed on that day")
	ErrInvalidTransition  = New("INVALID_TRANSITION", http.StatusConflict, "appointment status cannot change that way")
	ErrCancelWindowClosed = New("CANCEL_WINDOW_CLOSED", http.StatusConflict, "cancellation window has closed")
	ErrAppointmentPassed  = New("APPOINTMENT_PASSED", http.StatusConflict, "appointment has already passed")
	ErrInvalidDuration    = New("INVALID_DURATION", http.StatusBadRequest, "slot duration must be positive")
	ErrInvalidShift       = New("INVALID_SHIFT", http.StatusBadRequest, "shift end must be after shift start")
)

// ErrCacheMiss signals a lookup miss to cache consumers. It never reaches
// HTTP responses.
var ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")

// FromError normalises any error into an *Error. Errors that are not already
// typed become 500s so nothing internal leaks into the message.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a sentinel, optionally overriding its message. The copy keeps
// the code and status so clients can still match on them.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
