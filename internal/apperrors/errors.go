// Package apperrors defines the coded errors service functions return for
// expected failure modes. Services never panic for bad credentials or
// duplicate registrations; they hand back one of these and let the handler
// pick the HTTP status.
package apperrors

import "errors"

// Code identifies a failure class across the service layer.
type Code string

const (
	CodeAuthError    Code = "AUTH_ERROR"
	CodeEmailInUse   Code = "EMAIL_IN_USE"
	CodeUserCreation Code = "USER_CREATION_ERROR"
	CodeUserUpdate   Code = "USER_UPDATE_ERROR"
	CodeRegistration Code = "REGISTRATION_ERROR"
	CodeQueryError   Code = "QUERY_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from an error chain. Uncoded errors report
// CodeQueryError, matching how raw query failures pass through unwrapped.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeQueryError
}
