// internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an application error for HTTP mapping.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeValidation   Code = "validation"
	CodeAccessDenied Code = "access_denied"
	CodeConflict     Code = "conflict"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound reports that a referenced entity does not exist.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or semantically invalid input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// AccessDenied reports that the actor lacks permission for the operation.
func AccessDenied(format string, args ...interface{}) *Error {
	return &Error{Code: CodeAccessDenied, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a duplicate unique field or a blocked reference.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code from err, unwrapping as needed.
// Returns "" for errors that carry no code.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
