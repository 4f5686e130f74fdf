// ABOUTME: Typed error taxonomy shared by the gateway, stores, and commands
// ABOUTME: Supports errors.Is/As through Unwrap and code-based helpers

package apierr

import (
	"errors"
	"fmt"
)

// Code categorizes an application error.
type Code string

const (
	// CodeAuthentication indicates the credential exchange itself failed
	// (bad username or password).
	CodeAuthentication Code = "authentication"
	// CodeAuthorization indicates an expired or invalid token on a
	// protected call.
	CodeAuthorization Code = "authorization"
	// CodeValidation indicates malformed or conflicting input, such as a
	// duplicate username or a rejected form field.
	CodeValidation Code = "validation"
	// CodeRegistration indicates an account-creation failure that is not a
	// validation rejection.
	CodeRegistration Code = "registration"
	// CodeNotFound indicates a slug or id with no matching resource.
	CodeNotFound Code = "not_found"
	// CodeUnavailable indicates a generic network or server failure on a
	// read or write.
	CodeUnavailable Code = "unavailable"
)

// Error is a structured application error with a code, message, and
// optional cause. The optional Field names the form field a validation
// error refers to.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Field   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Authentication creates a new authentication error.
func Authentication(message string) *Error {
	return &Error{Code: CodeAuthentication, Message: message}
}

// Authorization creates a new authorization error.
func Authorization(message string) *Error {
	return &Error{Code: CodeAuthorization, Message: message}
}

// Validation creates a new validation error.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// ValidationField creates a new validation error for a specific field.
func ValidationField(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// Registration creates a new registration error.
func Registration(message string) *Error {
	return &Error{Code: CodeRegistration, Message: message}
}

// NotFound creates a new not-found error.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// NotFoundf creates a new not-found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unavailable creates a new unavailable error.
func Unavailable(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}

// Wrap wraps an existing error, preserving the cause.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks whether an error carries a specific code.
func isCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsAuthentication reports whether err is an authentication error.
func IsAuthentication(err error) bool {
	return isCode(err, CodeAuthentication)
}

// IsAuthorization reports whether err is an authorization error.
func IsAuthorization(err error) bool {
	return isCode(err, CodeAuthorization)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return isCode(err, CodeValidation)
}

// IsRegistration reports whether err is a registration error.
func IsRegistration(err error) bool {
	return isCode(err, CodeRegistration)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return isCode(err, CodeNotFound)
}

// IsUnavailable reports whether err is an unavailable error.
func IsUnavailable(err error) bool {
	return isCode(err, CodeUnavailable)
}

// GetCode returns the Code from an error, or empty string if it is not a
// typed error.
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string when unset.
func GetField(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
