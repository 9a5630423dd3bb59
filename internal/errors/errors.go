// Package errors defines the coded errors services return and handlers translate into HTTP responses.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError; handlers pick the HTTP status from it.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeConflict   ErrorCode = "conflict"
	ErrCodeValidation ErrorCode = "validation"
	ErrCodeInternal   ErrorCode = "internal"
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeCanceled   ErrorCode = "canceled"
)

// AppError carries a code and a client-safe message. Cause is kept for
// logging and errors.Is/As but never shown to API callers.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// NotFound reports a missing resource.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Validation reports bad input not tied to one field.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField reports bad input in field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func IsNotFound(err error) bool   { return GetCode(err) == ErrCodeNotFound }
func IsConflict(err error) bool   { return GetCode(err) == ErrCodeConflict }
func IsValidation(err error) bool { return GetCode(err) == ErrCodeValidation }
func IsInternal(err error) bool   { return GetCode(err) == ErrCodeInternal }
func IsTimeout(err error) bool    { return GetCode(err) == ErrCodeTimeout }

// GetCode returns the code of the outermost AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	if appErr := asAppError(err); appErr != nil {
		return appErr.Code
	}
	return ""
}

// GetField returns the offending field of the outermost AppError, or "".
func GetField(err error) string {
	if appErr := asAppError(err); appErr != nil {
		return appErr.Field
	}
	return ""
}

func asAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
