package utils

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	ErrNotFound     = "NOT_FOUND"
	ErrForbidden    = "FORBIDDEN"
	ErrConflict     = "CONFLICT"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrInvalidInput = "INVALID_INPUT"

	ErrDatabase = "DATABASE_ERROR"
	ErrCache    = "CACHE_ERROR"
	ErrInternal = "INTERNAL_ERROR"
)

func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: ErrForbidden, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func NewDatabaseError(message string, err error) *AppError {
	return &AppError{Code: ErrDatabase, Message: message, Origin: err}
}

// IsErrorCode reports whether err (or anything it wraps) is an AppError with the given code.
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
