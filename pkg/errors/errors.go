package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// One code per failure class a handler can report.
const (
	ErrValidation ErrorCode = iota + 1000
	ErrInvalidCredentials
	ErrUnauthorized
	ErrNotFound
	ErrUnavailable
	ErrSlotTaken
	ErrInvalidSignature
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code extracts the error code; unclassified errors map to ErrInternal.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func Is(err error, code ErrorCode) bool {
	return Code(err) == code
}

// Error constructors
func Validation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: ErrInvalidCredentials, Message: "invalid credentials"}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Unavailable(message string) *AppError {
	return &AppError{Code: ErrUnavailable, Message: message}
}

func SlotTaken() *AppError {
	return &AppError{Code: ErrSlotTaken, Message: "slot not available"}
}

func InvalidSignature() *AppError {
	return &AppError{Code: ErrInvalidSignature, Message: "invalid payment signature"}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}
