// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeError        ErrorType = "processing_error"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeProvider     ErrorType = "provider_error"
	ErrorTypeRateLimited  ErrorType = "rate_limited"
)

// AppError carries a user-facing message, a machine code and the underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
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

// NewAppError creates an AppError with the default code for its type.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewProcessingError is used for persistence and other infrastructure failures.
func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

func NewUnauthorizedError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUnauthorized, message, originalError)
}

func NewConflictError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeConflict, message, originalError)
}

// NewProviderError marks a failed call to an external generation provider.
// These never reach HTTP clients; the analyzer recovers from them.
func NewProviderError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeProvider, message, originalError)
}

func NewRateLimitedError(message string) *AppError {
	return NewAppError(ErrorTypeRateLimited, message, nil)
}

func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

func IsUnauthorizedError(err error) bool {
	return isType(err, ErrorTypeUnauthorized)
}

func IsConflictError(err error) bool {
	return isType(err, ErrorTypeConflict)
}

func IsProcessingError(err error) bool {
	return isType(err, ErrorTypeError)
}

func IsProviderError(err error) bool {
	return isType(err, ErrorTypeProvider)
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	var appError *AppError
	if !errors.As(err, &appError) {
		return http.StatusInternalServerError
	}
	switch appError.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeError:
		return "PROCESSING_ERROR"
	case ErrorTypeUnauthorized:
		return "UNAUTHORIZED"
	case ErrorTypeConflict:
		return "CONFLICT"
	case ErrorTypeTimeout:
		return "TIMEOUT"
	case ErrorTypeProvider:
		return "PROVIDER_ERROR"
	case ErrorTypeRateLimited:
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError prefixes message onto err, keeping the type of an existing AppError.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
