package util

import (
	"errors"
	"net/http"

	"botdash/gateway/pkg/tradeapi"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped error to errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrCodeSessionExpired = "SESSION_EXPIRED"
	ErrCodeUpstream       = "UPSTREAM_ERROR"
)

// NewAppError creates a new application error
func NewAppError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// WrapError wraps an existing error
func WrapError(statusCode int, code, message string, err error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// Common error constructors

func ErrBadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeBadRequest, message)
}

func ErrUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeNotFound, message)
}

func ErrValidation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeValidation, message)
}

func ErrInternalServer(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, ErrCodeInternal, message)
}

func ErrRateLimit(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, ErrCodeRateLimit, message)
}

// ErrSessionExpired signals that the upstream rejected the session token
// and the client must re-authenticate.
func ErrSessionExpired() *AppError {
	return NewAppError(http.StatusUnauthorized, ErrCodeSessionExpired, "Session expired, please sign in again")
}

// FromUpstream maps a trading-API error into the application taxonomy.
// Upstream 401 becomes a session-expired error; client-caused upstream
// statuses pass through, everything else reports as a bad gateway.
func FromUpstream(err error) *AppError {
	if errors.Is(err, tradeapi.ErrUnauthorized) {
		return ErrSessionExpired()
	}
	if apiErr, ok := tradeapi.IsAPIError(err); ok {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusBadRequest {
			status = apiErr.StatusCode
		}
		return WrapError(status, ErrCodeUpstream, apiErr.Error(), err)
	}
	return WrapError(http.StatusBadGateway, ErrCodeUpstream, "Trading API is unreachable", err)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
