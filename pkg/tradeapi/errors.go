package tradeapi

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the upstream API rejects the bearer
// token. Callers must treat it as a signal to tear down the session.
var ErrUnauthorized = errors.New("unauthorized")

// APIError represents a non-2xx response from the trading API
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// IsAPIError extracts an APIError from err
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
