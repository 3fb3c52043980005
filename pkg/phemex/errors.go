package phemex

import (
	"errors"
	"fmt"
)

// AuthError is returned when the exchange rejects the credentials (HTTP 401)
type AuthError struct {
	Path string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("phemex %s: authentication failed - check your API keys", e.Path)
}

// RateLimitError is returned on HTTP 429
type RateLimitError struct {
	Path string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("phemex %s: API rate limit reached", e.Path)
}

// TransportError is any other non-2xx response
type TransportError struct {
	Path   string
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("phemex %s: API error: %d", e.Path, e.Status)
}

// APIError is a 2xx response whose envelope carries a non-zero code
type APIError struct {
	Path    string
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("phemex %s: code %d: %s", e.Path, e.Code, e.Message)
}

// NetworkError wraps failures where no usable response was received
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("phemex %s: network error: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth another attempt with a fresh signature
func IsRetryable(err error) bool {
	var rl *RateLimitError
	var ne *NetworkError
	return errors.As(err, &rl) || errors.As(err, &ne)
}

// IsAuthError reports whether err is an authentication rejection
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
