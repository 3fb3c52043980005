package util

import (
	"errors"
	"net/http"

	"gridwatch/backend/pkg/phemex"
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

// Common error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeRateLimit          = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeAPIKeyInvalid      = "API_KEY_INVALID"
	ErrCodeAPIKeyMissing      = "API_KEY_MISSING"
	ErrCodeBotNotFound        = "BOT_NOT_FOUND"
	ErrCodeExchangeAPI        = "EXCHANGE_API_ERROR"
)

// NewAppError creates a new application error
func NewAppError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewAppErrorWithDetails creates a new application error with details
func NewAppErrorWithDetails(statusCode int, code, message, details string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
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

func ErrForbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, ErrCodeForbidden, message)
}

func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeNotFound, message)
}

func ErrConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, ErrCodeConflict, message)
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

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// FromExchangeError maps a Phemex transport error to the HTTP error shown to the caller
func FromExchangeError(err error) *AppError {
	if err == nil {
		return nil
	}

	var authErr *phemex.AuthError
	var rateErr *phemex.RateLimitError
	var apiErr *phemex.APIError
	switch {
	case errors.As(err, &authErr):
		return WrapError(http.StatusBadRequest, ErrCodeAPIKeyInvalid, "Authentication failed - check your API keys", err)
	case errors.As(err, &rateErr):
		return WrapError(http.StatusTooManyRequests, ErrCodeRateLimit, "API rate limit reached - please wait", err)
	case errors.As(err, &apiErr):
		appErr := WrapError(http.StatusBadGateway, ErrCodeExchangeAPI, "Exchange rejected the request", err)
		appErr.Details = apiErr.Message
		return appErr
	default:
		return WrapError(http.StatusBadGateway, ErrCodeExchangeAPI, "Exchange is unreachable - please check your connection", err)
	}
}
