// Package errors provides custom error types for the moneymat client.
// Service and orchestrator errors use AppError so the local API can render
// consistent responses without leaking internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Budget item errors.
var (
	ErrItemNotFound = &AppError{Code: "ITEM_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound}
)

// Outbox errors.
var (
	ErrUnknownOperation = &AppError{Code: "UNKNOWN_OPERATION", Message: "Unknown operation", StatusCode: http.StatusBadRequest}
)

// Sync errors.
var (
	ErrSyncInProgress     = &AppError{Code: "SYNC_IN_PROGRESS", Message: "A sync is already in progress", StatusCode: http.StatusConflict}
	ErrOffline            = &AppError{Code: "OFFLINE", Message: "No connection to the server", StatusCode: http.StatusServiceUnavailable}
	ErrNetwork            = &AppError{Code: "NETWORK_ERROR", Message: "The server could not be reached", StatusCode: http.StatusBadGateway}
	ErrRemoteRejected     = &AppError{Code: "REMOTE_REJECTED", Message: "The server rejected the request", StatusCode: http.StatusBadGateway}
	ErrConflictNotFound   = &AppError{Code: "CONFLICT_NOT_FOUND", Message: "No pending conflict for this item", StatusCode: http.StatusNotFound}
	ErrNoPendingConflicts = &AppError{Code: "NO_PENDING_CONFLICTS", Message: "There are no conflicts awaiting resolution", StatusCode: http.StatusConflict}
)
