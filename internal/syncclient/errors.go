package syncclient

import (
	"errors"
	"fmt"
)

// Backend error codes as surfaced by the remote service.
const (
	CodePermissionDenied = "permission-denied"
	CodeNotFound         = "not-found"
	CodeUnauthenticated  = "unauthenticated"
	CodeUnavailable      = "unavailable"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSubscriptionClosed = errors.New("subscription is closed")
)

// BackendError is the raw, pre-classification error a Backend implementation
// returns. Classify maps it onto the caller-facing taxonomy; raw backend
// errors never reach the display layer.
type BackendError struct {
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
}

// PermissionError is an access-control rejection. Retrying without a
// permission change will not succeed.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Message)
}

// TransientError is a network or timeout class failure; safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient backend failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// QueryFailedError marks a live subscription as dead. The subscription must
// be explicitly reopened; it is not auto-healed.
type QueryFailedError struct {
	Err error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("live query failed: %v", e.Err)
}

func (e *QueryFailedError) Unwrap() error { return e.Err }

// Classify maps a backend error onto the taxonomy handed to callers.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		switch backendErr.Code {
		case CodePermissionDenied:
			return &PermissionError{Message: backendErr.Message}
		case CodeUnauthenticated:
			return ErrNotAuthenticated
		case CodeNotFound:
			return backendErr
		default:
			return &TransientError{Err: backendErr}
		}
	}

	// Anything untyped is transport-level
	return &TransientError{Err: err}
}

// IsNotFound reports whether the backend rejected an operation because the
// target document no longer exists.
func IsNotFound(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr) && backendErr.Code == CodeNotFound
}
