package history

import (
	"errors"
	"fmt"
)

// SessionError represents errors related to session history operations
type SessionError struct {
	Type      string
	SessionID string
	Message   string
	Cause     error
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session error [%s] for session %s: %s (caused by: %v)", e.Type, e.SessionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("session error [%s] for session %s: %s", e.Type, e.SessionID, e.Message)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// Session error types
const (
	SessionErrorTypeNotFound       = "not_found"
	SessionErrorTypeAlreadyExists  = "already_exists"
	SessionErrorTypeInvalidRequest = "invalid_request"
	SessionErrorTypeQueryFailed    = "query_failed"
)

// NewSessionNotFoundError creates an error for when a session is not found
func NewSessionNotFoundError(sessionID string) *SessionError {
	return &SessionError{
		Type:      SessionErrorTypeNotFound,
		SessionID: sessionID,
		Message:   "session not found",
	}
}

// NewSessionAlreadyExistsError creates an error for duplicate session or analysis rows
func NewSessionAlreadyExistsError(sessionID, message string) *SessionError {
	return &SessionError{
		Type:      SessionErrorTypeAlreadyExists,
		SessionID: sessionID,
		Message:   message,
	}
}

// NewSessionValidationError creates an error for invalid session requests
func NewSessionValidationError(sessionID, message string) *SessionError {
	return &SessionError{
		Type:      SessionErrorTypeInvalidRequest,
		SessionID: sessionID,
		Message:   message,
	}
}

// NewSessionQueryError creates an error for storage failures
func NewSessionQueryError(sessionID, message string, cause error) *SessionError {
	return &SessionError{
		Type:      SessionErrorTypeQueryFailed,
		SessionID: sessionID,
		Message:   message,
		Cause:     cause,
	}
}

// IsNotFound reports whether err is a not-found session error.
func IsNotFound(err error) bool {
	var se *SessionError
	return errors.As(err, &se) && se.Type == SessionErrorTypeNotFound
}

// IsAlreadyExists reports whether err is an already-exists session error.
func IsAlreadyExists(err error) bool {
	var se *SessionError
	return errors.As(err, &se) && se.Type == SessionErrorTypeAlreadyExists
}

// IsInvalidRequest reports whether err is a validation error.
func IsInvalidRequest(err error) bool {
	var se *SessionError
	return errors.As(err, &se) && se.Type == SessionErrorTypeInvalidRequest
}
