package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrAuthenticationRequired = errors.New("user not authenticated")
)

// APIError is a non-success HTTP response. Message carries the server's
// `error` or `message` field and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// NetworkError is a request that never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op == "" {
		return "network error: " + e.Err.Error()
	}
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a client-side presence or shape check that failed
// before any request was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// WithDefaultMessage fills an empty APIError message with fallback. Any
// other error is returned untouched.
func WithDefaultMessage(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		return &APIError{Status: apiErr.Status, Message: fallback}
	}
	return err
}
