package application

import (
	"errors"
	"net/http"
)

// ValidationError reports malformed register/login input (400).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a duplicate username or email (409).
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthenticationError reports bad credentials or an unusable token (401).
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

var (
	ErrInvalidCredentials = &AuthenticationError{Message: "Invalid credentials"}
	ErrInvalidToken       = &AuthenticationError{Message: "Invalid or expired token"}
	ErrUserNotFound       = errors.New("user not found")
)

// StatusOf maps a service error onto its HTTP status. Unknown errors are 500.
func StatusOf(err error) int {
	var (
		ve *ValidationError
		ce *ConflictError
		ae *AuthenticationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
