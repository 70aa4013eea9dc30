// Package server provides the HTTP REST API for the resume scoring service.
package server

import (
	"fmt"
	"net/http"
)

// ErrUserAlreadyExists indicates the username or email is already registered.
// The two cases are deliberately not distinguished in the message.
type ErrUserAlreadyExists struct{}

func (e *ErrUserAlreadyExists) Error() string {
	return "username or email already exists"
}

// ErrInvalidCredentials indicates invalid login credentials. Unknown username
// and wrong password are indistinguishable.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrUserAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
