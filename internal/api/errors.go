// Package api provides the typed HTTP client for the model installer backend.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeAuthRequired is the server error code for a missing download credential
const CodeAuthRequired = "auth_required"

// Error is a non-2xx response from the backend, carrying the HTTP status and
// the server's error payload. Transport failures are returned as plain
// errors, not *Error.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s)", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// IsAuthRequired reports whether err is a 401 carrying the auth_required
// error code. A bare 401 without the code counts as a business failure, not
// an authentication prompt.
func IsAuthRequired(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized && apiErr.Code == CodeAuthRequired
}
