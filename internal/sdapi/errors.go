package sdapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoBreakpoint is returned when a create call succeeds without echoing a breakpoint.
var ErrNoBreakpoint = errors.New("server returned no breakpoint")

// FaultError is a request the server answered with a non-success status.
type FaultError struct {
	Method  string
	Path    string
	Status  int
	Type    string
	Message string
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// Unauthorized reports whether the credentials were rejected.
func (e *FaultError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
