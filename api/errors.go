package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes the client treats specially:
// credential rejection (implicit logout) and missing resources (dedicated
// not-found view instead of a generic failure).
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrNotFound)
// match without callers inspecting status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}
