package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoToken is returned before any request is sent when the bearer token
// is missing. Authenticated calls never hit the network without one.
var ErrNoToken = errors.New("authentication token not available")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Body       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend error: status %d, body: %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether err is a deadline-exceeded failure
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
