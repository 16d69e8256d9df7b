package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for server conditions.
var (
	// ErrMaxSessionsReached is returned when the maximum number of clients
	// is connected.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrServerClosed is returned when a connection arrives during shutdown.
	ErrServerClosed = errors.New("server: closed")
)

// ClientError wraps an error with the client's session id.
type ClientError struct {
	SessionID string
	Op        string // "capture", "mount", "read"
	Err       error
}

// Error returns the error message with session context.
func (e *ClientError) Error() string {
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ClientError) Unwrap() error {
	return e.Err
}
