package transport

import (
	"errors"
	"time"
)

// Conn is the message connection a Session runs on. *websocket.Conn from
// github.com/gorilla/websocket satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Errors returned by Session.
var (
	// ErrSessionClosed is returned when flushing a closed session.
	ErrSessionClosed = errors.New("transport: session closed")

	// ErrPeerFatal is returned by ReadLoop when the native side reports a
	// fatal error. The error also wraps the peer's *protocol.ErrorMessage.
	ErrPeerFatal = errors.New("transport: fatal error from peer")
)
