package session

import (
	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned by operations on a closed session. It is also the terminal error of a
	// session closed with Close.
	ErrClosed = errors.New("session: closed")
	// ErrIllegalState is returned when sending a message that does not belong to the current state
	// of the session. Nothing is written when it is returned.
	ErrIllegalState = errors.New("session: message not valid in current state")
	// ErrStalled closes a session that received nothing for longer than its read timeout.
	ErrStalled = errors.New("session: read timeout")
	// ErrBacklog closes a session whose incoming queue stayed full for longer than the queue
	// timeout.
	ErrBacklog = errors.New("session: incoming queue full")
	// ErrNoAuthenticator closes a session that was asked to enable encryption while responding
	// automatically without an Authenticator.
	ErrNoAuthenticator = errors.New("session: encryption requested but no authenticator configured")
)

// DisconnectError is the terminal error of a session the server closed with a disconnect message.
type DisconnectError struct {
	// Reason is the reason sent by the server: JSON text, or plain text for newer versions.
	Reason string
}

// Error ...
func (e *DisconnectError) Error() string {
	return "session: disconnected by server: " + e.Reason
}

// Is ...
func (e *DisconnectError) Is(target error) bool {
	return target == ErrClosed
}
