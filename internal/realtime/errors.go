package realtime

import "errors"

// Errors surfaced by the session registry and command dispatcher.
var (
	// ErrAuthenticationRequired indicates a connection presented no
	// usable credential during the handshake. Fatal to the connection:
	// the gateway sends one error event and disconnects.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNotAuthenticated indicates a command arrived on a session that
	// is not in the authenticated state. Reported to the caller, never
	// fatal to the process.
	ErrNotAuthenticated = errors.New("client not authenticated")

	// ErrSessionNotFound indicates an operation referenced a connection
	// id with no live session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownCommand indicates an inbound event name with no handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidTransition indicates a session state change that the
	// lifecycle does not permit.
	ErrInvalidTransition = errors.New("invalid session state transition")
)
