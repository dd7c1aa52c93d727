package realtime

import "fmt"

// SessionState is the lifecycle state of one connection.
type SessionState uint8

const (
	// StateConnecting is the initial state, before the handshake has
	// resolved a principal.
	StateConnecting SessionState = iota

	// StateAuthenticated means the principal is resolved and commands
	// are accepted.
	StateAuthenticated

	// StateRejected means principal resolution failed; the connection
	// is torn down immediately after one error event.
	StateRejected

	// StateClosed is terminal. All registry entries for the session are
	// purged exactly once on entry.
	StateClosed
)

// String implements fmt.Stringer for log output.
func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Sink is the outbound side of a connection. Send is best-effort and
// must never block: it reports false when the payload was dropped
// (slow or closing connection). The gateway's websocket client and the
// test fakes implement it.
type Sink interface {
	Send(data []byte) bool
}

// Session is the server-side state for one live connection. It is
// owned exclusively by the Registry: created on connect, mutated only
// under the registry mutex, destroyed on disconnect.
type Session struct {
	// ID is the opaque connection identifier.
	ID string

	// UserID is the resolved principal. Zero until authenticated,
	// immutable afterwards.
	UserID int64

	state SessionState
	rooms map[RoomID]struct{}
	sink  Sink
}

// State returns the session's current lifecycle state.
// Callers outside the registry see a point-in-time snapshot.
func (s *Session) State() SessionState { return s.state }

// transition moves the session to the target state, enforcing the
// lifecycle: Connecting→Authenticated, Connecting→Rejected, and
// Authenticated→Closed. Closed is terminal. Must be called with the
// registry mutex held.
func (s *Session) transition(to SessionState) error {
	allowed := false
	switch s.state {
	case StateConnecting:
		allowed = to == StateAuthenticated || to == StateRejected || to == StateClosed
	case StateAuthenticated:
		allowed = to == StateClosed
	case StateRejected:
		allowed = to == StateClosed
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}
	s.state = to
	return nil
}

// inRoom reports membership. Must be called with the registry mutex held.
func (s *Session) inRoom(room RoomID) bool {
	_, ok := s.rooms[room]
	return ok
}
