package realtime

import (
	"log/slog"
	"sync"
)

// Registry tracks live sessions and their room memberships. The
// session table and the membership index are mutated together under one
// mutex, so they can never diverge: a connection id never appears in a
// room's member set without a corresponding live session entry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	rooms    map[RoomID]map[string]*Session
	logger   *slog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		rooms:    make(map[RoomID]map[string]*Session),
		logger:   logger.With(slog.String("component", "registry")),
	}
}

// Connect creates a session in the connecting state for a freshly
// upgraded connection. The sink receives everything addressed to the
// connection from this point on.
func (r *Registry) Connect(connID string, sink Sink) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := &Session{
		ID:    connID,
		state: StateConnecting,
		rooms: make(map[RoomID]struct{}),
		sink:  sink,
	}
	r.sessions[connID] = sess
	return sess
}

// Authenticate transitions a connecting session to authenticated,
// records its principal, and auto-joins the user's private room. The
// user-room membership lasts for the session's whole lifetime and is
// never removable by client action.
func (r *Registry) Authenticate(connID string, userID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := sess.transition(StateAuthenticated); err != nil {
		return nil, err
	}
	sess.UserID = userID
	r.joinLocked(sess, UserRoom(userID))

	r.logger.Debug("session authenticated",
		"conn_id", connID,
		"user_id", userID)
	return sess, nil
}

// Reject marks a connecting session as rejected and purges it. Called
// when principal resolution fails, right before the forced disconnect.
func (r *Registry) Reject(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return
	}
	if err := sess.transition(StateRejected); err != nil {
		r.logger.Warn("reject on non-connecting session",
			"conn_id", connID,
			"state", sess.State().String())
	}
	r.removeLocked(sess)
}

// Lookup returns the session for a connection id, if it is still live.
func (r *Registry) Lookup(connID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	return sess, ok
}

// Unregister closes a session and removes it together with all its
// room memberships. Idempotent: unregistering an unknown or already
// removed connection id is a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return
	}
	if err := sess.transition(StateClosed); err == nil {
		r.removeLocked(sess)
		r.logger.Debug("session closed",
			"conn_id", connID,
			"user_id", sess.UserID)
	}
}

// JoinRoom adds an authenticated session to a room. Joining a room the
// session is already in is a no-op. Returns ErrNotAuthenticated for
// sessions in any other state and ErrSessionNotFound for unknown ids.
func (r *Registry) JoinRoom(connID string, room RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.state != StateAuthenticated {
		return ErrNotAuthenticated
	}
	r.joinLocked(sess, room)
	return nil
}

// LeaveRoom removes an authenticated session from a room. Leaving a
// room the session never joined is a harmless no-op. The session's own
// user room cannot be left.
func (r *Registry) LeaveRoom(connID string, room RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.state != StateAuthenticated {
		return ErrNotAuthenticated
	}
	if room == UserRoom(sess.UserID) {
		return nil
	}
	r.leaveLocked(sess, room)
	return nil
}

// snapshot returns the sessions currently joined to a room. The slice
// is a copy: broadcasts iterate it without holding the mutex, so a
// membership change mid-broadcast affects only later broadcasts.
func (r *Registry) snapshot(room RoomID) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	if len(members) == 0 {
		return nil
	}
	out := make([]*Session, 0, len(members))
	for _, sess := range members {
		out = append(out, sess)
	}
	return out
}

// sinkFor returns the outbound sink for a connection id, if live.
func (r *Registry) sinkFor(connID string) (Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return nil, false
	}
	return sess.sink, true
}

func (r *Registry) joinLocked(sess *Session, room RoomID) {
	if sess.inRoom(room) {
		return
	}
	sess.rooms[room] = struct{}{}
	members := r.rooms[room]
	if members == nil {
		members = make(map[string]*Session)
		r.rooms[room] = members
	}
	members[sess.ID] = sess
}

func (r *Registry) leaveLocked(sess *Session, room RoomID) {
	if !sess.inRoom(room) {
		return
	}
	delete(sess.rooms, room)
	members := r.rooms[room]
	delete(members, sess.ID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

func (r *Registry) removeLocked(sess *Session) {
	for room := range sess.rooms {
		r.leaveLocked(sess, room)
	}
	delete(r.sessions, sess.ID)
}
