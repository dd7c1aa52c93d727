package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    SessionState
		to      SessionState
		allowed bool
	}{
		{name: "connecting to authenticated", from: StateConnecting, to: StateAuthenticated, allowed: true},
		{name: "connecting to rejected", from: StateConnecting, to: StateRejected, allowed: true},
		{name: "connecting to closed", from: StateConnecting, to: StateClosed, allowed: true},
		{name: "authenticated to closed", from: StateAuthenticated, to: StateClosed, allowed: true},
		{name: "rejected to closed", from: StateRejected, to: StateClosed, allowed: true},
		{name: "authenticated to rejected", from: StateAuthenticated, to: StateRejected, allowed: false},
		{name: "authenticated to authenticated", from: StateAuthenticated, to: StateAuthenticated, allowed: false},
		{name: "closed is terminal", from: StateClosed, to: StateAuthenticated, allowed: false},
		{name: "closed to closed", from: StateClosed, to: StateClosed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := &Session{state: tt.from, rooms: make(map[RoomID]struct{})}
			err := sess.transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, sess.State())
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, sess.State())
			}
		})
	}
}

func TestSessionStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "rejected", StateRejected.String())
	assert.Equal(t, "closed", StateClosed.String())
}

func TestRoomID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user:1", UserRoom(1).String())
	assert.Equal(t, "task:2", TaskRoom(2).String())
	assert.True(t, UserRoom(1).IsUserRoom())
	assert.False(t, TaskRoom(1).IsUserRoom())

	// Same numeric id, different families.
	assert.NotEqual(t, UserRoom(1), TaskRoom(1))
	assert.Equal(t, UserRoom(1), UserRoom(1))
}
