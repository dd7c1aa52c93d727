package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAuthenticateAutoJoinsUserRoom(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	sess, _ := authedSession(t, reg, "conn-1", 42)

	assert.Equal(t, StateAuthenticated, sess.State())
	assert.Equal(t, int64(42), sess.UserID)

	members := reg.snapshot(UserRoom(42))
	require.Len(t, members, 1)
	assert.Equal(t, "conn-1", members[0].ID)
}

func TestRegistryUserRoomNotRemovable(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	authedSession(t, reg, "conn-1", 42)

	require.NoError(t, reg.LeaveRoom("conn-1", UserRoom(42)))

	// Still a member: the user room lasts for the session's lifetime.
	assert.Len(t, reg.snapshot(UserRoom(42)), 1)
}

func TestRegistryJoinRoomIdempotent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	sess, _ := authedSession(t, reg, "conn-1", 42)

	require.NoError(t, reg.JoinRoom("conn-1", TaskRoom(7)))
	require.NoError(t, reg.JoinRoom("conn-1", TaskRoom(7)))

	assert.Len(t, reg.snapshot(TaskRoom(7)), 1)
	assert.True(t, sess.inRoom(TaskRoom(7)))
}

func TestRegistryLeaveRoomIdempotent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	authedSession(t, reg, "conn-1", 42)

	// Leaving a room never joined is a harmless no-op.
	require.NoError(t, reg.LeaveRoom("conn-1", TaskRoom(7)))

	require.NoError(t, reg.JoinRoom("conn-1", TaskRoom(7)))
	require.NoError(t, reg.LeaveRoom("conn-1", TaskRoom(7)))
	require.NoError(t, reg.LeaveRoom("conn-1", TaskRoom(7)))

	assert.Empty(t, reg.snapshot(TaskRoom(7)))
}

func TestRegistryJoinRequiresAuthentication(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	reg.Connect("conn-1", &fakeSink{})

	assert.ErrorIs(t, reg.JoinRoom("conn-1", TaskRoom(7)), ErrNotAuthenticated)
	assert.ErrorIs(t, reg.LeaveRoom("conn-1", TaskRoom(7)), ErrNotAuthenticated)
	assert.ErrorIs(t, reg.JoinRoom("missing", TaskRoom(7)), ErrSessionNotFound)
}

func TestRegistryUnregisterPurgesMemberships(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	authedSession(t, reg, "conn-1", 42)
	require.NoError(t, reg.JoinRoom("conn-1", TaskRoom(7)))

	reg.Unregister("conn-1")

	_, ok := reg.Lookup("conn-1")
	assert.False(t, ok)
	assert.Empty(t, reg.snapshot(UserRoom(42)))
	assert.Empty(t, reg.snapshot(TaskRoom(7)))

	// Idempotent: a second unregister is a no-op.
	reg.Unregister("conn-1")
}

func TestRegistryRejectPurgesSession(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	reg.Connect("conn-1", &fakeSink{})
	reg.Reject("conn-1")

	_, ok := reg.Lookup("conn-1")
	assert.False(t, ok)

	// Rejecting an unknown connection is a no-op.
	reg.Reject("conn-1")
}

func TestRegistryMembershipConsistency(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	authedSession(t, reg, "conn-1", 1)
	authedSession(t, reg, "conn-2", 1)
	authedSession(t, reg, "conn-3", 2)

	// Two connections share user 1's room; user 2 has its own.
	assert.Len(t, reg.snapshot(UserRoom(1)), 2)
	assert.Len(t, reg.snapshot(UserRoom(2)), 1)

	reg.Unregister("conn-1")
	assert.Len(t, reg.snapshot(UserRoom(1)), 1)

	// Every remaining member has a live session entry.
	for _, room := range []RoomID{UserRoom(1), UserRoom(2)} {
		for _, member := range reg.snapshot(room) {
			_, ok := reg.Lookup(member.ID)
			assert.True(t, ok, "member %s of %s has no session", member.ID, room)
		}
	}
}
