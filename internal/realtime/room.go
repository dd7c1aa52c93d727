package realtime

import "fmt"

// roomKind distinguishes the two room families.
type roomKind uint8

const (
	roomKindUser roomKind = iota
	roomKindTask
)

// RoomID identifies a broadcast group. Rooms are not materialized
// objects; a RoomID is a key into the membership index and a room
// exists implicitly as long as at least one session is joined.
type RoomID struct {
	kind roomKind
	id   int64
}

// UserRoom returns the room scoping broadcasts to one user's
// connections. Every authenticated session is a member of exactly one
// user room, matching its principal, for its entire lifetime.
func UserRoom(userID int64) RoomID {
	return RoomID{kind: roomKindUser, id: userID}
}

// TaskRoom returns the room for subscribers of one task.
func TaskRoom(taskID int64) RoomID {
	return RoomID{kind: roomKindTask, id: taskID}
}

// IsUserRoom reports whether the room is a user room.
func (r RoomID) IsUserRoom() bool { return r.kind == roomKindUser }

// String renders the room key in the wire-familiar "user:1"/"task:2" form.
func (r RoomID) String() string {
	if r.kind == roomKindUser {
		return fmt.Sprintf("user:%d", r.id)
	}
	return fmt.Sprintf("task:%d", r.id)
}
