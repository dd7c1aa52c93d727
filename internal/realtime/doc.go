// Package realtime implements the websocket gateway for the task
// service: per-connection authentication, the session lifecycle, room
// membership, and the fan-out rules that decide which connected clients
// receive which task-mutation events.
//
// The registry and its membership index are the only shared mutable
// state. They are owned by the Registry/Router pair and guarded by a
// single mutex, so a connection id never appears in a room's member set
// without a corresponding live session entry. Command handlers never
// touch the index directly.
package realtime
