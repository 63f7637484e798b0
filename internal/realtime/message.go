// Package realtime pushes refresh hints to the websocket clients of a room.
package realtime

// Message types on the websocket.
const (
	TypeJoinRoom    = "join-room"
	TypeUpdateState = "update-state"
	TypeError       = "error"
)

// Message is the JSON frame exchanged with browser and Go clients.  Clients
// send join-room with their username; the server sends update-state whenever
// someone else changed the room.
type Message struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Reason   string `json:"reason,omitempty"`
	By       string `json:"by,omitempty"`
	Error    string `json:"error,omitempty"`
}
