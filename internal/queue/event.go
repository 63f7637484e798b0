// Package queue defines the room events exchanged between server instances
// and the RabbitMQ publisher and consumer that carry them.
package queue

import "time"

// Reasons attached to a RoomEvent.
const (
	ReasonJoin        = "join"
	ReasonHoleCreated = "hole-created"
	ReasonHoleRemoved = "hole-removed"
	ReasonScore       = "score-updated"
)

// RoomEvent tells every instance that a room changed.  Receivers forward it
// to the room's websocket clients as a refresh hint; it never carries the
// new state itself.
type RoomEvent struct {
	ID       string    `json:"id"`
	RoomID   int64     `json:"room_id"`
	Room     string    `json:"room"`
	Reason   string    `json:"reason"`
	ByUserID int64     `json:"by_user_id"`
	By       string    `json:"by"`
	At       time.Time `json:"at"`
}
