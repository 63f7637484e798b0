// Package model holds the scorecard entities shared by the store, the
// services, the HTTP layer and the client cache.  JSON field names match the
// wire format the web client expects.
package model

import "time"

// Room is a named scorecard shared by every user who joins it.  The name is
// unique, lower-case and never changes after creation.
type Room struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// Membership is the result of joining a room.
type Membership struct {
	Room Room `json:"room"`
	User User `json:"user"`
}
