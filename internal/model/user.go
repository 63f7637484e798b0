package model

import "time"

// User is a named participant.  A user belongs to exactly one room at a time;
// joining another room moves them.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RoomID       int64     `json:"roomId"`
	LastAccessed time.Time `json:"lastAccessed"`
}
