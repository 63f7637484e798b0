package model

import "time"

// PlaceholderID marks a hole or score the client added optimistically and the
// server has not assigned an id to yet.
const PlaceholderID int64 = -1

// Hole is one position on a room's scorecard.  Numbers inside a room always
// form the contiguous range 1..N.
type Hole struct {
	ID           int64     `json:"id"`
	RoomID       int64     `json:"roomId"`
	Number       int       `json:"number"`
	Par          int       `json:"par"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// NextHoleNumber returns the smallest integer >= 1 not used by holes.
func NextHoleNumber(holes []Hole) int {
	used := make(map[int]struct{}, len(holes))
	for _, h := range holes {
		used[h.Number] = struct{}{}
	}
	n := 1
	for {
		if _, ok := used[n]; !ok {
			return n
		}
		n++
	}
}
