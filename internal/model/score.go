package model

import "time"

// Score is the stroke count of one user on one hole.  Only the owning user may
// change it.
type Score struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	HoleID       int64     `json:"holeId"`
	Score        int       `json:"score"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// Player is a room member together with one score per hole, in hole order.
type Player struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RoomID       int64     `json:"roomId"`
	LastAccessed time.Time `json:"lastAccessed"`
	Scores       []Score   `json:"scores"`
}

// RoomScore is the full scorecard view of a room.
type RoomScore struct {
	Room    Room     `json:"room"`
	Holes   []Hole   `json:"holes"`
	Players []Player `json:"players"`
}

// Clone returns a deep copy of rs.
func (rs RoomScore) Clone() RoomScore {
	out := RoomScore{Room: rs.Room}
	if rs.Holes != nil {
		out.Holes = append([]Hole(nil), rs.Holes...)
	}
	if rs.Players != nil {
		out.Players = make([]Player, len(rs.Players))
		for i, p := range rs.Players {
			out.Players[i] = p
			if p.Scores != nil {
				out.Players[i].Scores = append([]Score(nil), p.Scores...)
			}
		}
	}
	return out
}
