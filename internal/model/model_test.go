package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextHoleNumber(t *testing.T) {
	cases := []struct {
		name    string
		numbers []int
		want    int
	}{
		{"empty", nil, 1},
		{"contiguous", []int{1, 2, 3}, 4},
		{"gap", []int{1, 3}, 2},
		{"missing first", []int{2, 3}, 1},
		{"unordered", []int{3, 1, 2, 5}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			holes := make([]Hole, 0, len(tc.numbers))
			for _, n := range tc.numbers {
				holes = append(holes, Hole{Number: n})
			}
			assert.Equal(t, tc.want, NextHoleNumber(holes))
		})
	}
}

func TestRoomScoreCloneIsDeep(t *testing.T) {
	rs := RoomScore{
		Room:  Room{ID: 1, Name: "a-b-c"},
		Holes: []Hole{{ID: 10, Number: 1}},
		Players: []Player{
			{ID: 7, Scores: []Score{{ID: 100, Score: 5}}},
		},
	}
	cp := rs.Clone()
	cp.Holes[0].Number = 9
	cp.Players[0].Scores[0].Score = 7

	assert.Equal(t, 1, rs.Holes[0].Number)
	assert.Equal(t, 5, rs.Players[0].Scores[0].Score)
	assert.Equal(t, 7, cp.Players[0].Scores[0].Score)
}
