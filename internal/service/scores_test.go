package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateScoreByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ms := f.join(t, "owner-room", "alice")
	holes := f.addHoles(t, ms[0].Room.ID, 1)
	sc, err := f.store.GetScoreByPair(ctx, ms[0].User.ID, holes[0].ID)
	require.NoError(t, err)

	roomBefore, err := f.store.GetRoomByID(ctx, ms[0].Room.ID)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	up, err := f.scores.UpdateScore(ctx, sc.ID, ms[0].User.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, up.Score.Score)
	assert.Equal(t, ms[0].Room.ID, up.Room.ID)
	assert.Equal(t, ms[0].Room.Name, up.Room.Name)

	roomAfter, err := f.store.GetRoomByID(ctx, ms[0].Room.ID)
	require.NoError(t, err)
	assert.True(t, roomAfter.LastAccessed.After(roomBefore.LastAccessed))
}

func TestUpdateScoreByOtherUserIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ms := f.join(t, "two-players", "alice", "bob")
	holes := f.addHoles(t, ms[0].Room.ID, 1)
	aliceScore, err := f.store.GetScoreByPair(ctx, ms[0].User.ID, holes[0].ID)
	require.NoError(t, err)
	_, err = f.scores.UpdateScore(ctx, aliceScore.ID, ms[0].User.ID, 4)
	require.NoError(t, err)

	_, err = f.scores.UpdateScore(ctx, aliceScore.ID, ms[1].User.ID, 9)
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := f.store.GetScore(ctx, aliceScore.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Score)
}

func TestUpdateScoreErrors(t *testing.T) {
	f := newFixture(t)
	ms := f.join(t, "err-room", "alice")
	holes := f.addHoles(t, ms[0].Room.ID, 1)
	sc, err := f.store.GetScoreByPair(context.Background(), ms[0].User.ID, holes[0].ID)
	require.NoError(t, err)

	cases := []struct {
		name    string
		scoreID int64
		userID  int64
		value   int
		want    error
	}{
		{"negative value", sc.ID, ms[0].User.ID, -1, ErrValidation},
		{"zero score id", 0, ms[0].User.ID, 3, ErrValidation},
		{"missing score", 9999, ms[0].User.ID, 3, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.scores.UpdateScore(context.Background(), tc.scoreID, tc.userID, tc.value)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdateScoreDeletedBetweenReadAndWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ms := f.join(t, "vanishing", "alice")
	roomID := ms[0].Room.ID
	holes := f.addHoles(t, roomID, 1)
	sc, err := f.store.GetScoreByPair(ctx, ms[0].User.ID, holes[0].ID)
	require.NoError(t, err)

	f.store.Before("SetScore", func() {
		require.NoError(t, f.holes.RemoveHole(ctx, holes[0].ID, roomID))
	})
	_, err = f.scores.UpdateScore(ctx, sc.ID, ms[0].User.ID, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}
