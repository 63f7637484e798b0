package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/golf-scorecard/internal/logger"
)

func TestSweepRemovesStaleUsersAndRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := time.Now().UTC().Add(-20 * time.Hour)

	stale, err := f.store.UpsertRoom(ctx, "stale-room", old)
	require.NoError(t, err)
	_, err = f.store.UpsertUser(ctx, "ghost", stale.ID, old)
	require.NoError(t, err)
	_, err = f.store.CreateHole(ctx, stale.ID, 1, 3, old)
	require.NoError(t, err)

	fresh := f.join(t, "fresh-room", "alice")[0]
	idle, err := f.store.UpsertUser(ctx, "idle", fresh.Room.ID, old)
	require.NoError(t, err)

	res, err := NewSweeper(f.store, 16*time.Hour, logger.Discard()).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Users)
	assert.Equal(t, int64(1), res.Rooms)

	_, err = f.store.GetRoomByName(ctx, "stale-room")
	assert.Error(t, err)
	_, err = f.store.GetUserByName(ctx, idle.Name)
	assert.Error(t, err)
	_, _, err = f.members.RequireMember(ctx, "alice", fresh.Room.ID)
	assert.NoError(t, err)
}

func TestSweepStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("DeleteRoomsBefore", errors.New("gone away"))
	_, err := NewSweeper(f.store, time.Hour, logger.Discard()).Sweep(context.Background())
	assert.ErrorIs(t, err, ErrStore)
}
