package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/golf-scorecard/internal/logger"
	"github.com/iliyamo/golf-scorecard/internal/testutil"
)

type fixedNames struct {
	names []string
	calls int
}

func (f *fixedNames) Generate() string {
	n := f.names[f.calls%len(f.names)]
	f.calls++
	return n
}

func TestJoinRoomIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.members.JoinRoom(ctx, "alice", "Sunny-Eagle-Bay")
	require.NoError(t, err)
	second, err := f.members.JoinRoom(ctx, " alice ", "sunny-eagle-bay")
	require.NoError(t, err)

	assert.Equal(t, "sunny-eagle-bay", first.Room.Name)
	assert.Equal(t, first.Room.ID, second.Room.ID)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, first.Room.ID, second.User.RoomID)
}

func TestJoinRoomMovesUserBetweenRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.members.JoinRoom(ctx, "alice", "room-a")
	require.NoError(t, err)
	b, err := f.members.JoinRoom(ctx, "alice", "room-b")
	require.NoError(t, err)

	assert.Equal(t, a.User.ID, b.User.ID)
	assert.NotEqual(t, a.Room.ID, b.Room.ID)

	_, _, err = f.members.RequireMember(ctx, "alice", a.Room.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, _, err = f.members.RequireMember(ctx, "alice", b.Room.ID)
	assert.NoError(t, err)
}

func TestJoinRoomValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.members.JoinRoom(context.Background(), "  ", "room")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.members.JoinRoom(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinRoomStoreFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("UpsertUser", errors.New("connection reset"))

	_, err := f.members.JoinRoom(context.Background(), "alice", "lonely-room")
	assert.ErrorIs(t, err, ErrStore)

	taken, err := f.store.RoomNameTaken(context.Background(), "lonely-room")
	require.NoError(t, err)
	assert.False(t, taken, "room insert must be rolled back with the failed user upsert")
}

func TestCreateRoomSkipsTakenNames(t *testing.T) {
	store := testutil.NewMemStore()
	names := &fixedNames{names: []string{"calm-tee-lake", "calm-tee-lake", "odd-iron-mesa"}}
	svc := NewMembershipService(store, names, logger.Discard())

	first, err := svc.CreateRoom(context.Background())
	require.NoError(t, err)
	second, err := svc.CreateRoom(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "calm-tee-lake", first.Name)
	assert.Equal(t, "odd-iron-mesa", second.Name)
	assert.Equal(t, 3, names.calls)
}

func TestCreateRoomDuplicateOnInsertRetries(t *testing.T) {
	store := testutil.NewMemStore()
	names := &fixedNames{names: []string{"raced-name-here", "free-name-here"}}
	svc := NewMembershipService(store, names, logger.Discard())

	// Another instance grabs the name between the existence check and the insert.
	store.Before("CreateRoom", func() {
		_, _ = store.UpsertRoom(context.Background(), "raced-name-here", timeNow())
	})

	room, err := svc.CreateRoom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "free-name-here", room.Name)
}

func TestCreateRoomGivesUp(t *testing.T) {
	store := testutil.NewMemStore()
	_, err := store.CreateRoom(context.Background(), "only-name-ever", timeNow())
	require.NoError(t, err)
	svc := NewMembershipService(store, &fixedNames{names: []string{"only-name-ever"}}, logger.Discard())

	_, err = svc.CreateRoom(context.Background())
	assert.ErrorIs(t, err, ErrStore)
}

func TestWordNamesShape(t *testing.T) {
	name := WordNames{}.Generate()
	assert.Regexp(t, `^[a-z]+-[a-z]+-[a-z]+$`, name)
}

func TestRequireMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.join(t, "green-room", "alice")[0]
	f.join(t, "other-room", "bob")

	user, room, err := f.members.RequireMember(ctx, "alice", m.Room.ID)
	require.NoError(t, err)
	assert.Equal(t, m.User.ID, user.ID)
	assert.Equal(t, "green-room", room.Name)

	_, _, err = f.members.RequireMemberByName(ctx, "alice", "GREEN-ROOM")
	assert.NoError(t, err)

	cases := []struct {
		name   string
		user   string
		roomID int64
		want   error
	}{
		{"foreign member", "bob", m.Room.ID, ErrForbidden},
		{"unknown user", "carol", m.Room.ID, ErrForbidden},
		{"unknown room", "alice", 9999, ErrForbidden},
		{"bad room id", "alice", 0, ErrValidation},
		{"blank user", "", m.Room.ID, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.members.RequireMember(ctx, tc.user, tc.roomID)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRequireMemberStoreError(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("GetRoomByID", errors.New("timeout"))
	_, _, err := f.members.RequireMember(context.Background(), "alice", 1)
	assert.ErrorIs(t, err, ErrStore)
}
