package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/golf-scorecard/internal/logger"
	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/testutil"
)

type fixture struct {
	store   *testutil.MemStore
	members *MembershipService
	cards   *ScorecardService
	holes   *HoleService
	scores  *ScoreService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	log := logger.Discard()
	return &fixture{
		store:   store,
		members: NewMembershipService(store, nil, log),
		cards:   NewScorecardService(store, log),
		holes:   NewHoleService(store, NewLocalLocker(), log),
		scores:  NewScoreService(store, log),
	}
}

// join puts every user into room and returns the memberships in order.
func (f *fixture) join(t *testing.T, room string, users ...string) []*model.Membership {
	t.Helper()
	out := make([]*model.Membership, 0, len(users))
	for _, u := range users {
		m, err := f.members.JoinRoom(context.Background(), u, room)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func (f *fixture) addHoles(t *testing.T, roomID int64, n int) []*model.Hole {
	t.Helper()
	out := make([]*model.Hole, 0, n)
	for i := 0; i < n; i++ {
		h, err := f.holes.CreateHole(context.Background(), roomID, 3+i%3)
		require.NoError(t, err)
		out = append(out, h)
	}
	return out
}

func (f *fixture) numbers(t *testing.T, roomID int64) []int {
	t.Helper()
	holes, err := f.store.ListHolesByRoom(context.Background(), roomID)
	require.NoError(t, err)
	out := make([]int, len(holes))
	for i, h := range holes {
		out[i] = h.Number
	}
	return out
}

func contiguous(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
