package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHoleGivesEveryMemberAZeroScore(t *testing.T) {
	f := newFixture(t)
	ms := f.join(t, "three-players", "alice", "bob", "carol")

	hole, err := f.holes.CreateHole(context.Background(), ms[0].Room.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, hole.Number)
	assert.Equal(t, 4, hole.Par)

	scores := f.store.Scores()
	require.Len(t, scores, 3)
	owners := map[int64]bool{}
	for _, sc := range scores {
		assert.Equal(t, hole.ID, sc.HoleID)
		assert.Zero(t, sc.Score)
		owners[sc.UserID] = true
	}
	assert.Len(t, owners, 3)
}

func TestCreateHoleFillsFirstGap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.join(t, "gappy", "alice")[0].Room.ID
	for _, n := range []int{1, 3} {
		_, err := f.store.CreateHole(ctx, roomID, n, 3, timeNow())
		require.NoError(t, err)
	}

	hole, err := f.holes.CreateHole(ctx, roomID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, hole.Number)
}

func TestCreateHoleScoreShortfallRollsBack(t *testing.T) {
	f := newFixture(t)
	roomID := f.join(t, "short-room", "alice", "bob")[0].Room.ID
	f.store.UnderReport("CreateScores", 1)

	_, err := f.holes.CreateHole(context.Background(), roomID, 3)
	assert.ErrorIs(t, err, ErrStore)
	assert.Empty(t, f.numbers(t, roomID))
	assert.Empty(t, f.store.Scores())
}

func TestCreateHoleValidation(t *testing.T) {
	f := newFixture(t)
	roomID := f.join(t, "v-room", "alice")[0].Room.ID

	_, err := f.holes.CreateHole(context.Background(), roomID, -1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.holes.CreateHole(context.Background(), 0, 3)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.holes.CreateHole(context.Background(), 4242, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveMiddleHoleRenumbersLaterHoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.join(t, "five-holes", "alice", "bob")[0].Room.ID
	holes := f.addHoles(t, roomID, 5)

	require.NoError(t, f.holes.RemoveHole(ctx, holes[2].ID, roomID))

	got, err := f.store.ListHolesByRoom(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, f.numbers(t, roomID))
	// Former holes 4 and 5 keep their ids and move down.
	assert.Equal(t, holes[3].ID, got[2].ID)
	assert.Equal(t, holes[4].ID, got[3].ID)

	for _, sc := range f.store.Scores() {
		assert.NotEqual(t, holes[2].ID, sc.HoleID, "scores of the removed hole must be gone")
	}
	assert.Len(t, f.store.Scores(), 8)
}

func TestRemoveHoleKeepsScoreIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ms := f.join(t, "keep-ids", "alice")
	roomID := ms[0].Room.ID
	holes := f.addHoles(t, roomID, 3)

	before, err := f.store.GetScoreByPair(ctx, ms[0].User.ID, holes[2].ID)
	require.NoError(t, err)
	require.NoError(t, f.holes.RemoveHole(ctx, holes[0].ID, roomID))
	after, err := f.store.GetScoreByPair(ctx, ms[0].User.ID, holes[2].ID)
	require.NoError(t, err)

	assert.Equal(t, before.ID, after.ID)
	moved, err := f.store.GetHole(ctx, holes[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Number)
}

func TestRemoveHoleFromAnotherRoom(t *testing.T) {
	f := newFixture(t)
	a := f.join(t, "room-a", "alice")[0].Room.ID
	b := f.join(t, "room-b", "bob")[0].Room.ID
	holes := f.addHoles(t, a, 2)

	err := f.holes.RemoveHole(context.Background(), holes[0].ID, b)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []int{1, 2}, f.numbers(t, a))

	err = f.holes.RemoveHole(context.Background(), 9999, a)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveHoleRenumberMismatchRollsBack(t *testing.T) {
	f := newFixture(t)
	roomID := f.join(t, "broken", "alice")[0].Room.ID
	holes := f.addHoles(t, roomID, 4)
	f.store.UnderReport("ShiftHolesDown", 1)

	err := f.holes.RemoveHole(context.Background(), holes[1].ID, roomID)
	assert.ErrorIs(t, err, ErrConsistency)
	assert.Equal(t, []int{1, 2, 3, 4}, f.numbers(t, roomID))
	assert.Len(t, f.store.Scores(), 4)
}

func TestRemoveHoleStoreFailure(t *testing.T) {
	f := newFixture(t)
	roomID := f.join(t, "flaky", "alice")[0].Room.ID
	holes := f.addHoles(t, roomID, 2)
	f.store.FailNext("DeleteHole", errors.New("lock wait timeout"))

	err := f.holes.RemoveHole(context.Background(), holes[0].ID, roomID)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, []int{1, 2}, f.numbers(t, roomID))
}

func TestHoleNumbersStayContiguous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.join(t, "random-walk", "alice", "bob")[0].Room.ID
	rng := rand.New(rand.NewPCG(7, 11))

	for step := 0; step < 200; step++ {
		holes, err := f.store.ListHolesByRoom(ctx, roomID)
		require.NoError(t, err)
		if len(holes) == 0 || rng.IntN(3) > 0 {
			_, err = f.holes.CreateHole(ctx, roomID, rng.IntN(6))
		} else {
			err = f.holes.RemoveHole(ctx, holes[rng.IntN(len(holes))].ID, roomID)
		}
		require.NoError(t, err)

		got := f.numbers(t, roomID)
		require.Equal(t, contiguous(len(got)), got, "step %d", step)
	}
}

func TestConcurrentHoleOperationsStayContiguous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.join(t, "parallel", "alice")[0].Room.ID
	f.addHoles(t, roomID, 6)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := f.holes.CreateHole(ctx, roomID, 3)
				assert.NoError(t, err)
				return
			}
			holes, err := f.store.ListHolesByRoom(ctx, roomID)
			if !assert.NoError(t, err) || len(holes) == 0 {
				return
			}
			err = f.holes.RemoveHole(ctx, holes[len(holes)-1].ID, roomID)
			// Another goroutine may have removed the same hole first.
			if err != nil {
				assert.ErrorIs(t, err, ErrNotFound)
			}
		}(i)
	}
	wg.Wait()

	got := f.numbers(t, roomID)
	assert.Equal(t, contiguous(len(got)), got)
}
