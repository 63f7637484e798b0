package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// HoleService adds and removes holes while keeping each room's hole numbers
// contiguous.  Both operations hold the room lock for their whole
// transaction.
type HoleService struct {
	store  repository.Store
	locker RoomLocker
	log    logrus.FieldLogger
}

// NewHoleService wires the service.  A nil locker defaults to an in-process
// LocalLocker.
func NewHoleService(store repository.Store, locker RoomLocker, log logrus.FieldLogger) *HoleService {
	if store == nil {
		panic("nil store passed to NewHoleService")
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &HoleService{store: store, locker: locker, log: log}
}

// CreateHole appends a hole to the room using the first unused number and
// gives every current member a zero score on it.
func (s *HoleService) CreateHole(ctx context.Context, roomID int64, par int) (*model.Hole, error) {
	if roomID <= 0 {
		return nil, invalid("roomId must be positive")
	}
	if par < 0 {
		return nil, invalid("par must not be negative")
	}

	unlock, err := s.locker.Lock(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("lock room %d: %w: %v", roomID, ErrStore, err)
	}
	defer unlock()

	now := time.Now().UTC()
	var hole *model.Hole
	err = s.store.WithTx(ctx, func(q repository.Queries) error {
		if err := q.LockRoom(ctx, roomID); err != nil {
			return fmt.Errorf("lock room row: %w", err)
		}
		holes, err := q.ListHolesByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("list holes: %w", err)
		}
		hole, err = q.CreateHole(ctx, roomID, model.NextHoleNumber(holes), par, now)
		if err != nil {
			return fmt.Errorf("insert hole: %w", err)
		}

		users, err := q.ListUsersByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		n, err := q.CreateScores(ctx, hole.ID, ids, now)
		if err != nil {
			return fmt.Errorf("insert scores: %w", err)
		}
		if n != int64(len(ids)) {
			return fmt.Errorf("%w: created %d of %d scores for hole %d", ErrStore, n, len(ids), hole.ID)
		}
		return q.TouchRoom(ctx, roomID, now)
	})
	if err != nil {
		s.log.WithError(err).WithField("room_id", roomID).Warn("create hole failed")
		return nil, storeErr("create hole", err)
	}

	s.log.WithFields(logrus.Fields{"room_id": roomID, "hole_id": hole.ID, "number": hole.Number}).Info("hole created")
	return hole, nil
}

// RemoveHole deletes a hole of the room together with its scores and closes
// the gap by moving every later hole down by one.
func (s *HoleService) RemoveHole(ctx context.Context, holeID, roomID int64) error {
	if holeID <= 0 || roomID <= 0 {
		return invalid("holeId and roomId must be positive")
	}

	unlock, err := s.locker.Lock(ctx, roomID)
	if err != nil {
		return fmt.Errorf("lock room %d: %w: %v", roomID, ErrStore, err)
	}
	defer unlock()

	now := time.Now().UTC()
	var removed *model.Hole
	err = s.store.WithTx(ctx, func(q repository.Queries) error {
		if err := q.LockRoom(ctx, roomID); err != nil {
			return fmt.Errorf("lock room row: %w", err)
		}
		hole, err := q.GetHole(ctx, holeID)
		if err != nil {
			return fmt.Errorf("load hole: %w", err)
		}
		if hole.RoomID != roomID {
			return fmt.Errorf("%w: hole %d is not in room %d", ErrNotFound, holeID, roomID)
		}
		if err := q.DeleteHole(ctx, holeID); err != nil {
			return fmt.Errorf("delete hole: %w", err)
		}

		want, err := q.CountHolesAfter(ctx, roomID, hole.Number)
		if err != nil {
			return fmt.Errorf("count later holes: %w", err)
		}
		got, err := q.ShiftHolesDown(ctx, roomID, hole.Number, now)
		if err != nil {
			return fmt.Errorf("renumber holes: %w", err)
		}
		if got != want {
			return fmt.Errorf("%w: renumbered %d of %d holes after %d in room %d",
				ErrConsistency, got, want, hole.Number, roomID)
		}
		removed = hole
		return q.TouchRoom(ctx, roomID, now)
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "hole_id": holeID}).Warn("remove hole failed")
		return storeErr("remove hole", err)
	}

	s.log.WithFields(logrus.Fields{"room_id": roomID, "hole_id": holeID, "number": removed.Number}).Info("hole removed")
	return nil
}
