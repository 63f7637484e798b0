package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// Sweeper deletes users and rooms that have been idle for too long.
type Sweeper struct {
	store      repository.Store
	staleAfter time.Duration
	log        logrus.FieldLogger
}

func NewSweeper(store repository.Store, staleAfter time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{store: store, staleAfter: staleAfter, log: log}
}

// SweepResult counts what one sweep removed.
type SweepResult struct {
	Users int64
	Rooms int64
}

// Sweep removes stale users first, then stale rooms.  Deleting a room
// cascades to its holes, remaining users and scores.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := time.Now().UTC().Add(-s.staleAfter)
	var res SweepResult

	users, err := s.store.DeleteUsersBefore(ctx, cutoff)
	if err != nil {
		return res, storeErr("sweep users", err)
	}
	res.Users = users

	rooms, err := s.store.DeleteRoomsBefore(ctx, cutoff)
	if err != nil {
		return res, storeErr("sweep rooms", err)
	}
	res.Rooms = rooms

	s.log.WithFields(logrus.Fields{"users": res.Users, "rooms": res.Rooms, "cutoff": cutoff}).Info("stale sweep done")
	return res, nil
}
