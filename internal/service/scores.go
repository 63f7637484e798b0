package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// ScoreService writes scores on behalf of their owners.
type ScoreService struct {
	store repository.Store
	log   logrus.FieldLogger
}

func NewScoreService(store repository.Store, log logrus.FieldLogger) *ScoreService {
	if store == nil {
		panic("nil store passed to NewScoreService")
	}
	return &ScoreService{store: store, log: log}
}

// ScoreUpdate is a written score and the room it belongs to.
type ScoreUpdate struct {
	Score model.Score
	Room  model.Room
}

// UpdateScore sets the value of a score owned by userID.  The caller's
// userID is trusted as sent.  A score owned by someone else is rejected with
// ErrForbidden and left untouched.
func (s *ScoreService) UpdateScore(ctx context.Context, scoreID, userID int64, value int) (*ScoreUpdate, error) {
	if scoreID <= 0 || userID <= 0 {
		return nil, invalid("userScoreId and userId must be positive")
	}
	if value < 0 {
		return nil, invalid("score must not be negative")
	}

	current, err := s.store.GetScore(ctx, scoreID)
	if err != nil {
		return nil, storeErr("load score", err)
	}
	if current.UserID != userID {
		s.log.WithFields(logrus.Fields{"score_id": scoreID, "user_id": userID}).Warn("rejected score update by non-owner")
		return nil, fmt.Errorf("%w: score %d belongs to another user", ErrForbidden, scoreID)
	}

	now := time.Now().UTC()
	n, err := s.store.SetScore(ctx, scoreID, userID, value, now)
	if err != nil {
		return nil, storeErr("update score", err)
	}
	if n == 0 {
		// Deleted with its hole between the read and the write.
		return nil, fmt.Errorf("update score: %w", ErrNotFound)
	}

	updated, err := s.store.GetScore(ctx, scoreID)
	if err != nil {
		return nil, storeErr("reload score", err)
	}
	hole, err := s.store.GetHole(ctx, updated.HoleID)
	if err != nil {
		return nil, storeErr("load hole", err)
	}
	if err := s.store.TouchRoom(ctx, hole.RoomID, now); err != nil {
		s.log.WithError(err).WithField("room_id", hole.RoomID).Warn("could not bump room last access")
	}
	// The score is written; a room that cannot be read only costs the
	// realtime hint its room name.
	room := model.Room{ID: hole.RoomID}
	if r, err := s.store.GetRoomByID(ctx, hole.RoomID); err != nil {
		s.log.WithError(err).WithField("room_id", hole.RoomID).Warn("could not load room of updated score")
	} else {
		room = *r
	}
	return &ScoreUpdate{Score: *updated, Room: room}, nil
}
