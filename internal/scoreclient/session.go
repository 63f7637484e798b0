package scoreclient

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

const refreshAttempts = 3

// ErrPlaceholder rejects edits of rows that exist only as optimistic
// placeholders and have no server id yet.
var ErrPlaceholder = errors.New("scoreclient: row not yet created on the server")

// Session is one user's view of one room.
type Session struct {
	api      API
	cache    *Cache
	username string
	room     model.Room
	user     model.User
	log      logrus.FieldLogger
}

// Join registers username in roomName and returns a session with an empty,
// invalid cache.  A nil log discards output.
func Join(ctx context.Context, api API, username, roomName string, log logrus.FieldLogger) (*Session, error) {
	m, err := api.JoinRoom(ctx, username, roomName)
	if err != nil {
		return nil, err
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Session{
		api:      api,
		cache:    NewCache(),
		username: m.User.Name,
		room:     m.Room,
		user:     m.User,
		log:      log.WithFields(logrus.Fields{"room": m.Room.Name, "user": m.User.Name}),
	}, nil
}

func (s *Session) Cache() *Cache { return s.cache }
func (s *Session) Room() model.Room { return s.room }
func (s *Session) User() model.User { return s.user }
func (s *Session) Username() string { return s.username }

// Read serves the cache while every key is valid and refetches otherwise.
func (s *Session) Read(ctx context.Context) (model.RoomScore, error) {
	if rs, ok := s.cache.Get(); ok {
		return rs, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the room unconditionally and refills the cache.  A fetch
// overtaken by a local change is repeated, up to refreshAttempts times; the
// last answer is returned even if it could not be stored.
func (s *Session) Refresh(ctx context.Context) (model.RoomScore, error) {
	var rs *model.RoomScore
	for attempt := 1; ; attempt++ {
		gen := s.cache.Generation()
		var err error
		rs, err = s.api.RoomScore(ctx, s.username, s.room.Name)
		if err != nil {
			return model.RoomScore{}, err
		}
		if s.cache.Fill(*rs, gen) || attempt == refreshAttempts {
			break
		}
		s.log.WithField("attempt", attempt).Debug("refresh overtaken by a local change; refetching")
	}
	return rs.Clone(), nil
}

// UpdateScore sets one of the user's scores.  The cached value changes at
// once and reverts if the server refuses.  Placeholder scores of a pending
// AddHole fail at once with ErrPlaceholder and leave the cache alone.
func (s *Session) UpdateScore(ctx context.Context, scoreID int64, value int) *Mutation {
	if scoreID == model.PlaceholderID {
		m := newMutation()
		m.settle(ErrPlaceholder)
		return m
	}
	return s.mutate(ctx, "update score",
		func(rs *model.RoomScore) {
			for i := range rs.Players {
				for j := range rs.Players[i].Scores {
					if rs.Players[i].Scores[j].ID == scoreID {
						rs.Players[i].Scores[j].Score = value
					}
				}
			}
		},
		func(ctx context.Context) error {
			_, err := s.api.UpdateScore(ctx, scoreID, s.user.ID, value)
			return err
		},
		KeyPlayers,
	)
}

// AddHole appends a placeholder hole with id model.PlaceholderID and a zero
// score for every player until the server's answer is refetched.
func (s *Session) AddHole(ctx context.Context, par int) *Mutation {
	var number int
	return s.mutate(ctx, "add hole",
		func(rs *model.RoomScore) {
			number = model.NextHoleNumber(rs.Holes)
			rs.Holes = append(rs.Holes, model.Hole{
				ID:     model.PlaceholderID,
				RoomID: s.room.ID,
				Number: number,
				Par:    par,
			})
			for i := range rs.Players {
				rs.Players[i].Scores = append(rs.Players[i].Scores, model.Score{
					ID:     model.PlaceholderID,
					UserID: rs.Players[i].ID,
					HoleID: model.PlaceholderID,
				})
			}
		},
		func(ctx context.Context) error {
			_, err := s.api.CreateHole(ctx, s.username, s.room.ID, number, par)
			return err
		},
		KeyHoles, KeyPlayers,
	)
}

// RemoveHole drops a hole, shifts the numbers of later holes down by one and
// drops the hole's scores.
func (s *Session) RemoveHole(ctx context.Context, holeID int64) *Mutation {
	return s.mutate(ctx, "remove hole",
		func(rs *model.RoomScore) {
			removed := -1
			holes := rs.Holes[:0]
			for _, h := range rs.Holes {
				if h.ID == holeID {
					removed = h.Number
					continue
				}
				holes = append(holes, h)
			}
			if removed < 0 {
				return
			}
			for i := range holes {
				if holes[i].Number > removed {
					holes[i].Number--
				}
			}
			rs.Holes = holes
			for i := range rs.Players {
				scores := rs.Players[i].Scores[:0]
				for _, sc := range rs.Players[i].Scores {
					if sc.HoleID != holeID {
						scores = append(scores, sc)
					}
				}
				rs.Players[i].Scores = scores
			}
		},
		func(ctx context.Context) error {
			return s.api.RemoveHole(ctx, s.username, s.room.ID, holeID)
		},
		KeyHoles, KeyPlayers,
	)
}

// mutate applies patch, runs call in the background, restores the snapshot
// if call fails and invalidates keys once it settles either way.
func (s *Session) mutate(ctx context.Context, op string, patch func(*model.RoomScore), call func(context.Context) error, keys ...Key) *Mutation {
	snap := s.cache.Snapshot()
	s.cache.patch(patch)
	m := newMutation()

	go func() {
		err := call(ctx)
		if err != nil {
			s.cache.Restore(snap)
			s.log.WithError(err).Warnf("%s rolled back", op)
		}
		s.cache.Invalidate(keys...)
		m.settle(err)
	}()
	return m
}
