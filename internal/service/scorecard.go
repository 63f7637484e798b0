package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// ScorecardService assembles the room scorecard, creating missing score rows
// on the way.
type ScorecardService struct {
	store repository.Store
	log   logrus.FieldLogger
}

func NewScorecardService(store repository.Store, log logrus.FieldLogger) *ScorecardService {
	if store == nil {
		panic("nil store passed to NewScorecardService")
	}
	return &ScorecardService{store: store, log: log}
}

type scoreKey struct {
	userID, holeID int64
}

// RoomScore returns the room, its holes in number order and every member with
// one score per hole.  Players are ordered with username first, then by id.
// Any (user, hole) pair without a score row gets one with score 0.
func (s *ScorecardService) RoomScore(ctx context.Context, username, roomName string) (*model.RoomScore, error) {
	roomName = NormalizeRoomName(roomName)
	if roomName == "" {
		return nil, invalid("roomName is required")
	}
	username = strings.TrimSpace(username)

	room, err := s.store.GetRoomByName(ctx, roomName)
	if err != nil {
		return nil, storeErr("load room", err)
	}
	now := time.Now().UTC()
	if err := s.store.TouchRoom(ctx, room.ID, now); err != nil {
		return nil, storeErr("touch room", err)
	}
	room.LastAccessed = now

	holes, err := s.store.ListHolesByRoom(ctx, room.ID)
	if err != nil {
		return nil, storeErr("list holes", err)
	}
	users, err := s.store.ListUsersByRoom(ctx, room.ID)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	existing, err := s.store.ListScoresByRoom(ctx, room.ID)
	if err != nil {
		return nil, storeErr("list scores", err)
	}
	byPair := make(map[scoreKey]model.Score, len(existing))
	for _, sc := range existing {
		byPair[scoreKey{sc.UserID, sc.HoleID}] = sc
	}

	created := 0
	players := make([]model.Player, 0, len(users))
	for _, u := range users {
		p := model.Player{
			ID:           u.ID,
			Name:         u.Name,
			RoomID:       u.RoomID,
			LastAccessed: u.LastAccessed,
			Scores:       make([]model.Score, 0, len(holes)),
		}
		for _, h := range holes {
			sc, ok := byPair[scoreKey{u.ID, h.ID}]
			if !ok {
				got, err := s.ensureScore(ctx, u.ID, h.ID, now)
				if err != nil {
					return nil, storeErr("materialize score", err)
				}
				sc = *got
				created++
			}
			p.Scores = append(p.Scores, sc)
		}
		players = append(players, p)
	}
	sortPlayers(players, username)

	if created > 0 {
		s.log.WithFields(logrus.Fields{"room": room.Name, "created": created}).Debug("materialized missing scores")
	}
	if holes == nil {
		holes = []model.Hole{}
	}
	return &model.RoomScore{Room: *room, Holes: holes, Players: players}, nil
}

// ensureScore creates the zero score for a pair; losing the race to a
// concurrent creator re-reads the winner's row.
func (s *ScorecardService) ensureScore(ctx context.Context, userID, holeID int64, at time.Time) (*model.Score, error) {
	sc, err := s.store.CreateScore(ctx, userID, holeID, at)
	if errors.Is(err, repository.ErrDuplicate) {
		return s.store.GetScoreByPair(ctx, userID, holeID)
	}
	return sc, err
}

func sortPlayers(players []model.Player, requester string) {
	sort.SliceStable(players, func(i, j int) bool {
		pi, pj := players[i].Name == requester, players[j].Name == requester
		if pi != pj {
			return pi
		}
		return players[i].ID < players[j].ID
	})
}
