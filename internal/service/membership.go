package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// maxNameAttempts bounds how many generated names CreateRoom tries.
const maxNameAttempts = 10

// MembershipService manages who is in which room.
type MembershipService struct {
	store repository.Store
	names NameGenerator
	log   logrus.FieldLogger
}

// NewMembershipService wires the service.  A nil generator defaults to
// WordNames.
func NewMembershipService(store repository.Store, names NameGenerator, log logrus.FieldLogger) *MembershipService {
	if store == nil {
		panic("nil store passed to NewMembershipService")
	}
	if names == nil {
		names = WordNames{}
	}
	return &MembershipService{store: store, names: names, log: log}
}

// NormalizeRoomName trims and lower-cases a room name.
func NormalizeRoomName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// JoinRoom puts username into roomName, creating either one when needed.  A
// user already in another room is moved.  Repeating the call returns the
// same room and user ids.
func (s *MembershipService) JoinRoom(ctx context.Context, username, roomName string) (*model.Membership, error) {
	username = strings.TrimSpace(username)
	roomName = NormalizeRoomName(roomName)
	if username == "" {
		return nil, invalid("username is required")
	}
	if roomName == "" {
		return nil, invalid("roomName is required")
	}

	now := time.Now().UTC()
	var out model.Membership
	err := s.store.WithTx(ctx, func(q repository.Queries) error {
		room, err := q.UpsertRoom(ctx, roomName, now)
		if err != nil {
			return fmt.Errorf("upsert room: %w", err)
		}
		user, err := q.UpsertUser(ctx, username, room.ID, now)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
		out = model.Membership{Room: *room, User: *user}
		return nil
	})
	if err != nil {
		return nil, storeErr("join room", err)
	}

	s.log.WithFields(logrus.Fields{
		"room":    out.Room.Name,
		"room_id": out.Room.ID,
		"user":    out.User.Name,
		"user_id": out.User.ID,
	}).Info("user joined room")
	return &out, nil
}

// CreateRoom reserves a fresh generated name and returns the new room.
func (s *MembershipService) CreateRoom(ctx context.Context) (*model.Room, error) {
	now := time.Now().UTC()
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		name := NormalizeRoomName(s.names.Generate())
		taken, err := s.store.RoomNameTaken(ctx, name)
		if err != nil {
			return nil, storeErr("create room", err)
		}
		if taken {
			continue
		}
		room, err := s.store.CreateRoom(ctx, name, now)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, storeErr("create room", err)
		}
		s.log.WithFields(logrus.Fields{"room": room.Name, "room_id": room.ID, "attempt": attempt}).Info("room created")
		return room, nil
	}
	return nil, fmt.Errorf("create room: %w: no free name after %d attempts", ErrStore, maxNameAttempts)
}

// RequireMember returns the user and room when username is a member of the
// room with roomID.  A missing room, missing user or foreign member yields
// ErrForbidden.
func (s *MembershipService) RequireMember(ctx context.Context, username string, roomID int64) (*model.User, *model.Room, error) {
	if roomID <= 0 {
		return nil, nil, invalid("roomId must be positive")
	}
	room, err := s.store.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, nil, s.membershipErr(err)
	}
	return s.checkMember(ctx, username, room)
}

// RequireMemberByName is RequireMember with the room addressed by name.
func (s *MembershipService) RequireMemberByName(ctx context.Context, username, roomName string) (*model.User, *model.Room, error) {
	roomName = NormalizeRoomName(roomName)
	if roomName == "" {
		return nil, nil, invalid("roomName is required")
	}
	room, err := s.store.GetRoomByName(ctx, roomName)
	if err != nil {
		return nil, nil, s.membershipErr(err)
	}
	return s.checkMember(ctx, username, room)
}

func (s *MembershipService) checkMember(ctx context.Context, username string, room *model.Room) (*model.User, *model.Room, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, invalid("username is required")
	}
	user, err := s.store.GetUserByName(ctx, username)
	if err != nil {
		return nil, nil, s.membershipErr(err)
	}
	if user.RoomID != room.ID {
		return nil, nil, fmt.Errorf("%w: %s is not in room %s", ErrForbidden, username, room.Name)
	}
	return user, room, nil
}

// membershipErr turns a missing room or user into ErrForbidden.
func (s *MembershipService) membershipErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: not a member of this room", ErrForbidden)
	}
	return storeErr("check membership", err)
}
