package handler

import (
	"context"

	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/queue"
	"github.com/iliyamo/golf-scorecard/internal/service"
)

// Members is the membership service as seen by the handlers.
type Members interface {
	JoinRoom(ctx context.Context, username, roomName string) (*model.Membership, error)
	CreateRoom(ctx context.Context) (*model.Room, error)
	RequireMember(ctx context.Context, username string, roomID int64) (*model.User, *model.Room, error)
	RequireMemberByName(ctx context.Context, username, roomName string) (*model.User, *model.Room, error)
}

type Scorecards interface {
	RoomScore(ctx context.Context, username, roomName string) (*model.RoomScore, error)
}

type Holes interface {
	CreateHole(ctx context.Context, roomID int64, par int) (*model.Hole, error)
	RemoveHole(ctx context.Context, holeID, roomID int64) error
}

type Scores interface {
	UpdateScore(ctx context.Context, scoreID, userID int64, value int) (*service.ScoreUpdate, error)
}

// EventPublisher fans room changes out to websocket clients, either through
// the broker or straight into the local hub.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.RoomEvent) error
}
