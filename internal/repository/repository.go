package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repo method can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries is the full set of store operations the services rely on.
type Queries interface {
	UpsertRoom(ctx context.Context, name string, at time.Time) (*model.Room, error)
	CreateRoom(ctx context.Context, name string, at time.Time) (*model.Room, error)
	RoomNameTaken(ctx context.Context, name string) (bool, error)
	GetRoomByName(ctx context.Context, name string) (*model.Room, error)
	GetRoomByID(ctx context.Context, id int64) (*model.Room, error)
	LockRoom(ctx context.Context, id int64) error
	TouchRoom(ctx context.Context, id int64, at time.Time) error
	DeleteRoomsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	UpsertUser(ctx context.Context, name string, roomID int64, at time.Time) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	ListUsersByRoom(ctx context.Context, roomID int64) ([]model.User, error)
	DeleteUsersBefore(ctx context.Context, cutoff time.Time) (int64, error)

	ListHolesByRoom(ctx context.Context, roomID int64) ([]model.Hole, error)
	CreateHole(ctx context.Context, roomID int64, number, par int, at time.Time) (*model.Hole, error)
	GetHole(ctx context.Context, id int64) (*model.Hole, error)
	DeleteHole(ctx context.Context, id int64) error
	CountHolesAfter(ctx context.Context, roomID int64, number int) (int64, error)
	ShiftHolesDown(ctx context.Context, roomID int64, number int, at time.Time) (int64, error)

	ListScoresByRoom(ctx context.Context, roomID int64) ([]model.Score, error)
	CreateScore(ctx context.Context, userID, holeID int64, at time.Time) (*model.Score, error)
	CreateScores(ctx context.Context, holeID int64, userIDs []int64, at time.Time) (int64, error)
	GetScore(ctx context.Context, id int64) (*model.Score, error)
	GetScoreByPair(ctx context.Context, userID, holeID int64) (*model.Score, error)
	SetScore(ctx context.Context, id, userID int64, value int, at time.Time) (int64, error)
}

// Store is a Queries that can also run a function inside a transaction.  The
// Queries handed to fn are bound to the transaction; returning an error from
// fn rolls everything back.
type Store interface {
	Queries
	WithTx(ctx context.Context, fn func(q Queries) error) error
}

type rowScanner interface {
	Scan(dest ...any) error
}
