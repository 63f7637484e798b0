package repository

import (
	"context"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

const roomColumns = `id, name, last_accessed`

// RoomRepo reads and writes the rooms table.
type RoomRepo struct {
	db DBTX
}

// NewRoomRepo constructs a RoomRepo on a pool or transaction.
func NewRoomRepo(db DBTX) *RoomRepo {
	return &RoomRepo{db: db}
}

func scanRoom(s rowScanner) (*model.Room, error) {
	var r model.Room
	if err := s.Scan(&r.ID, &r.Name, &r.LastAccessed); err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// UpsertRoom creates the room if absent, otherwise bumps last_accessed, and
// returns the stored row.  The single statement keeps concurrent joiners of a
// new room from racing on the unique name.
func (r *RoomRepo) UpsertRoom(ctx context.Context, name string, at time.Time) (*model.Room, error) {
	const q = `INSERT INTO rooms (name, last_accessed) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE last_accessed = VALUES(last_accessed)`
	if _, err := r.db.ExecContext(ctx, q, name, at); err != nil {
		return nil, translate(err)
	}
	return r.GetRoomByName(ctx, name)
}

// CreateRoom inserts a new room.  ErrDuplicate means the name is taken.
func (r *RoomRepo) CreateRoom(ctx context.Context, name string, at time.Time) (*model.Room, error) {
	const q = `INSERT INTO rooms (name, last_accessed) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, at)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Room{ID: id, Name: name, LastAccessed: at}, nil
}

// RoomNameTaken reports whether a room with name exists.
func (r *RoomRepo) RoomNameTaken(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM rooms WHERE name = ?)`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *RoomRepo) GetRoomByName(ctx context.Context, name string) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE name = ?`
	return scanRoom(r.db.QueryRowContext(ctx, q, name))
}

func (r *RoomRepo) GetRoomByID(ctx context.Context, id int64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// LockRoom takes a row lock on the room until the surrounding transaction
// ends.  It is meaningless outside a transaction.
func (r *RoomRepo) LockRoom(ctx context.Context, id int64) error {
	const q = `SELECT id FROM rooms WHERE id = ? FOR UPDATE`
	var got int64
	return translate(r.db.QueryRowContext(ctx, q, id).Scan(&got))
}

// TouchRoom sets last_accessed.  ErrNotFound when the room is gone.
func (r *RoomRepo) TouchRoom(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE rooms SET last_accessed = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRoomsBefore removes rooms not accessed since cutoff.  Holes, users
// and scores go with them through ON DELETE CASCADE.
func (r *RoomRepo) DeleteRoomsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM rooms WHERE last_accessed < ?`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
