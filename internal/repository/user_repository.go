package repository

import (
	"context"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

const userColumns = `id, name, room_id, last_accessed`

// UserRepo reads and writes the users table.  Users are looked up by name
// only; the name is unique.
type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Name, &u.RoomID, &u.LastAccessed); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UpsertUser creates the user in roomID, or moves an existing user with the
// same name into roomID, and returns the stored row.
func (r *UserRepo) UpsertUser(ctx context.Context, name string, roomID int64, at time.Time) (*model.User, error) {
	const q = `INSERT INTO users (name, room_id, last_accessed) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE room_id = VALUES(room_id), last_accessed = VALUES(last_accessed)`
	if _, err := r.db.ExecContext(ctx, q, name, roomID, at); err != nil {
		return nil, translate(err)
	}
	return r.GetUserByName(ctx, name)
}

func (r *UserRepo) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE name = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, name))
}

// ListUsersByRoom returns the members of a room ordered by id.
func (r *UserRepo) ListUsersByRoom(ctx context.Context, roomID int64) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE room_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepo) DeleteUsersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM users WHERE last_accessed < ?`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
