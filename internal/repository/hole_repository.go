package repository

import (
	"context"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

const holeColumns = `id, room_id, number, par, last_accessed`

// HoleRepo reads and writes the holes table.  UNIQUE(room_id, number) backs
// the contiguous numbering kept by the hole service.
type HoleRepo struct {
	db DBTX
}

func NewHoleRepo(db DBTX) *HoleRepo {
	return &HoleRepo{db: db}
}

func scanHole(s rowScanner) (*model.Hole, error) {
	var h model.Hole
	if err := s.Scan(&h.ID, &h.RoomID, &h.Number, &h.Par, &h.LastAccessed); err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

// ListHolesByRoom returns a room's holes ordered by number.
func (r *HoleRepo) ListHolesByRoom(ctx context.Context, roomID int64) ([]model.Hole, error) {
	const q = `SELECT ` + holeColumns + ` FROM holes WHERE room_id = ? ORDER BY number ASC`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hole
	for rows.Next() {
		h, err := scanHole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HoleRepo) CreateHole(ctx context.Context, roomID int64, number, par int, at time.Time) (*model.Hole, error) {
	const q = `INSERT INTO holes (room_id, number, par, last_accessed) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, roomID, number, par, at)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Hole{ID: id, RoomID: roomID, Number: number, Par: par, LastAccessed: at}, nil
}

func (r *HoleRepo) GetHole(ctx context.Context, id int64) (*model.Hole, error) {
	const q = `SELECT ` + holeColumns + ` FROM holes WHERE id = ?`
	return scanHole(r.db.QueryRowContext(ctx, q, id))
}

// DeleteHole removes the hole and, by cascade, its scores.
func (r *HoleRepo) DeleteHole(ctx context.Context, id int64) error {
	const q = `DELETE FROM holes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountHolesAfter counts the room's holes numbered above number.
func (r *HoleRepo) CountHolesAfter(ctx context.Context, roomID int64, number int) (int64, error) {
	const q = `SELECT COUNT(*) FROM holes WHERE room_id = ? AND number > ?`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, roomID, number).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ShiftHolesDown decrements every hole numbered above number and returns how
// many rows moved.  Rows are updated in ascending order so each one drops
// into the slot freed by its predecessor and the unique key never collides.
func (r *HoleRepo) ShiftHolesDown(ctx context.Context, roomID int64, number int, at time.Time) (int64, error) {
	const q = `UPDATE holes SET number = number - 1, last_accessed = ?
	           WHERE room_id = ? AND number > ? ORDER BY number ASC`
	res, err := r.db.ExecContext(ctx, q, at, roomID, number)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}
