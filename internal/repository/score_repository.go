package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

const scoreColumns = `id, user_id, hole_id, score, last_accessed`

// ScoreRepo reads and writes the scores table.  UNIQUE(user_id, hole_id)
// guarantees at most one score per player and hole.
type ScoreRepo struct {
	db DBTX
}

func NewScoreRepo(db DBTX) *ScoreRepo {
	return &ScoreRepo{db: db}
}

func scanScore(s rowScanner) (*model.Score, error) {
	var sc model.Score
	if err := s.Scan(&sc.ID, &sc.UserID, &sc.HoleID, &sc.Score, &sc.LastAccessed); err != nil {
		return nil, translate(err)
	}
	return &sc, nil
}

// ListScoresByRoom returns every score attached to a hole of the room.
func (r *ScoreRepo) ListScoresByRoom(ctx context.Context, roomID int64) ([]model.Score, error) {
	const q = `SELECT s.id, s.user_id, s.hole_id, s.score, s.last_accessed
	           FROM scores s JOIN holes h ON h.id = s.hole_id
	           WHERE h.room_id = ? ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Score
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateScore inserts a zero score.  ErrDuplicate means the pair already has
// a row.
func (r *ScoreRepo) CreateScore(ctx context.Context, userID, holeID int64, at time.Time) (*model.Score, error) {
	const q = `INSERT INTO scores (user_id, hole_id, score, last_accessed) VALUES (?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, q, userID, holeID, at)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Score{ID: id, UserID: userID, HoleID: holeID, LastAccessed: at}, nil
}

// CreateScores bulk inserts one zero score per user for holeID and returns
// the number of rows written.
func (r *ScoreRepo) CreateScores(ctx context.Context, holeID int64, userIDs []int64, at time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO scores (user_id, hole_id, score, last_accessed) VALUES `)
	args := make([]any, 0, len(userIDs)*3)
	for i, uid := range userIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, 0, ?)")
		args = append(args, uid, holeID, at)
	}
	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}

func (r *ScoreRepo) GetScore(ctx context.Context, id int64) (*model.Score, error) {
	const q = `SELECT ` + scoreColumns + ` FROM scores WHERE id = ?`
	return scanScore(r.db.QueryRowContext(ctx, q, id))
}

func (r *ScoreRepo) GetScoreByPair(ctx context.Context, userID, holeID int64) (*model.Score, error) {
	const q = `SELECT ` + scoreColumns + ` FROM scores WHERE user_id = ? AND hole_id = ?`
	return scanScore(r.db.QueryRowContext(ctx, q, userID, holeID))
}

// SetScore writes value only if the score belongs to userID and returns the
// number of matched rows (0 or 1).
func (r *ScoreRepo) SetScore(ctx context.Context, id, userID int64, value int, at time.Time) (int64, error) {
	const q = `UPDATE scores SET score = ?, last_accessed = ? WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, value, at, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
