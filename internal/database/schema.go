package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement; the DSN does not enable
// multiStatements.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id            BIGINT       NOT NULL AUTO_INCREMENT,
		name          VARCHAR(191) NOT NULL,
		last_accessed DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		UNIQUE KEY uq_rooms_name (name),
		KEY idx_rooms_last_accessed (last_accessed)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT       NOT NULL AUTO_INCREMENT,
		name          VARCHAR(191) NOT NULL,
		room_id       BIGINT       NOT NULL,
		last_accessed DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_name (name),
		KEY idx_users_room (room_id),
		KEY idx_users_last_accessed (last_accessed),
		CONSTRAINT fk_users_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS holes (
		id            BIGINT      NOT NULL AUTO_INCREMENT,
		room_id       BIGINT      NOT NULL,
		number        INT         NOT NULL,
		par           INT         NOT NULL DEFAULT 0,
		last_accessed DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		UNIQUE KEY uq_holes_room_number (room_id, number),
		CONSTRAINT fk_holes_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS scores (
		id            BIGINT      NOT NULL AUTO_INCREMENT,
		user_id       BIGINT      NOT NULL,
		hole_id       BIGINT      NOT NULL,
		score         INT         NOT NULL DEFAULT 0,
		last_accessed DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		UNIQUE KEY uq_scores_user_hole (user_id, hole_id),
		KEY idx_scores_hole (hole_id),
		CONSTRAINT fk_scores_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT fk_scores_hole FOREIGN KEY (hole_id) REFERENCES holes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// CreateSchema creates the scorecard tables if they do not exist yet.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
