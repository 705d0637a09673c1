package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement; the driver runs one statement
// per Exec unless multiStatements is enabled in the DSN. Usernames use a
// binary collation so lookups and the unique key are exact matches.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(64)  COLLATE utf8mb4_bin NOT NULL,
		email         VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		bio           JSON NULL,
		tags          JSON NOT NULL,
		likes         JSON NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS events (
		id              BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title           VARCHAR(255)  NOT NULL,
		image_url       VARCHAR(1024) NOT NULL DEFAULT '',
		tags            JSON NOT NULL,
		data            JSON NOT NULL,
		description     TEXT NOT NULL,
		category        VARCHAR(16) NOT NULL,
		author_username VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
		embedding       JSON NULL,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_events_author (author_username),
		KEY idx_events_category (category)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables the service needs when they are missing.
// Existing tables are left untouched.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
