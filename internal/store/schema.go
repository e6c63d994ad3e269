package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create every table the store needs. They are idempotent
// and run on every Open.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS skill_mastery (
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		skill_id   TEXT NOT NULL,
		level      INTEGER NOT NULL DEFAULT 0,
		best_score INTEGER NOT NULL DEFAULT 0,
		attempts   INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (profile_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profile_stats (
		profile_id      TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
		streak          INTEGER NOT NULL DEFAULT 0,
		total_completed INTEGER NOT NULL DEFAULT 0,
		last_played_at  TEXT,
		recent_missed   TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_sessions (
		sequence    INTEGER PRIMARY KEY,
		profile_id  TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		skill_id    TEXT NOT NULL,
		score       INTEGER NOT NULL,
		total       INTEGER NOT NULL,
		stars       INTEGER NOT NULL,
		level_after INTEGER NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS lesson_sessions_profile
		ON lesson_sessions (profile_id, sequence)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
