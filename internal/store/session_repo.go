package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/orcamath/internal/mastery"
)

// sessionRepo implements SessionRepo with raw SQL.
type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *sessionRepo) AppendSession(ctx context.Context, rec SessionRecord) (SessionRecord, error) {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return SessionRecord{}, err
	}
	rec.Sequence = seq

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO lesson_sessions
			(sequence, profile_id, skill_id, score, total, stars, level_after, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Sequence, rec.ProfileID, rec.SkillID, rec.Score, rec.Total, rec.Stars,
		int(rec.LevelAfter), formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
	)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("append session: %w", err)
	}
	return rec, nil
}

func (r *sessionRepo) RecentSessions(ctx context.Context, profileID string, limit int) ([]SessionRecord, error) {
	query := `SELECT sequence, profile_id, skill_id, score, total, stars, level_after, started_at, finished_at
		FROM lesson_sessions WHERE profile_id = ? ORDER BY sequence DESC`
	args := []any{profileID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []SessionRecord{}
	for rows.Next() {
		var (
			rec               SessionRecord
			level             int
			started, finished string
		)
		if err := rows.Scan(&rec.Sequence, &rec.ProfileID, &rec.SkillID, &rec.Score, &rec.Total,
			&rec.Stars, &level, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.LevelAfter = mastery.Level(level)
		if rec.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if rec.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) DeleteSessions(ctx context.Context, profileID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM lesson_sessions WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
