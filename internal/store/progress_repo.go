package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/orcamath/internal/mastery"
	"github.com/abhisek/orcamath/internal/profile"
)

// progressRepo implements ProgressRepo with raw SQL.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) LoadMastery(ctx context.Context, profileID string) ([]mastery.SkillMastery, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill_id, level, best_score, attempts, updated_at
		 FROM skill_mastery WHERE profile_id = ? ORDER BY skill_id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	defer rows.Close()

	out := []mastery.SkillMastery{}
	for rows.Next() {
		var (
			sm      mastery.SkillMastery
			level   int
			updated string
		)
		if err := rows.Scan(&sm.SkillID, &level, &sm.BestScore, &sm.Attempts, &updated); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		sm.Level = mastery.Level(level)
		if sm.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	return out, nil
}

func (r *progressRepo) SaveMastery(ctx context.Context, profileID string, rec mastery.SkillMastery) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO skill_mastery (profile_id, skill_id, level, best_score, attempts, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (profile_id, skill_id) DO UPDATE SET
			level = excluded.level,
			best_score = excluded.best_score,
			attempts = excluded.attempts,
			updated_at = excluded.updated_at`,
		profileID, rec.SkillID, int(rec.Level), rec.BestScore, rec.Attempts, formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save mastery: %w", err)
	}
	return nil
}

func (r *progressRepo) LoadStats(ctx context.Context, profileID string) (*profile.Stats, error) {
	var (
		st         = profile.Stats{ProfileID: profileID}
		lastPlayed sql.NullString
		missedJSON string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT streak, total_completed, last_played_at, recent_missed
		 FROM profile_stats WHERE profile_id = ?`, profileID,
	).Scan(&st.Streak, &st.TotalCompleted, &lastPlayed, &missedJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	if lastPlayed.Valid {
		t, err := parseTime(lastPlayed.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_played_at: %w", err)
		}
		st.LastPlayedAt = &t
	}
	if err := json.Unmarshal([]byte(missedJSON), &st.RecentMissed); err != nil {
		return nil, fmt.Errorf("unmarshal recent_missed: %w", err)
	}
	return &st, nil
}

func (r *progressRepo) SaveStats(ctx context.Context, stats *profile.Stats) error {
	missed := stats.RecentMissed
	if missed == nil {
		missed = []profile.MissedItem{}
	}
	missedJSON, err := json.Marshal(missed)
	if err != nil {
		return fmt.Errorf("marshal recent_missed: %w", err)
	}

	var lastPlayed sql.NullString
	if stats.LastPlayedAt != nil {
		lastPlayed = sql.NullString{String: formatTime(*stats.LastPlayedAt), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profile_stats (profile_id, streak, total_completed, last_played_at, recent_missed)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (profile_id) DO UPDATE SET
			streak = excluded.streak,
			total_completed = excluded.total_completed,
			last_played_at = excluded.last_played_at,
			recent_missed = excluded.recent_missed`,
		stats.ProfileID, stats.Streak, stats.TotalCompleted, lastPlayed, string(missedJSON),
	)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (r *progressRepo) ResetProgress(ctx context.Context, profileID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM skill_mastery WHERE profile_id = ?`,
		`DELETE FROM profile_stats WHERE profile_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, profileID); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
