package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/orcamath/internal/mastery"
	"github.com/abhisek/orcamath/internal/profile"
)

// ErrNotFound is returned when an explicitly requested profile does not
// exist. Missing progress is never an error: loads return empty values.
var ErrNotFound = errors.New("store: not found")

// ProfileRepo manages learner profiles.
type ProfileRepo interface {
	// CreateProfile stores a new profile.
	CreateProfile(ctx context.Context, p profile.Profile) error

	// GetProfile returns the profile with id, or ErrNotFound.
	GetProfile(ctx context.Context, id string) (*profile.Profile, error)

	// ListProfiles returns every profile, oldest first.
	ListProfiles(ctx context.Context) ([]profile.Profile, error)

	// DeleteProfile removes a profile and all of its progress, or returns
	// ErrNotFound.
	DeleteProfile(ctx context.Context, id string) error
}

// ProgressRepo loads and saves the per-profile mastery records and stats.
type ProgressRepo interface {
	// LoadMastery returns every mastery record of the profile. A profile with
	// no progress yields an empty slice.
	LoadMastery(ctx context.Context, profileID string) ([]mastery.SkillMastery, error)

	// SaveMastery upserts one mastery record.
	SaveMastery(ctx context.Context, profileID string, rec mastery.SkillMastery) error

	// LoadStats returns the profile's stats, or nil if none are stored.
	LoadStats(ctx context.Context, profileID string) (*profile.Stats, error)

	// SaveStats upserts the profile's stats.
	SaveStats(ctx context.Context, stats *profile.Stats) error

	// ResetProgress deletes the profile's mastery records and stats.
	ResetProgress(ctx context.Context, profileID string) error
}

// SessionRecord is one finished lesson in the session log.
type SessionRecord struct {
	Sequence   int64
	ProfileID  string
	SkillID    string
	Score      int
	Total      int
	Stars      int
	LevelAfter mastery.Level
	StartedAt  time.Time
	FinishedAt time.Time
}

// SessionRepo is the append-only log of finished lessons.
type SessionRepo interface {
	// AppendSession stores rec and returns it with its sequence assigned.
	AppendSession(ctx context.Context, rec SessionRecord) (SessionRecord, error)

	// RecentSessions returns up to limit sessions, newest first.
	// A limit of 0 returns all of them.
	RecentSessions(ctx context.Context, profileID string, limit int) ([]SessionRecord, error)

	// DeleteSessions removes every session of the profile.
	DeleteSessions(ctx context.Context, profileID string) error
}

// formatTime is the on-disk representation of timestamps.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
