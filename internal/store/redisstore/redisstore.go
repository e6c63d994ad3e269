// Package redisstore implements the store repositories on Redis, for
// deployments where several frontends share one learner database.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/orcamath/internal/mastery"
	"github.com/abhisek/orcamath/internal/profile"
	"github.com/abhisek/orcamath/internal/store"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "orcamath"

// Store provides the store repositories backed by one Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps client. An empty prefix uses DefaultPrefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open connects to the Redis server at addr and pings it.
func Open(ctx context.Context, addr, password string, db int, prefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return New(client, prefix), nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ProfileRepo returns a store.ProfileRepo backed by Redis.
func (s *Store) ProfileRepo() store.ProfileRepo { return &profileRepo{s} }

// ProgressRepo returns a store.ProgressRepo backed by Redis.
func (s *Store) ProgressRepo() store.ProgressRepo { return &progressRepo{s} }

// SessionRepo returns a store.SessionRepo backed by Redis.
func (s *Store) SessionRepo() store.SessionRepo { return &sessionRepo{s} }

// Key helpers

func (s *Store) profilesKey() string {
	return fmt.Sprintf("%s:profiles", s.prefix)
}

func (s *Store) masteryKey(profileID string) string {
	return fmt.Sprintf("%s:p:%s:mastery", s.prefix, profileID)
}

func (s *Store) statsKey(profileID string) string {
	return fmt.Sprintf("%s:p:%s:stats", s.prefix, profileID)
}

func (s *Store) sessionsKey(profileID string) string {
	return fmt.Sprintf("%s:p:%s:sessions", s.prefix, profileID)
}

func (s *Store) sequenceKey() string {
	return fmt.Sprintf("%s:sequence", s.prefix)
}

// Wire records. Timestamps are RFC 3339 so the values stay readable in
// redis-cli.

type profileRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type masteryRecord struct {
	SkillID   string    `json:"skill_id"`
	Level     int       `json:"level"`
	BestScore int       `json:"best_score"`
	Attempts  int       `json:"attempts"`
	UpdatedAt time.Time `json:"updated_at"`
}

type statsRecord struct {
	Streak         int                  `json:"streak"`
	TotalCompleted int                  `json:"total_completed"`
	LastPlayedAt   *time.Time           `json:"last_played_at,omitempty"`
	RecentMissed   []profile.MissedItem `json:"recent_missed"`
}

type sessionRecord struct {
	Sequence   int64     `json:"sequence"`
	SkillID    string    `json:"skill_id"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Stars      int       `json:"stars"`
	LevelAfter int       `json:"level_after"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// profileRepo implements store.ProfileRepo. Profiles live in one hash keyed
// by profile ID.
type profileRepo struct{ s *Store }

func (r *profileRepo) CreateProfile(ctx context.Context, p profile.Profile) error {
	data, err := json.Marshal(profileRecord{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt.UTC()})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	ok, err := r.s.client.HSetNX(ctx, r.s.profilesKey(), p.ID, data).Result()
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if !ok {
		return fmt.Errorf("create profile: id %s already exists", p.ID)
	}
	return nil
}

func (r *profileRepo) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	data, err := r.s.client.HGet(ctx, r.s.profilesKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p, err := decodeProfile(data)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	all, err := r.s.client.HGetAll(ctx, r.s.profilesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]profile.Profile, 0, len(all))
	for _, data := range all {
		p, err := decodeProfile(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sortProfiles(out)
	return out, nil
}

func (r *profileRepo) DeleteProfile(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.HDel(ctx, r.s.profilesKey(), id)
		pipe.Del(ctx, r.s.masteryKey(id), r.s.statsKey(id), r.s.sessionsKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if del.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func decodeProfile(data string) (profile.Profile, error) {
	var rec profileRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return profile.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return profile.Profile{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt}, nil
}

// progressRepo implements store.ProgressRepo. Mastery records are one hash
// per profile keyed by skill ID; stats are a single JSON string.
type progressRepo struct{ s *Store }

func (r *progressRepo) LoadMastery(ctx context.Context, profileID string) ([]mastery.SkillMastery, error) {
	all, err := r.s.client.HGetAll(ctx, r.s.masteryKey(profileID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	out := make([]mastery.SkillMastery, 0, len(all))
	for _, data := range all {
		var rec masteryRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal mastery: %w", err)
		}
		out = append(out, fromMasteryRecord(rec))
	}
	sortMastery(out)
	return out, nil
}

func (r *progressRepo) SaveMastery(ctx context.Context, profileID string, sm mastery.SkillMastery) error {
	data, err := json.Marshal(toMasteryRecord(sm))
	if err != nil {
		return fmt.Errorf("marshal mastery: %w", err)
	}
	if err := r.s.client.HSet(ctx, r.s.masteryKey(profileID), sm.SkillID, data).Err(); err != nil {
		return fmt.Errorf("save mastery: %w", err)
	}
	return nil
}

func (r *progressRepo) LoadStats(ctx context.Context, profileID string) (*profile.Stats, error) {
	data, err := r.s.client.Get(ctx, r.s.statsKey(profileID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	var rec statsRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &profile.Stats{
		ProfileID:      profileID,
		Streak:         rec.Streak,
		TotalCompleted: rec.TotalCompleted,
		LastPlayedAt:   rec.LastPlayedAt,
		RecentMissed:   rec.RecentMissed,
	}, nil
}

func (r *progressRepo) SaveStats(ctx context.Context, st *profile.Stats) error {
	rec := statsRecord{
		Streak:         st.Streak,
		TotalCompleted: st.TotalCompleted,
		RecentMissed:   st.RecentMissed,
	}
	if st.LastPlayedAt != nil {
		t := st.LastPlayedAt.UTC()
		rec.LastPlayedAt = &t
	}
	if rec.RecentMissed == nil {
		rec.RecentMissed = []profile.MissedItem{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := r.s.client.Set(ctx, r.s.statsKey(st.ProfileID), data, 0).Err(); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (r *progressRepo) ResetProgress(ctx context.Context, profileID string) error {
	if err := r.s.client.Del(ctx, r.s.masteryKey(profileID), r.s.statsKey(profileID)).Err(); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

func toMasteryRecord(sm mastery.SkillMastery) masteryRecord {
	return masteryRecord{
		SkillID:   sm.SkillID,
		Level:     int(sm.Level),
		BestScore: sm.BestScore,
		Attempts:  sm.Attempts,
		UpdatedAt: sm.UpdatedAt.UTC(),
	}
}

func fromMasteryRecord(rec masteryRecord) mastery.SkillMastery {
	return mastery.SkillMastery{
		SkillID:   rec.SkillID,
		Level:     mastery.Level(rec.Level),
		BestScore: rec.BestScore,
		Attempts:  rec.Attempts,
		UpdatedAt: rec.UpdatedAt,
	}
}

// sessionRepo implements store.SessionRepo. Each profile's sessions are a
// sorted set scored by the global sequence.
type sessionRepo struct{ s *Store }

func (r *sessionRepo) AppendSession(ctx context.Context, rec store.SessionRecord) (store.SessionRecord, error) {
	seq, err := r.s.client.Incr(ctx, r.s.sequenceKey()).Result()
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("next sequence: %w", err)
	}
	rec.Sequence = seq

	data, err := json.Marshal(toSessionRecord(rec))
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("marshal session: %w", err)
	}
	err = r.s.client.ZAdd(ctx, r.s.sessionsKey(rec.ProfileID), redis.Z{
		Score:  float64(seq),
		Member: data,
	}).Err()
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("append session: %w", err)
	}
	return rec, nil
}

func (r *sessionRepo) RecentSessions(ctx context.Context, profileID string, limit int) ([]store.SessionRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	members, err := r.s.client.ZRevRange(ctx, r.s.sessionsKey(profileID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	out := make([]store.SessionRecord, 0, len(members))
	for _, m := range members {
		var rec sessionRecord
		if err := json.Unmarshal([]byte(m), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		out = append(out, fromSessionRecord(profileID, rec))
	}
	return out, nil
}

func (r *sessionRepo) DeleteSessions(ctx context.Context, profileID string) error {
	if err := r.s.client.Del(ctx, r.s.sessionsKey(profileID)).Err(); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

func toSessionRecord(rec store.SessionRecord) sessionRecord {
	return sessionRecord{
		Sequence:   rec.Sequence,
		SkillID:    rec.SkillID,
		Score:      rec.Score,
		Total:      rec.Total,
		Stars:      rec.Stars,
		LevelAfter: int(rec.LevelAfter),
		StartedAt:  rec.StartedAt.UTC(),
		FinishedAt: rec.FinishedAt.UTC(),
	}
}

func fromSessionRecord(profileID string, rec sessionRecord) store.SessionRecord {
	return store.SessionRecord{
		Sequence:   rec.Sequence,
		ProfileID:  profileID,
		SkillID:    rec.SkillID,
		Score:      rec.Score,
		Total:      rec.Total,
		Stars:      rec.Stars,
		LevelAfter: mastery.Level(rec.LevelAfter),
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
	}
}
