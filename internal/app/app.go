// Package app wires the lesson engine to persistence. It is the only
// package that reads or writes learner state.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/orcamath/internal/mastery"
	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/profile"
	"github.com/abhisek/orcamath/internal/session"
	"github.com/abhisek/orcamath/internal/skillgraph"
	"github.com/abhisek/orcamath/internal/store"
)

var (
	// ErrNoPlayableSkill is returned when every skill is mastered or locked.
	ErrNoPlayableSkill = errors.New("app: no playable skill")

	// ErrLessonInProgress is returned when finishing a lesson that still has
	// unanswered slots.
	ErrLessonInProgress = errors.New("app: lesson is not finished")
)

// Options holds the dependencies of a Service.
type Options struct {
	Graph    *skillgraph.Graph // nil uses skillgraph.Default()
	Profiles store.ProfileRepo
	Progress store.ProgressRepo
	Sessions store.SessionRepo
	Rand     problemgen.Rand  // nil uses the global source
	Logger   *zap.Logger      // nil disables logging
	Now      func() time.Time // nil uses time.Now
}

// Service runs lessons for stored profiles.
type Service struct {
	graph    *skillgraph.Graph
	profiles store.ProfileRepo
	progress store.ProgressRepo
	sessions store.SessionRepo
	planner  session.Planner
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Service. All three repositories are required.
func New(opts Options) (*Service, error) {
	if opts.Profiles == nil || opts.Progress == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("app: profile, progress and session repositories are required")
	}
	s := &Service{
		graph:    opts.Graph,
		profiles: opts.Profiles,
		progress: opts.Progress,
		sessions: opts.Sessions,
		planner:  session.NewPlanner(problemgen.New(opts.Rand)),
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.graph == nil {
		s.graph = skillgraph.Default()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Graph returns the curriculum the service plays.
func (s *Service) Graph() *skillgraph.Graph {
	return s.graph
}

// CreateProfile stores a new learner profile.
func (s *Service) CreateProfile(ctx context.Context, name string) (profile.Profile, error) {
	p, err := profile.New(name, s.now())
	if err != nil {
		return profile.Profile{}, err
	}
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		return profile.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	s.logger.Info("Profile created", zap.String("profile", p.ID), zap.String("name", p.Name))
	return p, nil
}

// ListProfiles returns every stored profile, oldest first.
func (s *Service) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	return s.profiles.ListProfiles(ctx)
}

// DeleteProfile removes a profile together with its progress.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if err := s.profiles.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	s.logger.Info("Profile deleted", zap.String("profile", id))
	return nil
}

// Learner is a profile with its progress loaded.
type Learner struct {
	Profile profile.Profile
	Mastery *mastery.Service
	Stats   *profile.Stats
}

// SelectProfile loads a profile and its progress. Missing mastery records
// and stats are replaced by defaults.
func (s *Service) SelectProfile(ctx context.Context, id string) (*Learner, error) {
	p, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}
	records, err := s.progress.LoadMastery(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	stats, err := s.progress.LoadStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if stats == nil {
		stats = profile.NewStats(id)
	}
	s.logger.Debug("Profile selected",
		zap.String("profile", id),
		zap.Int("records", len(records)))

	return &Learner{
		Profile: *p,
		Mastery: mastery.NewService(s.graph, records),
		Stats:   stats,
	}, nil
}

// PlayableSkill returns the skill the learner plays next.
func (s *Service) PlayableSkill(l *Learner) (skillgraph.Skill, error) {
	id, ok := l.Mastery.PlayableSkillID()
	if !ok {
		return skillgraph.Skill{}, ErrNoPlayableSkill
	}
	return s.graph.Skill(id)
}

// StartLesson plans a lesson on the learner's playable skill.
func (s *Service) StartLesson(l *Learner) (*session.SessionState, error) {
	skill, err := s.PlayableSkill(l)
	if err != nil {
		return nil, err
	}
	state := session.NewSessionState(s.planner, skill, s.now())
	s.logger.Debug("Lesson started",
		zap.String("profile", l.Profile.ID),
		zap.String("skill", skill.ID))
	return state, nil
}

// Outcome is everything a finished lesson changed.
type Outcome struct {
	Summary    *session.SessionSummary
	Mastery    mastery.SkillMastery
	Transition *mastery.StateTransition // nil when the level did not change
	Session    store.SessionRecord
}

// FinishLesson records a completed lesson: the mastery level, the stats and
// the session log entry are updated and persisted.
func (s *Service) FinishLesson(ctx context.Context, l *Learner, state *session.SessionState) (*Outcome, error) {
	if !state.Done() {
		return nil, ErrLessonInProgress
	}
	return s.finish(ctx, l, session.BuildSummary(state, s.now()), state.StartTime)
}

// RecordScore records a lesson on the playable skill that was played
// elsewhere, given only its score.
func (s *Service) RecordScore(ctx context.Context, l *Learner, score int) (*Outcome, error) {
	if score < 0 || score > session.LessonLength {
		return nil, fmt.Errorf("score %d outside [0, %d]", score, session.LessonLength)
	}
	skill, err := s.PlayableSkill(l)
	if err != nil {
		return nil, err
	}
	now := s.now()
	summary := &session.SessionSummary{
		SkillID: skill.ID,
		Score:   score,
		Total:   session.LessonLength,
		Stars:   session.Stars(score, session.LessonLength),
	}
	return s.finish(ctx, l, summary, now)
}

// finish persists the lesson. The learner's in-memory mastery and stats
// change only after the matching save succeeds.
func (s *Service) finish(ctx context.Context, l *Learner, summary *session.SessionSummary, startedAt time.Time) (*Outcome, error) {
	now := s.now()
	id := l.Profile.ID

	rec, transition := l.Mastery.NextRecord(summary.SkillID, summary.Score, now)
	if err := s.progress.SaveMastery(ctx, id, rec); err != nil {
		return nil, fmt.Errorf("save mastery: %w", err)
	}
	l.Mastery.Commit(rec)

	missed := make([]profile.MissedItem, 0, len(summary.Missed))
	for _, m := range summary.Missed {
		missed = append(missed, profile.MissedItem{
			SkillID:    m.SkillID,
			Kind:       string(m.Kind),
			Question:   m.Question,
			AnswerText: m.AnswerText,
			MissedAt:   now,
		})
	}
	stats := *l.Stats
	stats.RecentMissed = slices.Clone(l.Stats.RecentMissed)
	stats.ApplyLesson(summary.Total, missed, now)
	if err := s.progress.SaveStats(ctx, &stats); err != nil {
		return nil, fmt.Errorf("save stats: %w", err)
	}
	*l.Stats = stats

	logged, err := s.sessions.AppendSession(ctx, store.SessionRecord{
		ProfileID:  id,
		SkillID:    summary.SkillID,
		Score:      summary.Score,
		Total:      summary.Total,
		Stars:      summary.Stars,
		LevelAfter: rec.Level,
		StartedAt:  startedAt,
		FinishedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("append session: %w", err)
	}

	s.logger.Info("Lesson finished",
		zap.String("profile", id),
		zap.String("skill", summary.SkillID),
		zap.Int("score", summary.Score),
		zap.Int("stars", summary.Stars),
		zap.Int("streak", l.Stats.Streak))
	if transition != nil {
		s.logger.Info("Mastery level changed",
			zap.String("skill", transition.SkillID),
			zap.Stringer("from", transition.From),
			zap.Stringer("to", transition.To))
	}

	return &Outcome{
		Summary:    summary,
		Mastery:    rec,
		Transition: transition,
		Session:    logged,
	}, nil
}

// SkillReport is one skill's line in a Report.
type SkillReport struct {
	Skill   skillgraph.Skill
	Status  skillgraph.Status
	Mastery mastery.SkillMastery
}

// Report summarizes a learner's progress.
type Report struct {
	Profile        profile.Profile
	Streak         int
	TotalCompleted int
	LastPlayedAt   *time.Time
	MasteredCount  int
	PlayableSkill  string // empty when nothing is playable
	Skills         []SkillReport
	RecentMissed   []profile.MissedItem
	RecentSessions []store.SessionRecord
}

// Report builds the progress report of a profile with up to sessionLimit
// recent sessions (0 for all).
func (s *Service) Report(ctx context.Context, id string, sessionLimit int) (*Report, error) {
	l, err := s.SelectProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.RecentSessions(ctx, id, sessionLimit)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	r := &Report{
		Profile:        l.Profile,
		Streak:         l.Stats.ActiveStreak(s.now()),
		TotalCompleted: l.Stats.TotalCompleted,
		LastPlayedAt:   l.Stats.LastPlayedAt,
		MasteredCount:  l.Mastery.MasteredCount(),
		RecentMissed:   l.Stats.RecentMissed,
		RecentSessions: sessions,
	}
	if playable, ok := l.Mastery.PlayableSkillID(); ok {
		r.PlayableSkill = playable
	}
	for _, sk := range s.graph.TopologicalOrder() {
		r.Skills = append(r.Skills, SkillReport{
			Skill:   sk,
			Status:  l.Mastery.Status(sk.ID),
			Mastery: l.Mastery.GetMastery(sk.ID),
		})
	}
	return r, nil
}

// Reset deletes a profile's mastery records, stats and session log. The
// profile itself is kept.
func (s *Service) Reset(ctx context.Context, id string) error {
	if _, err := s.profiles.GetProfile(ctx, id); err != nil {
		return fmt.Errorf("load profile %s: %w", id, err)
	}
	if err := s.progress.ResetProgress(ctx, id); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	if err := s.sessions.DeleteSessions(ctx, id); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	s.logger.Info("Progress reset", zap.String("profile", id))
	return nil
}
