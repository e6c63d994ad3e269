package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/orcamath/internal/mastery"
	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/profile"
	"github.com/abhisek/orcamath/internal/session"
	"github.com/abhisek/orcamath/internal/skillgraph"
	"github.com/abhisek/orcamath/internal/store"
)

const rootSkill = "add_within_5"

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type fixture struct {
	svc   *Service
	st    *store.Store
	clock *clock
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:app_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	c := &clock{t: time.Date(2026, 4, 10, 16, 0, 0, 0, time.UTC)}
	svc, err := New(Options{
		Profiles: st.ProfileRepo(),
		Progress: st.ProgressRepo(),
		Sessions: st.SessionRepo(),
		Rand:     problemgen.NewRand(11),
		Logger:   zap.New(core),
		Now:      c.Now,
	})
	require.NoError(t, err)
	return &fixture{svc: svc, st: st, clock: c, logs: logs}
}

func (f *fixture) learner(t *testing.T) *Learner {
	t.Helper()
	ctx := context.Background()
	p, err := f.svc.CreateProfile(ctx, "Ada")
	require.NoError(t, err)
	l, err := f.svc.SelectProfile(ctx, p.ID)
	require.NoError(t, err)
	return l
}

// rightAnswer builds the correct submission for any exercise.
type rightAnswer struct{}

func (rightAnswer) DirectChoice(ex *problemgen.DirectChoice) problemgen.Submission {
	return problemgen.ChoiceSubmission{Value: ex.Answer}
}

func (rightAnswer) Comparison(ex *problemgen.Comparison) problemgen.Submission {
	return problemgen.SideSubmission{Side: ex.Answer}
}

func (rightAnswer) MultiSelect(ex *problemgen.MultiSelect) problemgen.Submission {
	return problemgen.IndicesSubmission{Indices: ex.CorrectIndices}
}

func (rightAnswer) TileOrder(ex *problemgen.TileOrder) problemgen.Submission {
	return problemgen.TilesSubmission{Tiles: ex.CorrectOrder}
}

func (rightAnswer) SequenceOrder(ex *problemgen.SequenceOrder) problemgen.Submission {
	return problemgen.OrderSubmission{Order: ex.CorrectOrder}
}

// play answers every slot, the first correct ones right and the rest wrong.
func play(t *testing.T, state *session.SessionState, correct int) {
	t.Helper()
	for i := 0; !state.Done(); i++ {
		sub := problemgen.Submission(problemgen.ChoiceSubmission{Value: -1})
		if i < correct {
			sub = problemgen.Match[problemgen.Submission](state.CurrentExercise, rightAnswer{})
		}
		v, err := session.HandleAnswer(state, sub)
		require.NoError(t, err)
		require.Equal(t, i < correct, v.Correct, "slot %d (%s)", i, state.CurrentKind())
		_, err = session.AdvanceSlot(state)
		require.NoError(t, err)
	}
}

func TestNew_RequiresRepos(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestCreateAndListProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateProfile(ctx, "  ")
	assert.Error(t, err)

	a, err := f.svc.CreateProfile(ctx, "Ada")
	require.NoError(t, err)
	f.clock.t = f.clock.t.Add(time.Minute)
	b, err := f.svc.CreateProfile(ctx, "Grace")
	require.NoError(t, err)

	list, err := f.svc.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, 2, f.logs.FilterMessage("Profile created").Len())
}

func TestSelectProfile_Defaults(t *testing.T) {
	f := newFixture(t)
	l := f.learner(t)

	assert.Equal(t, 0, l.Stats.Streak)
	assert.Nil(t, l.Stats.LastPlayedAt)
	assert.Equal(t, mastery.LevelNew, l.Mastery.Level(rootSkill))

	skill, err := f.svc.PlayableSkill(l)
	require.NoError(t, err)
	assert.Equal(t, rootSkill, skill.ID)
}

func TestSelectProfile_Unknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SelectProfile(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLesson_PerfectScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	state, err := f.svc.StartLesson(l)
	require.NoError(t, err)
	assert.Equal(t, rootSkill, state.Skill.ID)

	f.clock.t = f.clock.t.Add(4 * time.Minute)
	play(t, state, session.LessonLength)

	out, err := f.svc.FinishLesson(ctx, l, state)
	require.NoError(t, err)
	assert.Equal(t, 10, out.Summary.Score)
	assert.Equal(t, 3, out.Summary.Stars)
	assert.Equal(t, 4*time.Minute, out.Summary.Duration)
	assert.Equal(t, mastery.LevelLearning, out.Mastery.Level)
	require.NotNil(t, out.Transition)
	assert.Equal(t, mastery.LevelNew, out.Transition.From)
	assert.Equal(t, mastery.LevelLearning, out.Transition.To)
	assert.NotZero(t, out.Session.Sequence)
	assert.Equal(t, mastery.LevelLearning, out.Session.LevelAfter)

	assert.Equal(t, 1, l.Stats.Streak)
	assert.Equal(t, session.LessonLength, l.Stats.TotalCompleted)
	assert.Empty(t, l.Stats.RecentMissed)

	// Everything survives a reload.
	reloaded, err := f.svc.SelectProfile(ctx, l.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, mastery.LevelLearning, reloaded.Mastery.Level(rootSkill))
	assert.Equal(t, 10, reloaded.Mastery.GetMastery(rootSkill).BestScore)
	assert.Equal(t, 1, reloaded.Stats.Streak)
	assert.Equal(t, 1, f.logs.FilterMessage("Lesson finished").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("Mastery level changed").Len())
}

func TestFinishLesson_InProgress(t *testing.T) {
	f := newFixture(t)
	l := f.learner(t)
	state, err := f.svc.StartLesson(l)
	require.NoError(t, err)

	_, err = f.svc.FinishLesson(context.Background(), l, state)
	assert.ErrorIs(t, err, ErrLessonInProgress)
}

func TestLesson_MissedItemsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	for lesson := 1; lesson <= 3; lesson++ {
		state, err := f.svc.StartLesson(l)
		require.NoError(t, err)
		play(t, state, 0)
		out, err := f.svc.FinishLesson(ctx, l, state)
		require.NoError(t, err)
		assert.Len(t, out.Summary.Missed, session.LessonLength)
		assert.Equal(t, 1, out.Summary.Stars)
	}

	reloaded, err := f.svc.SelectProfile(ctx, l.Profile.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Stats.RecentMissed, profile.MaxRecentMissed)
	for _, m := range reloaded.Stats.RecentMissed {
		assert.Equal(t, rootSkill, m.SkillID)
		assert.NotEmpty(t, m.Question)
		assert.NotEmpty(t, m.AnswerText)
	}
	assert.Equal(t, 3*session.LessonLength, reloaded.Stats.TotalCompleted)
}

func TestRecordScore_UnlocksNextSkill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	out, err := f.svc.RecordScore(ctx, l, 5)
	require.NoError(t, err)
	assert.Equal(t, mastery.LevelLearning, out.Mastery.Level)

	out, err = f.svc.RecordScore(ctx, l, 6)
	require.NoError(t, err)
	assert.Equal(t, mastery.LevelLearning, out.Mastery.Level)
	assert.Nil(t, out.Transition)

	out, err = f.svc.RecordScore(ctx, l, 7)
	require.NoError(t, err)
	assert.Equal(t, mastery.LevelPracticing, out.Mastery.Level)
	require.NotNil(t, out.Transition)
	assert.True(t, out.Transition.Unlocked())

	next, err := f.svc.PlayableSkill(l)
	require.NoError(t, err)
	assert.NotEqual(t, rootSkill, next.ID)
	prereq, ok := f.svc.Graph().Prerequisite(next.ID)
	require.True(t, ok)
	assert.Equal(t, rootSkill, prereq.ID)
}

func TestRecordScore_OutOfRange(t *testing.T) {
	f := newFixture(t)
	l := f.learner(t)
	for _, score := range []int{-1, session.LessonLength + 1} {
		_, err := f.svc.RecordScore(context.Background(), l, score)
		assert.Error(t, err, "score %d", score)
	}
}

func TestRecordScore_Streak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{0, 1},
		{2 * time.Hour, 1},
		{24 * time.Hour, 2},
		{24 * time.Hour, 3},
		{72 * time.Hour, 1},
	}
	for i, step := range steps {
		f.clock.t = f.clock.t.Add(step.advance)
		_, err := f.svc.RecordScore(ctx, l, 8)
		require.NoError(t, err)
		assert.Equal(t, step.want, l.Stats.Streak, "step %d", i)
	}
}

func TestStartLesson_NoPlayableSkill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	for _, sk := range f.svc.Graph().Skills() {
		require.NoError(t, f.st.ProgressRepo().SaveMastery(ctx, l.Profile.ID, mastery.SkillMastery{
			SkillID:   sk.ID,
			Level:     mastery.LevelMastered,
			UpdatedAt: f.clock.t,
		}))
	}
	l, err := f.svc.SelectProfile(ctx, l.Profile.ID)
	require.NoError(t, err)

	_, err = f.svc.StartLesson(l)
	assert.ErrorIs(t, err, ErrNoPlayableSkill)
	_, err = f.svc.RecordScore(ctx, l, 10)
	assert.ErrorIs(t, err, ErrNoPlayableSkill)
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	for _, score := range []int{4, 9} {
		f.clock.t = f.clock.t.Add(time.Hour)
		_, err := f.svc.RecordScore(ctx, l, score)
		require.NoError(t, err)
	}

	r, err := f.svc.Report(ctx, l.Profile.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", r.Profile.Name)
	assert.Equal(t, 1, r.Streak)
	assert.Equal(t, 2*session.LessonLength, r.TotalCompleted)
	assert.Equal(t, 0, r.MasteredCount)
	require.Len(t, r.RecentSessions, 1)
	assert.Equal(t, 9, r.RecentSessions[0].Score)

	require.Len(t, r.Skills, f.svc.Graph().Len())
	assert.Equal(t, rootSkill, r.Skills[0].Skill.ID)
	assert.Equal(t, skillgraph.StatusPracticing, r.Skills[0].Status)
	assert.Equal(t, 2, r.Skills[0].Mastery.Attempts)
	assert.NotEmpty(t, r.PlayableSkill)

	// Streaks lapse after a missed day.
	f.clock.t = f.clock.t.Add(72 * time.Hour)
	r, err = f.svc.Report(ctx, l.Profile.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Streak)
	assert.Len(t, r.RecentSessions, 2)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	_, err := f.svc.RecordScore(ctx, l, 10)
	require.NoError(t, err)
	require.NoError(t, f.svc.Reset(ctx, l.Profile.ID))

	r, err := f.svc.Report(ctx, l.Profile.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalCompleted)
	assert.Empty(t, r.RecentSessions)
	assert.Equal(t, mastery.LevelNew, r.Skills[0].Mastery.Level)

	assert.ErrorIs(t, f.svc.Reset(ctx, "missing"), store.ErrNotFound)
}

func TestDeleteProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.learner(t)

	require.NoError(t, f.svc.DeleteProfile(ctx, l.Profile.ID))
	_, err := f.svc.SelectProfile(ctx, l.Profile.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteProfile(ctx, l.Profile.ID), store.ErrNotFound)
}

// failingProgress wraps a real repository and fails the selected saves.
type failingProgress struct {
	store.ProgressRepo
	failMastery bool
	failStats   bool
}

func (p *failingProgress) SaveMastery(ctx context.Context, profileID string, rec mastery.SkillMastery) error {
	if p.failMastery {
		return errors.New("disk full")
	}
	return p.ProgressRepo.SaveMastery(ctx, profileID, rec)
}

func (p *failingProgress) SaveStats(ctx context.Context, st *profile.Stats) error {
	if p.failStats {
		return errors.New("disk full")
	}
	return p.ProgressRepo.SaveStats(ctx, st)
}

func TestRecordScore_FailedSaveLeavesLearnerUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	progress := &failingProgress{ProgressRepo: f.st.ProgressRepo()}
	svc, err := New(Options{
		Profiles: f.st.ProfileRepo(),
		Progress: progress,
		Sessions: f.st.SessionRepo(),
		Now:      f.clock.Now,
	})
	require.NoError(t, err)

	p, err := svc.CreateProfile(ctx, "Ada")
	require.NoError(t, err)
	l, err := svc.SelectProfile(ctx, p.ID)
	require.NoError(t, err)

	progress.failMastery = true
	_, err = svc.RecordScore(ctx, l, 9)
	require.Error(t, err)
	assert.Equal(t, mastery.LevelNew, l.Mastery.Level(rootSkill))
	assert.Equal(t, 0, l.Mastery.GetMastery(rootSkill).Attempts)
	assert.Equal(t, 0, l.Stats.TotalCompleted)

	// Mastery is saved, stats are not: memory follows what was stored.
	progress.failMastery = false
	progress.failStats = true
	_, err = svc.RecordScore(ctx, l, 9)
	require.Error(t, err)
	assert.Equal(t, mastery.LevelLearning, l.Mastery.Level(rootSkill))
	assert.Equal(t, 0, l.Stats.TotalCompleted)
	assert.Equal(t, 0, l.Stats.Streak)
	assert.Nil(t, l.Stats.LastPlayedAt)

	reloaded, err := svc.SelectProfile(ctx, p.ID)
	require.NoError(t, err)
	stored, inMemory := reloaded.Mastery.GetMastery(rootSkill), l.Mastery.GetMastery(rootSkill)
	assert.Equal(t, inMemory.Level, stored.Level)
	assert.Equal(t, inMemory.Attempts, stored.Attempts)
	assert.True(t, inMemory.UpdatedAt.Equal(stored.UpdatedAt))
	assert.Equal(t, 0, reloaded.Stats.TotalCompleted)
}
