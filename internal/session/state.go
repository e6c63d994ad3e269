package session

import (
	"time"

	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/skillgraph"
)

// SessionPhase represents the current phase of the lesson.
type SessionPhase int

const (
	PhaseActive   SessionPhase = iota // Serving an unanswered exercise
	PhaseFeedback                     // Current exercise graded, waiting to advance
	PhaseSummary                      // All slots served
)

// MissedItem is one exercise the learner got wrong.
type MissedItem struct {
	SkillID    string
	Kind       SlotKind
	Question   string
	AnswerText string
}

// SessionState tracks the runtime state of one lesson.
type SessionState struct {
	// Skill is the skill every exercise is drawn from.
	Skill skillgraph.Skill

	// Plan is the lesson plan built at start.
	Plan Plan

	// CurrentIndex is the slot being served; LessonLength once the lesson is over.
	CurrentIndex int

	// CurrentExercise is the exercise for CurrentIndex (nil after the lesson).
	CurrentExercise problemgen.Exercise

	// Score is the number of correctly answered slots.
	Score int

	// Missed lists the wrongly answered exercises in slot order.
	Missed []MissedItem

	// Phase is the current lesson phase.
	Phase SessionPhase

	// LastVerdict is the grade of the most recent submission.
	LastVerdict *problemgen.Verdict

	// StartTime is when the lesson began.
	StartTime time.Time

	planner Planner
}

// NewSessionState plans a lesson for skill and materializes its first
// exercise.
func NewSessionState(planner Planner, skill skillgraph.Skill, now time.Time) *SessionState {
	state := &SessionState{
		Skill:     skill,
		Plan:      planner.BuildPlan(),
		Phase:     PhaseActive,
		StartTime: now,
		planner:   planner,
	}
	state.CurrentExercise = planner.GenerateForSlot(state.Plan[0], skill.Config)
	return state
}

// CurrentKind returns the kind of the slot being served, or "" after the
// lesson.
func (s *SessionState) CurrentKind() SlotKind {
	if s.CurrentIndex >= LessonLength {
		return ""
	}
	return s.Plan[s.CurrentIndex]
}

// Done reports whether every slot has been served.
func (s *SessionState) Done() bool {
	return s.CurrentIndex >= LessonLength
}
