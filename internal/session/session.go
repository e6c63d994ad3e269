package session

import (
	"errors"

	"github.com/abhisek/orcamath/internal/problemgen"
)

var (
	// ErrAlreadyAnswered is returned when the current slot was already graded.
	ErrAlreadyAnswered = errors.New("session: exercise already answered")

	// ErrNotAnswered is returned when advancing past an ungraded slot.
	ErrNotAnswered = errors.New("session: exercise not answered yet")

	// ErrLessonOver is returned when the lesson has no slots left.
	ErrLessonOver = errors.New("session: lesson is over")
)

// HandleAnswer grades sub against the current exercise. Each slot is graded
// at most once, so Score never counts a slot twice. A submission of the
// wrong kind is graded incorrect.
func HandleAnswer(state *SessionState, sub problemgen.Submission) (problemgen.Verdict, error) {
	if state.Done() {
		return problemgen.Verdict{}, ErrLessonOver
	}
	if state.Phase != PhaseActive {
		return problemgen.Verdict{}, ErrAlreadyAnswered
	}

	verdict := problemgen.Evaluate(state.CurrentExercise, sub)
	if verdict.Correct {
		state.Score++
	} else {
		state.Missed = append(state.Missed, MissedItem{
			SkillID:    state.Skill.ID,
			Kind:       state.CurrentKind(),
			Question:   verdict.Description,
			AnswerText: verdict.AnswerText,
		})
	}

	state.LastVerdict = &verdict
	state.Phase = PhaseFeedback
	return verdict, nil
}

// AdvanceSlot moves past the graded slot and materializes the next
// exercise. It returns false once the last slot has been passed.
func AdvanceSlot(state *SessionState) (bool, error) {
	if state.Done() {
		return false, ErrLessonOver
	}
	if state.Phase != PhaseFeedback {
		return false, ErrNotAnswered
	}

	state.CurrentIndex++
	state.LastVerdict = nil
	if state.Done() {
		state.CurrentExercise = nil
		state.Phase = PhaseSummary
		return false, nil
	}

	state.CurrentExercise = state.planner.GenerateForSlot(state.CurrentKind(), state.Skill.Config)
	state.Phase = PhaseActive
	return true, nil
}
