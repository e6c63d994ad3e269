package session

import "time"

// SessionSummary holds the outcome of a finished lesson.
type SessionSummary struct {
	SkillID  string
	Score    int
	Total    int
	Stars    int
	Missed   []MissedItem
	Duration time.Duration
}

// BuildSummary creates a SessionSummary from the lesson state. now is the
// time the lesson ended.
func BuildSummary(state *SessionState, now time.Time) *SessionSummary {
	missed := make([]MissedItem, len(state.Missed))
	copy(missed, state.Missed)

	return &SessionSummary{
		SkillID:  state.Skill.ID,
		Score:    state.Score,
		Total:    LessonLength,
		Stars:    Stars(state.Score, LessonLength),
		Missed:   missed,
		Duration: now.Sub(state.StartTime),
	}
}

// Stars rates a lesson: a perfect score earns 3, at least 80% earns 2, and
// finishing earns 1.
func Stars(score, total int) int {
	switch {
	case total <= 0:
		return 1
	case score >= total:
		return 3
	case score*10 >= total*8:
		return 2
	default:
		return 1
	}
}
