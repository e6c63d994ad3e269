package profile

import "time"

// MaxRecentMissed is how many missed items a profile keeps.
const MaxRecentMissed = 20

// MissedItem is a wrongly answered exercise kept for review.
type MissedItem struct {
	SkillID    string    `json:"skill_id"`
	Kind       string    `json:"kind"`
	Question   string    `json:"question"`
	AnswerText string    `json:"answer_text"`
	MissedAt   time.Time `json:"missed_at"`
}

// Stats are the per-profile counters updated after every lesson.
type Stats struct {
	ProfileID      string
	Streak         int
	TotalCompleted int
	LastPlayedAt   *time.Time // nil until the first lesson
	RecentMissed   []MissedItem
}

// NewStats returns the zero-valued stats used when nothing is stored.
func NewStats(profileID string) *Stats {
	return &Stats{ProfileID: profileID}
}

// NextStreak returns the streak after playing at now. The gap is counted in
// calendar days in now's location: playing the day after lastPlayed extends
// the streak, playing again the same day keeps it (at least 1), and any
// other gap starts over at 1.
func NextStreak(streak int, lastPlayed *time.Time, now time.Time) int {
	if lastPlayed == nil {
		return 1
	}
	switch calendarDaysBetween(*lastPlayed, now) {
	case 0:
		return max(streak, 1)
	case 1:
		return streak + 1
	default:
		return 1
	}
}

// calendarDaysBetween counts midnights crossed from a to b, both taken in
// b's location. The result is negative when a is on a later day.
func calendarDaysBetween(a, b time.Time) int {
	loc := b.Location()
	a = a.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	// Noon UTC avoids DST-length days skewing the division.
	da := time.Date(ay, am, ad, 12, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 12, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ApplyLesson records a finished lesson of exercises exercises played at
// now. Missed items are appended and only the newest MaxRecentMissed kept.
func (s *Stats) ApplyLesson(exercises int, missed []MissedItem, now time.Time) {
	s.Streak = NextStreak(s.Streak, s.LastPlayedAt, now)
	s.TotalCompleted += exercises
	played := now
	s.LastPlayedAt = &played

	for _, m := range missed {
		if m.MissedAt.IsZero() {
			m.MissedAt = now
		}
		s.RecentMissed = append(s.RecentMissed, m)
	}
	if n := len(s.RecentMissed); n > MaxRecentMissed {
		s.RecentMissed = append([]MissedItem(nil), s.RecentMissed[n-MaxRecentMissed:]...)
	}
}

// ActiveStreak returns the streak as of now: it is zero when the last lesson
// was before yesterday.
func (s *Stats) ActiveStreak(now time.Time) int {
	if s.LastPlayedAt == nil {
		return 0
	}
	if calendarDaysBetween(*s.LastPlayedAt, now) > 1 {
		return 0
	}
	return s.Streak
}
