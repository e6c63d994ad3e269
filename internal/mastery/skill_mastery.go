package mastery

import "time"

// SkillMastery holds the persisted mastery record for a single skill.
type SkillMastery struct {
	SkillID   string
	Level     Level
	BestScore int
	Attempts  int
	UpdatedAt time.Time
}

// NewSkillMastery returns the zero-valued record used when nothing is stored.
func NewSkillMastery(skillID string) *SkillMastery {
	return &SkillMastery{SkillID: skillID}
}

// Attempted reports whether at least one lesson was finished.
func (sm *SkillMastery) Attempted() bool {
	return sm.Attempts > 0
}

// record applies a finished lesson to the record.
func (sm *SkillMastery) record(score int, now time.Time) {
	sm.Level = Advance(sm.Level, score)
	sm.BestScore = max(sm.BestScore, score)
	sm.Attempts++
	sm.UpdatedAt = now
}
