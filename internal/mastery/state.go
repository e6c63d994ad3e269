package mastery

// Level is a skill's mastery level. Zero means never attempted.
type Level int

const (
	LevelNew        Level = 0
	LevelLearning   Level = 1
	LevelPracticing Level = 2
	LevelMastered   Level = 3
)

// MaxLevel is the terminal level; it never regresses.
const MaxLevel = LevelMastered

// UnlockLevel is the prerequisite level at which dependents unlock.
const UnlockLevel = LevelPracticing

// thresholds is the lesson score needed to leave each level.
// Level 0 advances on any finished lesson. The entry for level 3 is never
// consulted because mastered is terminal.
var thresholds = map[Level]int{
	LevelLearning:   7,
	LevelPracticing: 8,
	LevelMastered:   9,
}

// Threshold returns the score needed to advance from level, and false when
// level has no threshold.
func Threshold(level Level) (int, bool) {
	t, ok := thresholds[level]
	return t, ok
}

// Advance returns the level after a lesson scored score at level.
// Levels never go down.
func Advance(level Level, score int) Level {
	switch {
	case level <= LevelNew:
		return LevelLearning
	case level >= MaxLevel:
		return MaxLevel
	}
	if t, ok := thresholds[level]; ok && score >= t {
		return level + 1
	}
	return level
}

// String returns the level's display name.
func (l Level) String() string {
	switch l {
	case LevelNew:
		return "new"
	case LevelLearning:
		return "learning"
	case LevelPracticing:
		return "practicing"
	case LevelMastered:
		return "mastered"
	default:
		return "unknown"
	}
}

// StateTransition records a level change for display and logging.
type StateTransition struct {
	SkillID   string
	SkillName string
	From      Level
	To        Level
}

// Unlocked reports whether this transition made the skill's dependents
// playable.
func (t *StateTransition) Unlocked() bool {
	return t.From < UnlockLevel && t.To >= UnlockLevel
}
