package mastery

import "github.com/abhisek/orcamath/internal/skillgraph"

// ResolveDisplayState maps a mastery level and whether the skill's
// prerequisite is far enough along into the status shown to the learner.
func ResolveDisplayState(level Level, prerequisiteMet bool) skillgraph.Status {
	switch {
	case level >= LevelMastered:
		return skillgraph.StatusMastered
	case level == LevelPracticing:
		return skillgraph.StatusPracticing
	case level == LevelLearning:
		return skillgraph.StatusLearning
	case prerequisiteMet:
		return skillgraph.StatusAvailable
	default:
		return skillgraph.StatusLocked
	}
}
