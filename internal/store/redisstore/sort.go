package redisstore

import (
	"slices"
	"strings"

	"github.com/abhisek/orcamath/internal/mastery"
	"github.com/abhisek/orcamath/internal/profile"
)

// Hashes come back unordered; these restore the order the SQLite backend
// returns.

func sortProfiles(ps []profile.Profile) {
	slices.SortFunc(ps, func(a, b profile.Profile) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func sortMastery(ms []mastery.SkillMastery) {
	slices.SortFunc(ms, func(a, b mastery.SkillMastery) int {
		return strings.Compare(a.SkillID, b.SkillID)
	})
}
