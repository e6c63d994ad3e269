package mastery

import (
	"slices"
	"strings"
	"time"

	"github.com/abhisek/orcamath/internal/skillgraph"
)

// Service provides mastery state management for all skills of one profile.
type Service struct {
	graph  *skillgraph.Graph
	skills map[string]*SkillMastery
}

// NewService creates a mastery service over graph, seeded with the stored
// records. A nil graph uses skillgraph.Default(). Records for skills that
// are not in the graph are kept so they round-trip through Records.
func NewService(graph *skillgraph.Graph, records []SkillMastery) *Service {
	if graph == nil {
		graph = skillgraph.Default()
	}
	s := &Service{
		graph:  graph,
		skills: make(map[string]*SkillMastery, len(records)),
	}
	for _, r := range records {
		if r.Level < LevelNew {
			r.Level = LevelNew
		}
		if r.Level > MaxLevel {
			r.Level = MaxLevel
		}
		s.skills[r.SkillID] = &r
	}
	return s
}

// Graph returns the skill graph the service resolves statuses against.
func (s *Service) Graph() *skillgraph.Graph {
	return s.graph
}

// GetMastery returns a copy of the mastery record for a skill.
// Returns a zero-valued record if the skill hasn't been encountered.
func (s *Service) GetMastery(skillID string) SkillMastery {
	if sm, ok := s.skills[skillID]; ok {
		return *sm
	}
	return *NewSkillMastery(skillID)
}

// Level returns the skill's mastery level (LevelNew when unrecorded).
func (s *Service) Level(skillID string) Level {
	return s.GetMastery(skillID).Level
}

// Status resolves the display status of a skill. Unknown skills are locked.
func (s *Service) Status(skillID string) skillgraph.Status {
	skill, err := s.graph.Skill(skillID)
	if err != nil {
		return skillgraph.StatusLocked
	}
	return ResolveDisplayState(s.Level(skillID), s.prerequisiteMet(skill))
}

func (s *Service) prerequisiteMet(skill skillgraph.Skill) bool {
	if skill.IsRoot() {
		return true
	}
	return s.Level(skill.Prerequisite) >= UnlockLevel
}

// PlayableSkillID returns the last skill in topological order whose status
// is available, learning or practicing. ok is false when every reachable
// skill is mastered.
func (s *Service) PlayableSkillID() (id string, ok bool) {
	order := s.graph.TopologicalOrder()
	ids := make([]string, len(order))
	for i, sk := range order {
		ids[i] = sk.ID
	}
	return SelectPlayable(ids, s.Status)
}

// SelectPlayable returns the last id in order whose status is playable.
func SelectPlayable(order []string, status func(id string) skillgraph.Status) (string, bool) {
	for i := len(order) - 1; i >= 0; i-- {
		if status(order[i]).Playable() {
			return order[i], true
		}
	}
	return "", false
}

// RecordSession applies a finished lesson's score to the skill and returns
// the updated record. The transition is nil when the level did not change.
func (s *Service) RecordSession(skillID string, score int, now time.Time) (SkillMastery, *StateTransition) {
	rec, transition := s.NextRecord(skillID, score, now)
	s.Commit(rec)
	return rec, transition
}

// NextRecord returns the record RecordSession would store, leaving the
// service unchanged. Pair it with Commit once the record is persisted.
func (s *Service) NextRecord(skillID string, score int, now time.Time) (SkillMastery, *StateTransition) {
	sm := s.GetMastery(skillID)
	from := sm.Level
	sm.record(score, now)

	var transition *StateTransition
	if sm.Level != from {
		transition = &StateTransition{
			SkillID:   skillID,
			SkillName: s.resolveSkillName(skillID),
			From:      from,
			To:        sm.Level,
		}
	}
	return sm, transition
}

// Commit stores rec, replacing the skill's current record.
func (s *Service) Commit(rec SkillMastery) {
	s.skills[rec.SkillID] = &rec
}

// MasteredCount returns the number of mastered skills.
func (s *Service) MasteredCount() int {
	n := 0
	for _, sm := range s.skills {
		if sm.Level >= LevelMastered {
			n++
		}
	}
	return n
}

// Records returns every stored record sorted by skill ID.
func (s *Service) Records() []SkillMastery {
	out := make([]SkillMastery, 0, len(s.skills))
	for _, sm := range s.skills {
		out = append(out, *sm)
	}
	slices.SortFunc(out, func(a, b SkillMastery) int {
		return strings.Compare(a.SkillID, b.SkillID)
	})
	return out
}

func (s *Service) resolveSkillName(skillID string) string {
	skill, err := s.graph.Skill(skillID)
	if err != nil {
		return skillID
	}
	return skill.Name
}
