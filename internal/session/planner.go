package session

import (
	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/skillgraph"
)

// Planner sequences exercise kinds into a lesson and materializes the
// exercise for each slot.
type Planner interface {
	// BuildPlan returns a fresh lesson plan.
	BuildPlan() Plan

	// GenerateForSlot builds the exercise for one slot from the skill's config.
	GenerateForSlot(kind SlotKind, cfg skillgraph.SkillConfig) problemgen.Exercise
}

// DefaultPlanner shuffles the fixed lesson composition and dispatches each
// slot to the matching problemgen transformer.
type DefaultPlanner struct {
	Gen *problemgen.Generator
}

// NewPlanner creates a DefaultPlanner over gen. A nil gen uses a generator
// backed by the global random source.
func NewPlanner(gen *problemgen.Generator) *DefaultPlanner {
	if gen == nil {
		gen = problemgen.New(nil)
	}
	return &DefaultPlanner{Gen: gen}
}

// BuildPlan returns a uniformly random permutation of the lesson
// composition.
func (p *DefaultPlanner) BuildPlan() Plan {
	kinds := make([]SlotKind, 0, LessonLength)
	for _, c := range lessonComposition {
		for range c.Count {
			kinds = append(kinds, c.Kind)
		}
	}
	kinds = problemgen.Shuffle(p.Gen.Rand(), kinds)

	var plan Plan
	copy(plan[:], kinds)
	return plan
}

// GenerateForSlot dispatches to the transformer for kind. Unknown kinds get
// a plain DirectChoice.
func (p *DefaultPlanner) GenerateForSlot(kind SlotKind, cfg skillgraph.SkillConfig) problemgen.Exercise {
	switch kind {
	case KindMissingOperand:
		return p.Gen.MissingOperand(cfg)
	case KindComparison:
		return p.Gen.Comparison(cfg)
	case KindMultiSelect:
		return p.Gen.MultiSelect(cfg)
	case KindTileOrder:
		return p.Gen.TileOrder(cfg)
	case KindSequenceOrder:
		return p.Gen.SequenceOrder(cfg)
	default:
		return p.Gen.Generate(cfg)
	}
}
