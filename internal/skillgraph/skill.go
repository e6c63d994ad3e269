package skillgraph

// Operation is the arithmetic family a skill draws its problems from.
type Operation string

const (
	OpAddition       Operation = "addition"
	OpSubtraction    Operation = "subtraction"
	OpMultiplication Operation = "multiplication"
	OpDivision       Operation = "division"
	OpMixedAddSub    Operation = "mixed_add_sub"
	OpMixedMulDiv    Operation = "mixed_mul_div"
)

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case OpAddition, OpSubtraction, OpMultiplication, OpDivision, OpMixedAddSub, OpMixedMulDiv:
		return true
	default:
		return false
	}
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Constraints narrows how operands are drawn. Nil pointers mean "not set".
type Constraints struct {
	SumMax       *int
	Doubles      bool
	FixedOperand *int
}

// SkillConfig is the static problem-generation recipe for a skill.
// It is never mutated after the graph is built.
type SkillConfig struct {
	Type          Operation
	Operand1Range Range
	Operand2Range Range
	Constraints   *Constraints
}

// SumMax returns the sum ceiling and whether one is configured.
func (c SkillConfig) SumMax() (int, bool) {
	if c.Constraints == nil || c.Constraints.SumMax == nil {
		return 0, false
	}
	return *c.Constraints.SumMax, true
}

// FixedOperand returns the pinned operand and whether one is configured.
func (c SkillConfig) FixedOperand() (int, bool) {
	if c.Constraints == nil || c.Constraints.FixedOperand == nil {
		return 0, false
	}
	return *c.Constraints.FixedOperand, true
}

// Doubles reports whether operand2 must equal operand1.
func (c SkillConfig) Doubles() bool {
	return c.Constraints != nil && c.Constraints.Doubles
}

// Skill is one node of the curriculum.
type Skill struct {
	ID           string
	Name         string
	Icon         string
	Prerequisite string // empty for root skills
	Config       SkillConfig
}

// IsRoot reports whether the skill has no prerequisite.
func (s Skill) IsRoot() bool {
	return s.Prerequisite == ""
}

// Section is a named, colored group of skills in curriculum order.
type Section struct {
	Name   string
	Color  string
	Skills []Skill
}

// Status represents a skill's state relative to the learner.
type Status int

const (
	StatusLocked     Status = iota // Prerequisite not far enough along
	StatusAvailable                // Unlocked, never attempted
	StatusLearning                 // Mastery level 1
	StatusPracticing               // Mastery level 2
	StatusMastered                 // Mastery level 3, terminal
)

// Playable reports whether a lesson can be started on a skill in this status.
func (s Status) Playable() bool {
	return s == StatusAvailable || s == StatusLearning || s == StatusPracticing
}

// Icon returns the display icon for a status.
func (s Status) Icon() string {
	switch s {
	case StatusLocked:
		return "🔒"
	case StatusAvailable:
		return "🔓"
	case StatusLearning:
		return "📖"
	case StatusPracticing:
		return "📝"
	case StatusMastered:
		return "✅"
	default:
		return "?"
	}
}

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusAvailable:
		return "Available"
	case StatusLearning:
		return "Learning"
	case StatusPracticing:
		return "Practicing"
	case StatusMastered:
		return "Mastered"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return s.Label()
}
