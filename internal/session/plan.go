package session

// SlotKind is the exercise modality served in one lesson slot.
type SlotKind string

const (
	KindDirectChoice   SlotKind = "direct_choice"
	KindMissingOperand SlotKind = "missing_operand"
	KindComparison     SlotKind = "comparison"
	KindMultiSelect    SlotKind = "multi_select"
	KindTileOrder      SlotKind = "tile_order"
	KindSequenceOrder  SlotKind = "sequence_order"
)

// LessonLength is the number of exercises in every lesson.
const LessonLength = 10

// Plan is the ordered list of slot kinds for one lesson.
type Plan [LessonLength]SlotKind

// lessonComposition is the fixed multiset every plan is a permutation of.
// Direct recall is weighted highest; every other modality appears at least
// once.
var lessonComposition = []struct {
	Kind  SlotKind
	Count int
}{
	{KindDirectChoice, 4},
	{KindMissingOperand, 2},
	{KindComparison, 1},
	{KindMultiSelect, 1},
	{KindTileOrder, 1},
	{KindSequenceOrder, 1},
}

// AllKinds returns every slot kind in composition order.
func AllKinds() []SlotKind {
	kinds := make([]SlotKind, 0, len(lessonComposition))
	for _, c := range lessonComposition {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

// Composition returns how many slots of each kind a plan holds.
func Composition() map[SlotKind]int {
	m := make(map[SlotKind]int, len(lessonComposition))
	for _, c := range lessonComposition {
		m[c.Kind] = c.Count
	}
	return m
}

// Counts tallies the kinds in p.
func (p Plan) Counts() map[SlotKind]int {
	m := make(map[SlotKind]int)
	for _, k := range p {
		m[k]++
	}
	return m
}

// Label returns a short display name for the kind.
func (k SlotKind) Label() string {
	switch k {
	case KindDirectChoice:
		return "Quick answer"
	case KindMissingOperand:
		return "Missing number"
	case KindComparison:
		return "Which is bigger?"
	case KindMultiSelect:
		return "Bubble pop"
	case KindTileOrder:
		return "Equation builder"
	case KindSequenceOrder:
		return "Order it"
	default:
		return string(k)
	}
}
