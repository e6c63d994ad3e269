package problemgen

// Format identifies which of the five exercise shapes an Exercise has.
type Format string

const (
	FormatDirectChoice  Format = "direct_choice"
	FormatComparison    Format = "comparison"
	FormatMultiSelect   Format = "multi_select"
	FormatTileOrder     Format = "tile_order"
	FormatSequenceOrder Format = "sequence_order"
)

// Exercise is one concrete, immutable exercise. The set of implementations
// is closed: only the five types in this file satisfy it. Consumers dispatch
// with Match so that a new shape fails to compile until handled everywhere.
type Exercise interface {
	Format() Format
	isExercise()
}

// DirectChoice asks for the value of Question, picked from Choices.
// Missing-operand exercises reuse this shape with a "___" placeholder.
type DirectChoice struct {
	Question string `json:"question"`
	Answer   int    `json:"answer"`
	Choices  []int  `json:"choices"`
}

// Side labels one of the two expressions of a Comparison.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Comparison asks which of two expressions evaluates larger.
type Comparison struct {
	ExpressionA string `json:"expression_a"`
	ExpressionB string `json:"expression_b"`
	ValueA      int    `json:"value_a"`
	ValueB      int    `json:"value_b"`
	Answer      Side   `json:"answer"`
}

// MultiSelect ("bubble pop") asks for every bubble whose expression equals
// TargetValue.
type MultiSelect struct {
	TargetValue    int      `json:"target_value"`
	Bubbles        []string `json:"bubbles"`
	CorrectIndices []int    `json:"correct_indices"`
}

// TileOrder ("equation builder") asks the learner to arrange shuffled tiles
// into a true equation. CorrectOrder is the generated equation; any true
// arrangement is accepted.
type TileOrder struct {
	Tiles        []string `json:"tiles"`
	CorrectOrder []string `json:"correct_order"`
}

// SequenceOrder asks for Items ordered by ascending value. CorrectOrder
// holds indices into Items.
type SequenceOrder struct {
	Items        []string `json:"items"`
	CorrectOrder []int    `json:"correct_order"`
}

func (*DirectChoice) Format() Format  { return FormatDirectChoice }
func (*Comparison) Format() Format    { return FormatComparison }
func (*MultiSelect) Format() Format   { return FormatMultiSelect }
func (*TileOrder) Format() Format     { return FormatTileOrder }
func (*SequenceOrder) Format() Format { return FormatSequenceOrder }

func (*DirectChoice) isExercise()  {}
func (*Comparison) isExercise()    {}
func (*MultiSelect) isExercise()   {}
func (*TileOrder) isExercise()     {}
func (*SequenceOrder) isExercise() {}

// Matcher handles every exercise shape. Adding a shape adds a method here,
// which breaks every implementation until it is handled.
type Matcher[T any] interface {
	DirectChoice(*DirectChoice) T
	Comparison(*Comparison) T
	MultiSelect(*MultiSelect) T
	TileOrder(*TileOrder) T
	SequenceOrder(*SequenceOrder) T
}

// Match dispatches ex to the matching Matcher method. A nil exercise
// yields the zero value of T.
func Match[T any](ex Exercise, m Matcher[T]) T {
	switch e := ex.(type) {
	case *DirectChoice:
		return m.DirectChoice(e)
	case *Comparison:
		return m.Comparison(e)
	case *MultiSelect:
		return m.MultiSelect(e)
	case *TileOrder:
		return m.TileOrder(e)
	case *SequenceOrder:
		return m.SequenceOrder(e)
	}
	var zero T
	return zero
}
