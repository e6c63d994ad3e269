package problemgen

import (
	"fmt"
	"slices"
)

// ValidationError describes why a generated exercise is malformed.
type ValidationError struct {
	Format  Format // Shape of the exercise that failed
	Message string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s exercise: %s", e.Format, e.Message)
}

// Validate checks that ex is internally consistent: the answer is among the
// choices, indices are in range, and every rendered expression evaluates to
// the value the exercise claims. Expressions are recomputed from their text.
func Validate(ex Exercise) error {
	if ex == nil {
		return &ValidationError{Message: "exercise is nil"}
	}
	if msg := Match[string](ex, structuralCheck{}); msg != "" {
		return &ValidationError{Format: ex.Format(), Message: msg}
	}
	return nil
}

type structuralCheck struct{}

func (structuralCheck) DirectChoice(ex *DirectChoice) string {
	if ex.Question == "" {
		return "question is empty"
	}
	if len(ex.Choices) != ChoiceCount {
		return fmt.Sprintf("want %d choices, got %d", ChoiceCount, len(ex.Choices))
	}
	seen := make(map[int]bool)
	for _, c := range ex.Choices {
		if c < 0 {
			return fmt.Sprintf("negative choice %d", c)
		}
		if seen[c] {
			return fmt.Sprintf("duplicate choice %d", c)
		}
		seen[c] = true
	}
	if !seen[ex.Answer] {
		return fmt.Sprintf("answer %d is not among the choices", ex.Answer)
	}
	if v, err := ParseExpression(ex.Question); err == nil && v.Result != ex.Answer {
		return fmt.Sprintf("computed %d but answer is %d", v.Result, ex.Answer)
	}
	return ""
}

func (structuralCheck) Comparison(ex *Comparison) string {
	a, err := ParseExpression(ex.ExpressionA)
	if err != nil {
		return err.Error()
	}
	b, err := ParseExpression(ex.ExpressionB)
	if err != nil {
		return err.Error()
	}
	if a.Result != ex.ValueA || b.Result != ex.ValueB {
		return "stated values do not match the expressions"
	}
	if ex.ValueA == ex.ValueB {
		return "values are equal"
	}
	want := SideA
	if ex.ValueB > ex.ValueA {
		want = SideB
	}
	if ex.Answer != want {
		return fmt.Sprintf("answer %q is not the bigger side", ex.Answer)
	}
	return ""
}

func (structuralCheck) MultiSelect(ex *MultiSelect) string {
	if len(ex.CorrectIndices) < 2 {
		return "fewer than 2 correct bubbles"
	}
	if len(ex.Bubbles) > MaxBubbles {
		return fmt.Sprintf("more than %d bubbles", MaxBubbles)
	}
	if !slices.IsSorted(ex.CorrectIndices) {
		return "correct indices are not ascending"
	}
	for i, bubble := range ex.Bubbles {
		f, err := ParseExpression(bubble)
		if err != nil {
			return err.Error()
		}
		marked := slices.Contains(ex.CorrectIndices, i)
		if (f.Result == ex.TargetValue) != marked {
			return fmt.Sprintf("bubble %d (%s) is mislabeled", i, bubble)
		}
	}
	for _, i := range ex.CorrectIndices {
		if i < 0 || i >= len(ex.Bubbles) {
			return fmt.Sprintf("correct index %d out of range", i)
		}
	}
	return ""
}

func (structuralCheck) TileOrder(ex *TileOrder) string {
	if !EvaluateEquation(ex.CorrectOrder) {
		return "correct order is not a true equation"
	}
	got := slices.Clone(ex.Tiles)
	want := slices.Clone(ex.CorrectOrder)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return "tiles are not a permutation of the equation"
	}
	return ""
}

func (structuralCheck) SequenceOrder(ex *SequenceOrder) string {
	if len(ex.Items) != SequenceLength || len(ex.CorrectOrder) != SequenceLength {
		return fmt.Sprintf("want %d items", SequenceLength)
	}
	values := make([]int, len(ex.Items))
	for i, item := range ex.Items {
		f, err := ParseExpression(item)
		if err != nil {
			return err.Error()
		}
		values[i] = f.Result
	}
	seen := make(map[int]bool)
	prev := -1
	for _, idx := range ex.CorrectOrder {
		if idx < 0 || idx >= len(values) || seen[idx] {
			return "correct order is not a permutation"
		}
		seen[idx] = true
		if values[idx] <= prev {
			return "correct order is not strictly ascending"
		}
		prev = values[idx]
	}
	return ""
}
