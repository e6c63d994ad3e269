package problemgen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Submission is a learner's answer to one exercise. Like Exercise, the set
// of implementations is closed.
type Submission interface {
	isSubmission()
}

// ChoiceSubmission answers a DirectChoice with the picked value.
type ChoiceSubmission struct {
	Value int `json:"value"`
}

// SideSubmission answers a Comparison.
type SideSubmission struct {
	Side Side `json:"side"`
}

// IndicesSubmission answers a MultiSelect with the popped bubble indices.
type IndicesSubmission struct {
	Indices []int `json:"indices"`
}

// TilesSubmission answers a TileOrder with the arranged tiles.
type TilesSubmission struct {
	Tiles []string `json:"tiles"`
}

// OrderSubmission answers a SequenceOrder with item indices, smallest first.
type OrderSubmission struct {
	Order []int `json:"order"`
}

func (ChoiceSubmission) isSubmission()  {}
func (SideSubmission) isSubmission()    {}
func (IndicesSubmission) isSubmission() {}
func (TilesSubmission) isSubmission()   {}
func (OrderSubmission) isSubmission()   {}

// Verdict is the graded outcome of a submission. Description and AnswerText
// are what the learner is shown when they missed it.
type Verdict struct {
	Correct     bool   `json:"correct"`
	Description string `json:"description"`
	AnswerText  string `json:"answer_text"`
}

// Evaluate grades sub against ex. A submission of the wrong kind, a nil
// submission, or a malformed arrangement is graded incorrect; Evaluate never
// fails.
func Evaluate(ex Exercise, sub Submission) Verdict {
	return Match[Verdict](ex, evaluator{sub: sub})
}

type evaluator struct {
	sub Submission
}

func (e evaluator) DirectChoice(ex *DirectChoice) Verdict {
	s, ok := e.sub.(ChoiceSubmission)
	return Verdict{
		Correct:     ok && s.Value == ex.Answer,
		Description: ex.Question,
		AnswerText:  strconv.Itoa(ex.Answer),
	}
}

func (e evaluator) Comparison(ex *Comparison) Verdict {
	s, ok := e.sub.(SideSubmission)
	bigger := ex.ExpressionA
	if ex.Answer == SideB {
		bigger = ex.ExpressionB
	}
	return Verdict{
		Correct:     ok && s.Side == ex.Answer,
		Description: fmt.Sprintf("Which is bigger: %s or %s?", ex.ExpressionA, ex.ExpressionB),
		AnswerText:  bigger,
	}
}

func (e evaluator) MultiSelect(ex *MultiSelect) Verdict {
	s, ok := e.sub.(IndicesSubmission)
	var answers []string
	for _, i := range ex.CorrectIndices {
		if i >= 0 && i < len(ex.Bubbles) {
			answers = append(answers, ex.Bubbles[i])
		}
	}
	return Verdict{
		Correct:     ok && sameIndexSet(s.Indices, ex.CorrectIndices),
		Description: fmt.Sprintf("Pop every bubble equal to %d", ex.TargetValue),
		AnswerText:  strings.Join(answers, ", "),
	}
}

func (e evaluator) TileOrder(ex *TileOrder) Verdict {
	s, ok := e.sub.(TilesSubmission)
	return Verdict{
		Correct:     ok && EvaluateEquation(s.Tiles),
		Description: "Build the equation: " + strings.Join(ex.Tiles, " "),
		AnswerText:  strings.Join(ex.CorrectOrder, " "),
	}
}

func (e evaluator) SequenceOrder(ex *SequenceOrder) Verdict {
	s, ok := e.sub.(OrderSubmission)
	var ordered []string
	for _, i := range ex.CorrectOrder {
		if i >= 0 && i < len(ex.Items) {
			ordered = append(ordered, ex.Items[i])
		}
	}
	return Verdict{
		Correct:     ok && slices.Equal(s.Order, ex.CorrectOrder),
		Description: "Order smallest to biggest: " + strings.Join(ex.Items, ", "),
		AnswerText:  strings.Join(ordered, " < "),
	}
}

// sameIndexSet reports whether got and want hold exactly the same indices.
// Order does not matter; a repeated index makes the sets differ.
func sameIndexSet(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[int]bool, len(got))
	for _, i := range got {
		if seen[i] {
			return false
		}
		seen[i] = true
	}
	for _, i := range want {
		if !seen[i] {
			return false
		}
	}
	return true
}

// EvaluateEquation reports whether tiles spell a true equation of the form
// <num> <op> <num> = <num>. Any true arrangement is accepted, so
// "4 + 3 = 7" is as good as "3 + 4 = 7".
func EvaluateEquation(tiles []string) bool {
	if len(tiles) != 5 || tiles[3] != "=" {
		return false
	}
	a, err := parseTileNumber(tiles[0])
	if err != nil {
		return false
	}
	b, err := parseTileNumber(tiles[2])
	if err != nil {
		return false
	}
	stated, err := parseTileNumber(tiles[4])
	if err != nil {
		return false
	}
	op := Operator(tiles[1])
	if !op.Valid() {
		return false
	}
	got, err := Apply(a, op, b)
	if err != nil {
		return false
	}
	return got == stated
}

// parseTileNumber parses a numeric tile. Tiles are produced from
// non-negative operands, so a signed tile is rejected.
func parseTileNumber(s string) (int, error) {
	if s == "" || s[0] == '-' || s[0] == '+' {
		return 0, fmt.Errorf("invalid tile: %q", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid tile: %w", err)
	}
	return n, nil
}
