package problemgen

import (
	"fmt"
	"slices"

	"github.com/abhisek/orcamath/internal/skillgraph"
)

const (
	// ComparisonAttempts bounds the search for two facts with different values.
	ComparisonAttempts = 20
	// SequenceAttempts bounds the search for SequenceLength distinct values.
	SequenceAttempts = 50
	// BubblePoolSize is the number of facts sampled for a MultiSelect.
	BubblePoolSize = 30
	// SequenceLength is the number of items to order.
	SequenceLength = 4
	// MaxBubbles caps the bubbles shown in a MultiSelect.
	MaxBubbles = 8
	// MaxCorrectBubbles caps how many target expressions are shown.
	MaxCorrectBubbles = 3
	// MinDistractorBubbles is the fewest wrong bubbles a MultiSelect needs.
	MinDistractorBubbles = 3
)

// Placeholder marks the hidden operand of a missing-operand question.
const Placeholder = "___"

// MissingOperand hides one operand of a generated fact. The hidden operand
// becomes the answer and the distractors are computed around it.
func (g *Generator) MissingOperand(cfg skillgraph.SkillConfig) *DirectChoice {
	base := g.Generate(cfg)
	f, err := ParseExpression(base.Question)
	if err != nil {
		return base
	}

	if g.coin() {
		q := fmt.Sprintf("%d %s %s = %d", f.A, f.Op, Placeholder, f.Result)
		return g.choicesFor(q, f.B)
	}
	q := fmt.Sprintf("%s %s %d = %d", Placeholder, f.Op, f.B, f.Result)
	return g.choicesFor(q, f.A)
}

// Comparison draws two facts with different values and asks which is
// bigger. It falls back to a DirectChoice when ComparisonAttempts pairs all
// tie.
func (g *Generator) Comparison(cfg skillgraph.SkillConfig) Exercise {
	for range ComparisonAttempts {
		a, b := g.Fact(cfg), g.Fact(cfg)
		if a.Result == b.Result {
			continue
		}
		answer := SideA
		if b.Result > a.Result {
			answer = SideB
		}
		return &Comparison{
			ExpressionA: a.String(),
			ExpressionB: b.String(),
			ValueA:      a.Result,
			ValueB:      b.Result,
			Answer:      answer,
		}
	}
	return g.Generate(cfg)
}

// valueGroup collects the distinct expressions seen for one value.
type valueGroup struct {
	value int
	exprs []string
}

// MultiSelect samples BubblePoolSize facts and builds a bubble-pop exercise
// around the first value that has at least two distinct expressions.
// It falls back to a DirectChoice when the pool has no such value or too
// few distractors.
func (g *Generator) MultiSelect(cfg skillgraph.SkillConfig) Exercise {
	pool := make([]Fact, 0, BubblePoolSize)
	var groups []*valueGroup
	byValue := make(map[int]*valueGroup)
	for range BubblePoolSize {
		f := g.Fact(cfg)
		pool = append(pool, f)
		grp, ok := byValue[f.Result]
		if !ok {
			grp = &valueGroup{value: f.Result}
			byValue[f.Result] = grp
			groups = append(groups, grp)
		}
		if expr := f.String(); !slices.Contains(grp.exprs, expr) {
			grp.exprs = append(grp.exprs, expr)
		}
	}

	var target *valueGroup
	for _, grp := range groups {
		if len(grp.exprs) >= 2 {
			target = grp
			break
		}
	}
	if target == nil {
		return g.Generate(cfg)
	}

	// Distractors are the first unique wrong expressions in draw order.
	correct := target.exprs[:min(MaxCorrectBubbles, len(target.exprs))]
	var distractors []string
	for _, f := range pool {
		if len(distractors) >= MaxBubbles-len(correct) {
			break
		}
		if expr := f.String(); f.Result != target.value && !slices.Contains(distractors, expr) {
			distractors = append(distractors, expr)
		}
	}
	if len(distractors) < MinDistractorBubbles {
		return g.Generate(cfg)
	}

	type bubble struct {
		expr    string
		correct bool
	}
	bubbles := make([]bubble, 0, len(correct)+len(distractors))
	for _, e := range correct {
		bubbles = append(bubbles, bubble{expr: e, correct: true})
	}
	for _, e := range distractors {
		bubbles = append(bubbles, bubble{expr: e})
	}
	bubbles = Shuffle(g.rng, bubbles)

	ms := &MultiSelect{TargetValue: target.value}
	for i, b := range bubbles {
		ms.Bubbles = append(ms.Bubbles, b.expr)
		if b.correct {
			ms.CorrectIndices = append(ms.CorrectIndices, i)
		}
	}
	return ms
}

// TileOrder splits a generated equation into its five tokens and shuffles
// them.
func (g *Generator) TileOrder(cfg skillgraph.SkillConfig) Exercise {
	base := g.Generate(cfg)
	f, err := ParseExpression(base.Question)
	if err != nil {
		return base
	}
	tokens := f.Tokens()
	return &TileOrder{
		Tiles:        Shuffle(g.rng, tokens),
		CorrectOrder: tokens,
	}
}

// SequenceOrder collects SequenceLength facts with pairwise-distinct values
// and asks for them smallest first. It falls back to a DirectChoice when
// SequenceAttempts draws do not yield enough distinct values.
func (g *Generator) SequenceOrder(cfg skillgraph.SkillConfig) Exercise {
	facts := make([]Fact, 0, SequenceLength)
	seen := make(map[int]bool)
	for attempt := 0; attempt < SequenceAttempts && len(facts) < SequenceLength; attempt++ {
		f := g.Fact(cfg)
		if seen[f.Result] {
			continue
		}
		seen[f.Result] = true
		facts = append(facts, f)
	}
	if len(facts) < SequenceLength {
		return g.Generate(cfg)
	}

	facts = Shuffle(g.rng, facts)
	items := make([]string, len(facts))
	order := make([]int, len(facts))
	for i, f := range facts {
		items[i] = f.String()
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return facts[a].Result - facts[b].Result
	})
	return &SequenceOrder{Items: items, CorrectOrder: order}
}
