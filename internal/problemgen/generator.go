package problemgen

import "github.com/abhisek/orcamath/internal/skillgraph"

// SumMaxAttempts bounds the reject-and-retry loop for sum-capped addition.
const SumMaxAttempts = 50

// ChoiceCount is the number of options offered for a DirectChoice.
const ChoiceCount = 4

// Generator turns a SkillConfig into concrete facts and exercises.
// A Generator is not safe for concurrent use; its random source is owned.
type Generator struct {
	rng Rand
}

// New creates a Generator drawing from rng. A nil rng uses GlobalRand.
func New(rng Rand) *Generator {
	if rng == nil {
		rng = GlobalRand()
	}
	return &Generator{rng: rng}
}

// Rand returns the generator's random source.
func (g *Generator) Rand() Rand {
	return g.rng
}

// Generate produces a plain multiple-choice exercise for cfg.
func (g *Generator) Generate(cfg skillgraph.SkillConfig) *DirectChoice {
	return g.directChoice(g.Fact(cfg))
}

// Fact draws a single arithmetic fact honoring cfg's ranges and constraints.
func (g *Generator) Fact(cfg skillgraph.SkillConfig) Fact {
	switch cfg.Type {
	case skillgraph.OpAddition:
		return g.addition(cfg)
	case skillgraph.OpSubtraction:
		return g.subtraction(cfg)
	case skillgraph.OpMultiplication:
		return g.multiplication(cfg)
	case skillgraph.OpDivision:
		return g.division(cfg)
	case skillgraph.OpMixedAddSub:
		if g.coin() {
			return g.addition(cfg)
		}
		return g.subtraction(cfg)
	case skillgraph.OpMixedMulDiv:
		if g.coin() {
			return g.multiplication(cfg)
		}
		return g.division(cfg)
	default:
		return g.addition(cfg)
	}
}

func (g *Generator) addition(cfg skillgraph.SkillConfig) Fact {
	r1, r2 := cfg.Operand1Range, cfg.Operand2Range
	fixed, hasFixed := cfg.FixedOperand()

	a := g.randInt(r1)
	var b int
	switch {
	case cfg.Doubles():
		b = a
	case hasFixed:
		b = fixed
	default:
		b = g.randInt(r2)
	}

	if sumMax, ok := cfg.SumMax(); ok && !cfg.Doubles() {
		for tries := 0; a+b > sumMax && tries < SumMaxAttempts; tries++ {
			a = g.randInt(r1)
			if !hasFixed {
				b = g.randInt(r2)
			}
		}
		// A fixed operand2 stays pinned; operand1 takes the clamp.
		switch {
		case a+b <= sumMax:
		case hasFixed:
			a = max(r1.Min, sumMax-b)
		default:
			b = max(r2.Min, sumMax-a)
		}
	}

	return Fact{A: a, Op: OpPlus, B: b, Result: a + b}
}

func (g *Generator) subtraction(cfg skillgraph.SkillConfig) Fact {
	r1, r2 := cfg.Operand1Range, cfg.Operand2Range

	a := g.randInt(r1)
	var b int
	if fixed, ok := cfg.FixedOperand(); ok {
		b = fixed
	} else if hi := min(r2.Max, a); r2.Min <= hi {
		b = g.randInt(skillgraph.Range{Min: r2.Min, Max: hi})
	} else {
		b = g.randInt(r2)
	}
	if b > a {
		a, b = b, a
	}

	return Fact{A: a, Op: OpMinus, B: b, Result: a - b}
}

func (g *Generator) multiplication(cfg skillgraph.SkillConfig) Fact {
	a := g.randInt(cfg.Operand1Range)
	b, ok := cfg.FixedOperand()
	if !ok {
		b = g.randInt(cfg.Operand2Range)
	}
	if g.coin() {
		a, b = b, a
	}
	return Fact{A: a, Op: OpTimes, B: b, Result: a * b}
}

// division samples quotient and divisor, then derives the dividend, so the
// division is always exact.
func (g *Generator) division(cfg skillgraph.SkillConfig) Fact {
	quotient := g.randInt(cfg.Operand1Range)
	divisor, ok := cfg.FixedOperand()
	if !ok {
		divisor = g.randInt(cfg.Operand2Range)
	}
	if divisor <= 0 {
		divisor = 1
	}
	return Fact{A: quotient * divisor, Op: OpDivide, B: divisor, Result: quotient}
}

func (g *Generator) directChoice(f Fact) *DirectChoice {
	return g.choicesFor(f.String(), f.Result)
}

// choicesFor builds a DirectChoice whose options are answer plus near-miss
// distractors in random order.
func (g *Generator) choicesFor(question string, answer int) *DirectChoice {
	options := append([]int{answer}, WrongChoices(answer, ChoiceCount-1)...)
	return &DirectChoice{
		Question: question,
		Answer:   answer,
		Choices:  Shuffle(g.rng, options),
	}
}

// randInt returns a uniform integer in [r.Min, r.Max].
func (g *Generator) randInt(r skillgraph.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.rng.IntN(r.Max-r.Min+1)
}

func (g *Generator) coin() bool {
	return g.rng.IntN(2) == 1
}
