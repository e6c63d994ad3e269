package problemgen

import (
	"fmt"
	"regexp"
	"strconv"
)

// Operator is the printed symbol of a binary arithmetic operation.
type Operator string

const (
	OpPlus   Operator = "+"
	OpMinus  Operator = "-"
	OpTimes  Operator = "×"
	OpDivide Operator = "÷"
)

// Valid reports whether op is one of the four printed operators.
func (op Operator) Valid() bool {
	switch op {
	case OpPlus, OpMinus, OpTimes, OpDivide:
		return true
	default:
		return false
	}
}

// Fact is a single generated arithmetic fact "A op B = Result".
type Fact struct {
	A      int
	Op     Operator
	B      int
	Result int
}

// String returns the left-hand expression, e.g. "3 + 4".
func (f Fact) String() string {
	return fmt.Sprintf("%d %s %d", f.A, f.Op, f.B)
}

// Equation returns the full equation, e.g. "3 + 4 = 7".
func (f Fact) Equation() string {
	return fmt.Sprintf("%d %s %d = %d", f.A, f.Op, f.B, f.Result)
}

// Tokens returns the five equation tokens [A, op, B, "=", Result].
func (f Fact) Tokens() []string {
	return []string{strconv.Itoa(f.A), string(f.Op), strconv.Itoa(f.B), "=", strconv.Itoa(f.Result)}
}

// Apply evaluates a op b using integer arithmetic. Division must be exact.
func Apply(a int, op Operator, b int) (int, error) {
	switch op {
	case OpPlus:
		return a + b, nil
	case OpMinus:
		return a - b, nil
	case OpTimes:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		if a%b != 0 {
			return 0, fmt.Errorf("%d is not divisible by %d", a, b)
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported operator: %q", op)
	}
}

// expressionRe matches a rendered question such as "12 ÷ 3" or "7-2".
var expressionRe = regexp.MustCompile(`^\s*(\d+)\s*([+\-×÷])\s*(\d+)\s*$`)

// ParseExpression reads a rendered "a op b" question back into a Fact,
// recomputing the result.
func ParseExpression(s string) (Fact, error) {
	m := expressionRe.FindStringSubmatch(s)
	if m == nil {
		return Fact{}, fmt.Errorf("not an expression: %q", s)
	}
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return Fact{}, fmt.Errorf("invalid operand: %w", err)
	}
	b, err := strconv.Atoi(m[3])
	if err != nil {
		return Fact{}, fmt.Errorf("invalid operand: %w", err)
	}
	op := Operator(m[2])
	result, err := Apply(a, op, b)
	if err != nil {
		return Fact{}, err
	}
	return Fact{A: a, Op: op, B: b, Result: result}, nil
}
