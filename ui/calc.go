package ui

import "render-engine/internal/logx"

// CalcOp is one of the four supported arithmetic operators. calc()
// expressions have no operator precedence: terms are combined strictly
// left to right.
type CalcOp int

const (
	OpAdd CalcOp = iota
	OpSub
	OpMul
	OpDiv
)

// calcTerm is one operand of a UICalc: either a nested UISize (itself
// possibly another UICalc) or a bare scalar multiplier/divisor.
type calcTerm struct {
	size   *UISize
	scalar float32
	isSize bool
}

func sizeTerm(s UISize) calcTerm   { return calcTerm{size: &s, isSize: true} }
func scalarTerm(v float32) calcTerm { return calcTerm{scalar: v} }

// UICalc is a left-to-right, no-precedence arithmetic expression over
// UISize terms, e.g. "100% - 20px" or "50vw + 2rem - 10px".
type UICalc struct {
	first calcTerm
	ops   []CalcOp
	terms []calcTerm
}

// NewCalc starts a calc expression with its first term.
func NewCalc(first UISize) *UICalc {
	return &UICalc{first: sizeTerm(first)}
}

// Add, Sub, Mul, Div append the next operator/term pair. Mul/Div accept
// a bare scalar (calc doesn't support unit*unit or unit/unit).
func (c *UICalc) Add(term UISize) *UICalc { return c.append(OpAdd, sizeTerm(term)) }
func (c *UICalc) Sub(term UISize) *UICalc { return c.append(OpSub, sizeTerm(term)) }
func (c *UICalc) Mul(scalar float32) *UICalc { return c.append(OpMul, scalarTerm(scalar)) }
func (c *UICalc) Div(scalar float32) *UICalc { return c.append(OpDiv, scalarTerm(scalar)) }

func (c *UICalc) append(op CalcOp, t calcTerm) *UICalc {
	c.ops = append(c.ops, op)
	c.terms = append(c.terms, t)
	return c
}

// Eval resolves every term against axis/ctx then folds left to right.
func (c *UICalc) Eval(axis Axis, ctx ResolveContext) float32 {
	result := c.evalTerm(c.first, axis, ctx)
	for i, op := range c.ops {
		rhs := c.evalTerm(c.terms[i], axis, ctx)
		switch op {
		case OpAdd:
			result += rhs
		case OpSub:
			result -= rhs
		case OpMul:
			result *= rhs
		case OpDiv:
			if rhs == 0 {
				logx.L().Warn().Msg("ui calc: division by zero, term evaluates to 0")
				result = 0
			} else {
				result /= rhs
			}
		}
	}
	return result
}

func (c *UICalc) evalTerm(t calcTerm, axis Axis, ctx ResolveContext) float32 {
	if t.isSize {
		return t.size.Resolve(axis, ctx)
	}
	return t.scalar
}
