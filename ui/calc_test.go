package ui

import "testing"

func TestCalcLeftToRightNoPrecedence(t *testing.T) {
	ctx := ResolveContext{ParentSize: 100}
	// 100% - 20px + 5px, strictly left to right: ((100 - 20) + 5) = 85
	c := NewCalc(Percent(100)).Sub(Px(20)).Add(Px(5))
	got := c.Eval(AxisWidth, ctx)
	if got != 85 {
		t.Errorf("calc: expected 85, got %v", got)
	}
}

func TestCalcMulDivScalars(t *testing.T) {
	ctx := ResolveContext{}
	// 10px * 3 / 2 = 15
	c := NewCalc(Px(10)).Mul(3).Div(2)
	got := c.Eval(AxisWidth, ctx)
	if got != 15 {
		t.Errorf("calc: expected 15, got %v", got)
	}
}

func TestCalcDivByZeroYieldsZero(t *testing.T) {
	ctx := ResolveContext{}
	c := NewCalc(Px(10)).Div(0)
	got := c.Eval(AxisWidth, ctx)
	if got != 0 {
		t.Errorf("calc: expected 0 on division by zero, got %v", got)
	}
}

func TestCalcAsUISize(t *testing.T) {
	ctx := ResolveContext{ParentSize: 200}
	size := CalcSize(NewCalc(Percent(50)).Add(Px(10)))
	got := size.Resolve(AxisWidth, ctx)
	if got != 110 {
		t.Errorf("calc size: expected 110, got %v", got)
	}
}
