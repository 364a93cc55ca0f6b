package scene

import (
	"testing"

	"render-engine/core"
)

func TestFloatGradientConstant(t *testing.T) {
	g := ConstantFloat(2.5)
	if g.Eval(0) != 2.5 || g.Eval(1) != 2.5 {
		t.Errorf("constant gradient: expected 2.5 everywhere, got %v / %v", g.Eval(0), g.Eval(1))
	}
}

func TestFloatGradientLinear(t *testing.T) {
	g := LinearFloat(0, 10)
	if g.Eval(0.5) != 5 {
		t.Errorf("linear gradient at t=0.5: expected 5, got %v", g.Eval(0.5))
	}
	// Out-of-range t is clamped, not extrapolated.
	if g.Eval(-1) != 0 {
		t.Errorf("linear gradient at t=-1: expected clamp to 0, got %v", g.Eval(-1))
	}
	if g.Eval(2) != 10 {
		t.Errorf("linear gradient at t=2: expected clamp to 10, got %v", g.Eval(2))
	}
}

func TestFloatGradientRamp(t *testing.T) {
	g := FloatGradient{
		Kind: GradientRamp,
		Keyframes: []FloatKeyframe{
			{T: 0, Value: 0},
			{T: 0.5, Value: 10},
			{T: 1, Value: 0},
		},
	}
	if g.Eval(0.25) != 5 {
		t.Errorf("ramp at t=0.25: expected 5, got %v", g.Eval(0.25))
	}
	if g.Eval(0.5) != 10 {
		t.Errorf("ramp at t=0.5: expected 10, got %v", g.Eval(0.5))
	}
	if g.Eval(0.75) != 5 {
		t.Errorf("ramp at t=0.75: expected 5, got %v", g.Eval(0.75))
	}
}

func TestColorGradientLinear(t *testing.T) {
	g := LinearColor(core.Color{R: 0, G: 0, B: 0, A: 1}, core.Color{R: 1, G: 1, B: 1, A: 1})
	mid := g.Eval(0.5)
	if mid.R != 0.5 || mid.G != 0.5 || mid.B != 0.5 {
		t.Errorf("color gradient midpoint: expected (0.5,0.5,0.5), got (%v,%v,%v)", mid.R, mid.G, mid.B)
	}
}

func TestFloatGradientFunc(t *testing.T) {
	g := FloatGradient{Kind: GradientFunc, Func: func(t float32) float32 { return t * t }}
	if g.Eval(0.5) != 0.25 {
		t.Errorf("func gradient at t=0.5: expected 0.25, got %v", g.Eval(0.5))
	}
}
