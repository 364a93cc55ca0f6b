// Package ui implements the engine's responsive, CSS-like retained UI:
// typed units, a small arithmetic calc language, a constraint compiler,
// flex/grid containers, and a layer-ordered manager that owns hit
// testing and the handful of interactive widgets (button, slider,
// checkbox, dropdown).
package ui

// Unit is the kind of length a UISize carries.
type Unit int

const (
	PX      Unit = iota // absolute pixels
	PERCENT             // percentage of the parent's compiled size on the same axis
	VW                  // percentage of the viewport width
	VH                  // percentage of the viewport height
	REM                 // multiple of the root font size
	EM                  // multiple of this component's own compiled font size
)

// Axis selects which compiled dimension a UISize resolves against.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

// UISize is a single typed length: either a literal (Unit, Value) pair
// or a UICalc expression tree. Exactly one of Calc or (Unit, Value) is
// meaningful at a time — Calc takes precedence when non-nil.
type UISize struct {
	Unit  Unit
	Value float32
	Calc  *UICalc
}

// Px, Percent, VWUnit, VHUnit, Rem, Em are literal constructors.
func Px(v float32) UISize      { return UISize{Unit: PX, Value: v} }
func Percent(v float32) UISize { return UISize{Unit: PERCENT, Value: v} }
func VwUnit(v float32) UISize  { return UISize{Unit: VW, Value: v} }
func VhUnit(v float32) UISize  { return UISize{Unit: VH, Value: v} }
func Rem(v float32) UISize     { return UISize{Unit: REM, Value: v} }
func Em(v float32) UISize      { return UISize{Unit: EM, Value: v} }

// CalcSize wraps a UICalc expression as a UISize.
func CalcSize(c *UICalc) UISize { return UISize{Calc: c} }

// ResolveContext carries the values a UISize's resolution rule needs.
type ResolveContext struct {
	ViewportW, ViewportH float32
	ParentSize           float32 // parent's compiled size on the same axis
	RootFontSize         float32
	FontSize             float32 // this component's own compiled font size (for EM)
}

// Resolve converts a UISize to absolute pixels for the given axis.
func (s UISize) Resolve(axis Axis, ctx ResolveContext) float32 {
	if s.Calc != nil {
		return s.Calc.Eval(axis, ctx)
	}
	return resolveLiteral(s.Unit, s.Value, axis, ctx)
}

func resolveLiteral(u Unit, v float32, axis Axis, ctx ResolveContext) float32 {
	switch u {
	case PX:
		return v
	case PERCENT:
		return ctx.ParentSize * v / 100
	case VW:
		return ctx.ViewportW * v / 100
	case VH:
		return ctx.ViewportH * v / 100
	case REM:
		return ctx.RootFontSize * v
	case EM:
		return ctx.FontSize * v
	default:
		return 0
	}
}
