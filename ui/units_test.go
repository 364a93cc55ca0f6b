package ui

import "testing"

func TestResolvePixel(t *testing.T) {
	ctx := ResolveContext{ViewportW: 1920, ViewportH: 1080, ParentSize: 400, RootFontSize: 16, FontSize: 20}
	got := Px(50).Resolve(AxisWidth, ctx)
	if got != 50 {
		t.Errorf("Px: expected 50, got %v", got)
	}
}

func TestResolvePercent(t *testing.T) {
	ctx := ResolveContext{ParentSize: 400}
	got := Percent(50).Resolve(AxisWidth, ctx)
	if got != 200 {
		t.Errorf("Percent: expected 200, got %v", got)
	}
}

func TestResolveViewportUnits(t *testing.T) {
	ctx := ResolveContext{ViewportW: 1920, ViewportH: 1080}
	gotW := VwUnit(50).Resolve(AxisWidth, ctx)
	if gotW != 960 {
		t.Errorf("VwUnit: expected 960, got %v", gotW)
	}
	gotH := VhUnit(25).Resolve(AxisHeight, ctx)
	if gotH != 270 {
		t.Errorf("VhUnit: expected 270, got %v", gotH)
	}
}

func TestResolveRemAndEm(t *testing.T) {
	ctx := ResolveContext{RootFontSize: 16, FontSize: 20}
	gotRem := Rem(2).Resolve(AxisWidth, ctx)
	if gotRem != 32 {
		t.Errorf("Rem: expected 32, got %v", gotRem)
	}
	gotEm := Em(1.5).Resolve(AxisWidth, ctx)
	if gotEm != 30 {
		t.Errorf("Em: expected 30, got %v", gotEm)
	}
}
