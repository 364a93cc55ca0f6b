package ui

import "testing"

func TestFlexRowDistributesAlongMainAxis(t *testing.T) {
	root := NewFlexContainer("row")
	root.Direction = Row
	root.Justify = JustifyStart
	root.Gap = Px(10)

	a := NewUIComponent("a")
	a.Width = Px(100)
	b := NewUIComponent("b")
	b.Width = Px(100)
	root.AddChild(a)
	root.AddChild(b)

	Compile(root.UIComponent, 1000, 500, 16)

	if a.Compiled.X != 0 {
		t.Errorf("a.X: expected 0, got %v", a.Compiled.X)
	}
	if b.Compiled.X != 110 {
		t.Errorf("b.X: expected 110 (100 + 10 gap), got %v", b.Compiled.X)
	}
}

func TestFlexJustifyCenter(t *testing.T) {
	root := NewFlexContainer("row")
	root.Justify = JustifyCenter

	a := NewUIComponent("a")
	a.Width = Px(200)
	root.AddChild(a)

	Compile(root.UIComponent, 1000, 500, 16)

	// free space = 1000 - 200 = 800, centered offset = 400
	if a.Compiled.X != 400 {
		t.Errorf("centered a.X: expected 400, got %v", a.Compiled.X)
	}
}

func TestFlexAlignStretchFillsCrossAxis(t *testing.T) {
	root := NewFlexContainer("row")
	root.Align = AlignStretch

	a := NewUIComponent("a")
	a.Width = Px(100)
	a.Height = Px(10) // should be overridden by stretch
	root.AddChild(a)

	Compile(root.UIComponent, 1000, 500, 16)

	if a.Compiled.Height != 500 {
		t.Errorf("stretched a.Height: expected 500, got %v", a.Compiled.Height)
	}
}

func TestFlexColumnDirection(t *testing.T) {
	root := NewFlexContainer("col")
	root.Direction = Column

	a := NewUIComponent("a")
	a.Height = Px(50)
	b := NewUIComponent("b")
	b.Height = Px(50)
	root.AddChild(a)
	root.AddChild(b)

	Compile(root.UIComponent, 400, 400, 16)

	if a.Compiled.Y != 0 || b.Compiled.Y != 50 {
		t.Errorf("column stacking: expected a.Y=0 b.Y=50, got a.Y=%v b.Y=%v", a.Compiled.Y, b.Compiled.Y)
	}
}
