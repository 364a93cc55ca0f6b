package ui

import "testing"

func TestGridPlacesCellsRowMajor(t *testing.T) {
	root := NewGridContainer("grid", 2, 2)

	var cells []*UIComponent
	for i := 0; i < 4; i++ {
		c := NewUIComponent("cell")
		root.AddChild(c)
		cells = append(cells, c)
	}

	Compile(root.UIComponent, 200, 200, 16)

	if cells[0].Compiled.X != 0 || cells[0].Compiled.Y != 0 {
		t.Errorf("cell 0: expected (0,0), got (%v,%v)", cells[0].Compiled.X, cells[0].Compiled.Y)
	}
	if cells[1].Compiled.X != 100 || cells[1].Compiled.Y != 0 {
		t.Errorf("cell 1: expected (100,0), got (%v,%v)", cells[1].Compiled.X, cells[1].Compiled.Y)
	}
	if cells[2].Compiled.X != 0 || cells[2].Compiled.Y != 100 {
		t.Errorf("cell 2: expected (0,100), got (%v,%v)", cells[2].Compiled.X, cells[2].Compiled.Y)
	}
	if cells[0].Compiled.Width != 100 || cells[0].Compiled.Height != 100 {
		t.Errorf("cell 0 size: expected 100x100, got %vx%v", cells[0].Compiled.Width, cells[0].Compiled.Height)
	}
}

func TestGridOverflowHidesExtraChildren(t *testing.T) {
	root := NewGridContainer("grid", 1, 1)
	a := NewUIComponent("a")
	b := NewUIComponent("b")
	root.AddChild(a)
	root.AddChild(b)

	Compile(root.UIComponent, 100, 100, 16)

	if !a.Visible {
		t.Error("cell a: expected to remain visible")
	}
	if b.Visible {
		t.Error("cell b: expected to be hidden, grid only has 1 cell")
	}
}

func TestGridGapReducesCellSize(t *testing.T) {
	root := NewGridContainer("grid", 2, 1)
	root.ColumnGap = Px(20)
	a := NewUIComponent("a")
	b := NewUIComponent("b")
	root.AddChild(a)
	root.AddChild(b)

	Compile(root.UIComponent, 220, 100, 16)

	if a.Compiled.Width != 100 {
		t.Errorf("cell width with gap: expected 100, got %v", a.Compiled.Width)
	}
	if b.Compiled.X != 120 {
		t.Errorf("cell b.X: expected 120 (100 + 20 gap), got %v", b.Compiled.X)
	}
}
