package ui

import "testing"

func TestCompileRootPercent(t *testing.T) {
	root := NewUIComponent("root")
	Compile(root, 1920, 1080, 16)

	if root.Compiled.Width != 1920 || root.Compiled.Height != 1080 {
		t.Errorf("root: expected 1920x1080, got %vx%v", root.Compiled.Width, root.Compiled.Height)
	}
}

func TestCompileChildPercentOfParent(t *testing.T) {
	root := NewUIComponent("root")
	child := NewUIComponent("child")
	child.Width = Percent(50)
	child.Height = Percent(50)
	root.AddChild(child)

	Compile(root, 1000, 800, 16)

	if child.Compiled.Width != 500 {
		t.Errorf("child width: expected 500, got %v", child.Compiled.Width)
	}
	if child.Compiled.Height != 400 {
		t.Errorf("child height: expected 400, got %v", child.Compiled.Height)
	}
}

func TestCompileMinMaxClamp(t *testing.T) {
	root := NewUIComponent("root")
	child := NewUIComponent("child")
	child.Width = Percent(90)
	maxW := Px(300)
	child.MaxWidth = &maxW
	root.AddChild(child)

	Compile(root, 1000, 800, 16)

	if child.Compiled.Width != 300 {
		t.Errorf("clamped width: expected 300, got %v", child.Compiled.Width)
	}
}

func TestCompileAspectRatioDerivesHeightWhenOnlyWidthAuthored(t *testing.T) {
	root := NewUIComponent("root")
	child := NewUIComponent("child")
	child.SetWidth(Px(200))
	ratio := float32(2)
	child.AspectRatio = &ratio
	root.AddChild(child)

	Compile(root, 1000, 800, 16)

	if child.Compiled.Height != 100 {
		t.Errorf("aspect height: expected 100, got %v", child.Compiled.Height)
	}
}

func TestCompileAspectRatioDerivesWidthWhenOnlyHeightAuthored(t *testing.T) {
	root := NewUIComponent("root")
	child := NewUIComponent("child")
	child.SetHeight(Px(100))
	ratio := float32(2)
	child.AspectRatio = &ratio
	root.AddChild(child)

	Compile(root, 1000, 800, 16)

	if child.Compiled.Width != 200 {
		t.Errorf("aspect width: expected 200, got %v", child.Compiled.Width)
	}
}

func TestCompileAspectRatioRespectsBothAuthoredDimensions(t *testing.T) {
	root := NewUIComponent("root")
	child := NewUIComponent("child")
	child.SetWidth(Px(200))
	child.SetHeight(Px(999))
	ratio := float32(2)
	child.AspectRatio = &ratio
	root.AddChild(child)

	Compile(root, 1000, 800, 16)

	if child.Compiled.Height != 999 {
		t.Errorf("both authored: expected height to stay 999, got %v", child.Compiled.Height)
	}
}

func TestCompileXYAreRelativeToParent(t *testing.T) {
	root := NewUIComponent("root")
	child := NewUIComponent("child")
	child.X = Px(50)
	child.Y = Px(30)
	root.AddChild(child)

	root.X = Px(10)
	root.Y = Px(20)
	Compile(root, 1000, 800, 16)

	if child.Compiled.X != 60 || child.Compiled.Y != 50 {
		t.Errorf("child origin: expected (60,50), got (%v,%v)", child.Compiled.X, child.Compiled.Y)
	}
}
