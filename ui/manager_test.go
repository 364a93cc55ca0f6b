package ui

import "testing"

func TestRenderListSortedByLayerStable(t *testing.T) {
	m := NewManager(800, 600)
	a := NewUIComponent("a")
	a.Layer = 5
	b := NewUIComponent("b")
	b.Layer = 1
	c := NewUIComponent("c")
	c.Layer = 1
	m.Root.AddChild(a)
	m.Root.AddChild(b)
	m.Root.AddChild(c)

	list := m.RenderList()
	if len(list) != 3 {
		t.Fatalf("expected 3 components, got %d", len(list))
	}
	if list[2] != a {
		t.Errorf("expected highest-layer component last, got %v", list[2].Name)
	}
	// b and c share a layer; stable sort keeps their original tree order.
	if list[0] != b || list[1] != c {
		t.Errorf("expected stable order b,c for equal layers, got %v,%v", list[0].Name, list[1].Name)
	}
}

func TestTopHitReturnsHighestLayerMatch(t *testing.T) {
	m := NewManager(800, 600)
	under := NewButton("under", "Under", nil)
	under.Layer = 0
	under.Width, under.Height = Px(200), Px(200)
	over := NewButton("over", "Over", nil)
	over.Layer = 1
	over.Width, over.Height = Px(200), Px(200)
	m.Root.AddChild(under.UIComponent)
	m.Root.AddChild(over.UIComponent)
	m.Compile()

	hit := m.topHit(50, 50)
	btn, ok := hit.(*Button)
	if !ok || btn != over {
		t.Errorf("expected topHit to return the higher-layer button, got %v", hit)
	}
}

func TestTopHitSkipsInvisible(t *testing.T) {
	m := NewManager(800, 600)
	btn := NewButton("btn", "Hidden", nil)
	btn.Width, btn.Height = Px(200), Px(200)
	btn.Visible = false
	m.Root.AddChild(btn.UIComponent)
	m.Compile()

	if hit := m.topHit(10, 10); hit != nil {
		t.Errorf("expected no hit on invisible component, got %v", hit)
	}
}

func TestDropdownOpenRaisesOptionRowLayers(t *testing.T) {
	d := NewDropdown("dd", []string{"a", "b", "c"}, nil)
	d.SetOpen(true)

	for i, row := range d.optionRows {
		if row.Layer != dropdownOpenLayer {
			t.Errorf("option row %d: expected layer %d while open, got %d", i, dropdownOpenLayer, row.Layer)
		}
		if !row.Visible {
			t.Errorf("option row %d: expected visible while open", i)
		}
	}

	d.SetOpen(false)
	for i, row := range d.optionRows {
		if row.Layer != dropdownBaseLayer {
			t.Errorf("option row %d: expected layer restored to %d on close, got %d", i, dropdownBaseLayer, row.Layer)
		}
		if row.Visible {
			t.Errorf("option row %d: expected hidden once closed", i)
		}
	}
}

func TestDropdownSelectIndexClosesAndFires(t *testing.T) {
	var gotIndex int
	var gotValue string
	d := NewDropdown("dd", []string{"low", "medium", "high"}, func(i int, v string) {
		gotIndex, gotValue = i, v
	})
	d.SetOpen(true)

	d.SelectIndex(2)

	if d.Open {
		t.Error("expected dropdown to close after selection")
	}
	if gotIndex != 2 || gotValue != "high" {
		t.Errorf("expected OnChange(2, \"high\"), got OnChange(%d, %q)", gotIndex, gotValue)
	}
}

func TestSliderSetValueFromXClampsToTrack(t *testing.T) {
	var lastValue float32
	s := NewSlider("s", 0, 100, 0, func(v float32) { lastValue = v })
	s.Compiled.X = 0
	s.Compiled.Width = 200

	s.SetValueFromX(-50) // left of the track
	if s.Value != 0 {
		t.Errorf("expected clamp to Min=0, got %v", s.Value)
	}

	s.SetValueFromX(100) // halfway along the track
	if s.Value != 50 {
		t.Errorf("expected 50 at track midpoint, got %v", s.Value)
	}
	if lastValue != 50 {
		t.Errorf("expected OnChange fired with 50, got %v", lastValue)
	}
}
