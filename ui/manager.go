package ui

import (
	"sort"

	"render-engine/core"
)

// Manager owns the UI component tree's root, drives layout, and handles
// input dispatch: hit-testing in reverse (highest Layer first) and the
// small amount of state machinery buttons/sliders/dropdowns need
// (press/hover tracking, drag capture, expanded-region click
// consumption).
type Manager struct {
	Root *UIComponent

	ViewportW, ViewportH float32
	RootFontSize         float32

	draggingSlider *Slider
}

// NewManager returns a Manager rooted at a full-viewport Container.
func NewManager(vw, vh float32) *Manager {
	root := NewContainer("root")
	return &Manager{
		Root:         root.UIComponent,
		ViewportW:    vw,
		ViewportH:    vh,
		RootFontSize: 16,
	}
}

// Resize updates the viewport used for the next Compile.
func (m *Manager) Resize(vw, vh float32) {
	m.ViewportW, m.ViewportH = vw, vh
}

// Compile re-resolves the whole tree's layout. Call once per frame
// before rendering or hit-testing (cheap relative to the render itself;
// a full frame recomputes view/projection every frame regardless).
func (m *Manager) Compile() {
	Compile(m.Root, m.ViewportW, m.ViewportH, m.RootFontSize)
}

// RenderList returns every component in the tree (including Root's
// descendants but not Root itself) in back-to-front draw order: a
// stable sort by Layer so equal-layer siblings keep tree order.
func (m *Manager) RenderList() []*UIComponent {
	var list []*UIComponent
	var walk func(c *UIComponent)
	walk = func(c *UIComponent) {
		for _, child := range c.Children {
			list = append(list, child)
			walk(child)
		}
	}
	walk(m.Root)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Layer < list[j].Layer
	})
	return list
}

// HandleInput dispatches mouse state to the tree once per frame, after
// Compile. It must run every frame regardless of a hit so drag capture
// and hover-state resets stay correct.
func (m *Manager) HandleInput(input *core.InputManager) {
	px, py := float32(input.MouseX), float32(input.MouseY)

	if m.draggingSlider != nil {
		if input.MouseDown(core.MouseLeft) {
			m.draggingSlider.SetValueFromX(px)
			return
		}
		m.draggingSlider = nil
	}

	hit := m.topHit(px, py)
	m.resetHoverStates(m.Root)

	switch w := hit.(type) {
	case *Button:
		w.Hovered = true
		if input.MousePressed(core.MouseLeft) {
			w.Pressed = true
		}
		if input.MouseReleased(core.MouseLeft) && w.Pressed {
			w.Pressed = false
			if w.OnClick != nil {
				w.OnClick()
			}
		}
		if !input.MouseDown(core.MouseLeft) {
			w.Pressed = false
		}
	case *Checkbox:
		w.Hovered = true
		if input.MousePressed(core.MouseLeft) {
			w.Toggle()
		}
	case *Slider:
		w.Hovered = true
		if input.MousePressed(core.MouseLeft) {
			m.draggingSlider = w
			w.Dragging = true
			w.SetValueFromX(px)
		}
	case *Dropdown:
		w.Hovered = true
		if input.MousePressed(core.MouseLeft) {
			m.handleDropdownClick(w, px, py)
		}
	default:
		if input.MousePressed(core.MouseLeft) {
			m.closeAllDropdowns(m.Root)
		}
	}
}

// handleDropdownClick toggles the header open/closed, or selects the
// option row the click landed in. An open dropdown's expanded option
// region consumes the click even though those rows sit outside the
// dropdown header's own compiled rectangle — that's why Dropdown raises
// its Layer on open, and why this check happens here rather than via
// plain topHit, which only matches the header box.
func (m *Manager) handleDropdownClick(d *Dropdown, px, py float32) {
	if !d.Open {
		d.SetOpen(true)
		return
	}
	for i, row := range d.optionRows {
		if row.Compiled.Contains(px, py) {
			d.SelectIndex(i)
			return
		}
	}
	d.SetOpen(false)
}

func (m *Manager) closeAllDropdowns(c *UIComponent) {
	if d, ok := c.Self().(*Dropdown); ok {
		d.SetOpen(false)
	}
	for _, child := range c.Children {
		m.closeAllDropdowns(child)
	}
}

func (m *Manager) resetHoverStates(c *UIComponent) {
	switch w := c.Self().(type) {
	case *Button:
		w.Hovered = false
	case *Checkbox:
		w.Hovered = false
	case *Slider:
		w.Hovered = false
	case *Dropdown:
		w.Hovered = false
	}
	for _, child := range c.Children {
		m.resetHoverStates(child)
	}
}

// topHit walks the render list back to front (reverse Layer order) and
// returns the first component whose compiled rectangle contains
// (px, py), or nil. Invisible components never match. A hit on an open
// Dropdown's option row returns the Dropdown itself.
func (m *Manager) topHit(px, py float32) Component {
	list := m.RenderList()
	for i := len(list) - 1; i >= 0; i-- {
		c := list[i]
		if !c.Visible {
			continue
		}
		if c.Compiled.Contains(px, py) {
			if s := c.Self(); s != nil {
				return s
			}
			if c.Parent != nil {
				if d, ok := c.Parent.Self().(*Dropdown); ok && d.Open {
					return d
				}
			}
		}
	}
	return nil
}
