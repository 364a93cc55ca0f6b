package ui

import "render-engine/core"

// Compiled holds the resolved, pixel-space layout of a component after
// Compile runs. All fields are in window space (origin top-left).
type Compiled struct {
	X, Y, Width, Height float32
	FontSize            float32
}

// UIComponent is the common embeddable base for every widget and
// container. Parent is a non-owning back-pointer set by AddChild — it
// exists purely so a child can ask its parent for its compiled size
// during Compile; components do not manage their parent's lifetime.
type UIComponent struct {
	Name string

	// Authored constraints, in whichever units the caller chose.
	Width, Height UISize
	X, Y          UISize
	FontSizeAuthored UISize

	// WidthAuthored/HeightAuthored distinguish an explicitly set Width/
	// Height from the NewUIComponent default (100%): AspectRatio only
	// derives an axis the caller never authored. Set via SetWidth/
	// SetHeight rather than assigning Width/Height directly.
	WidthAuthored, HeightAuthored bool

	MinWidth, MaxWidth   *UISize
	MinHeight, MaxHeight *UISize

	// AspectRatio, if set, re-derives Height from Width (or vice versa
	// if Width is unset) after the initial min/max clamp, then the
	// clamp is re-applied.
	AspectRatio *float32

	Layer int // stable-sort render/hit-test order; higher draws on top

	Visible bool
	Opacity float32

	Background core.Color

	Parent   *UIComponent
	Children []*UIComponent

	Compiled Compiled

	// self lets generic tree walks (Manager's hit-testing, hover-state
	// reset) recover the concrete widget a *UIComponent is embedded in,
	// without a type switch keyed on struct identity. Set once by each
	// widget constructor.
	self Component
}

// SetSelf records the concrete widget that embeds c, so that generic
// tree walks over *UIComponent can type-switch back to it via Self.
func (c *UIComponent) SetSelf(w Component) { c.self = w }

// Self returns the concrete widget set by SetSelf, or nil if c is a
// plain Container/UIComponent with no such wrapper.
func (c *UIComponent) Self() Component { return c.self }

// NewUIComponent returns a component with sane authored defaults
// (100% width/height, opaque, visible, layer 0).
func NewUIComponent(name string) *UIComponent {
	return &UIComponent{
		Name:             name,
		Width:            Percent(100),
		Height:           Percent(100),
		FontSizeAuthored: Px(16),
		Layer:            0,
		Visible:          true,
		Opacity:          1,
		Background:       core.Color{A: 0},
	}
}

// SetWidth authors c's width explicitly, marking it so AspectRatio
// derivation leaves it alone when the height is also authored.
func (c *UIComponent) SetWidth(w UISize) {
	c.Width = w
	c.WidthAuthored = true
}

// SetHeight authors c's height explicitly, marking it so AspectRatio
// derivation leaves it alone when the width is also authored.
func (c *UIComponent) SetHeight(h UISize) {
	c.Height = h
	c.HeightAuthored = true
}

// AddChild appends child and sets its non-owning Parent back-pointer.
// If child already belongs to another parent it is detached first.
func (c *UIComponent) AddChild(child *UIComponent) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = c
	c.Children = append(c.Children, child)
}

// RemoveChild detaches child from c, if present.
func (c *UIComponent) RemoveChild(child *UIComponent) {
	for i, ch := range c.Children {
		if ch == child {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Base returns c itself; widgets embed *UIComponent and expose this so
// generic code (layout, manager) can work against the interface below
// without a type switch per widget kind.
func (c *UIComponent) Base() *UIComponent { return c }

// Component is implemented by every widget/container via an embedded
// *UIComponent.
type Component interface {
	Base() *UIComponent
}

// AABB returns the compiled screen-space rectangle as (minX, minY, maxX, maxY).
func (c *Compiled) AABB() (minX, minY, maxX, maxY float32) {
	return c.X, c.Y, c.X + c.Width, c.Y + c.Height
}

// Contains reports whether (px, py) is within the compiled rectangle.
func (c *Compiled) Contains(px, py float32) bool {
	minX, minY, maxX, maxY := c.AABB()
	return px >= minX && px <= maxX && py >= minY && py <= maxY
}
