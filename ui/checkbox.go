package ui

import "render-engine/core"

// Checkbox is a toggle with a label. OnChange fires with the new value
// after Manager flips Checked on a left mouse press.
type Checkbox struct {
	*UIComponent

	Label   string
	Checked bool
	Hovered bool

	BoxColor   core.Color
	CheckColor core.Color

	OnChange func(checked bool)
}

// NewCheckbox returns an unchecked Checkbox.
func NewCheckbox(name, label string, onChange func(bool)) *Checkbox {
	c := &Checkbox{
		UIComponent: NewUIComponent(name),
		Label:       label,
		BoxColor:    core.Color{R: 0.25, G: 0.25, B: 0.28, A: 1},
		CheckColor:  core.ColorWhite,
		OnChange:    onChange,
	}
	c.SetSelf(c)
	return c
}

// Toggle flips Checked and invokes OnChange, if set.
func (c *Checkbox) Toggle() {
	c.Checked = !c.Checked
	if c.OnChange != nil {
		c.OnChange(c.Checked)
	}
}
