package ui

import "render-engine/core"

// Panel is a plain rectangular container: background, optional border,
// and children. It adds no layout behavior of its own — children keep
// whatever X/Y/Width/Height they author, or are arranged by wrapping
// the Panel's Children in a FlexContainer/GridContainer instead.
type Panel struct {
	*UIComponent

	BorderColor core.Color
	BorderWidth float32
	CornerRadius float32
}

// NewPanel returns a Panel with a fully transparent background (alpha 0)
// and no border.
func NewPanel(name string) *Panel {
	p := &Panel{
		UIComponent: NewUIComponent(name),
	}
	p.SetSelf(p)
	return p
}
