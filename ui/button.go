package ui

import "render-engine/core"

// Button is a clickable rectangle with a label and three visual states:
// idle, hovered, and pressed. State transitions are driven by Manager
// during hit-testing; Button itself just holds the colors and the
// callback.
type Button struct {
	*UIComponent

	Label string
	TextColor core.Color

	IdleColor    core.Color
	HoverColor   core.Color
	PressedColor core.Color

	Hovered  bool
	Pressed  bool
	Disabled bool

	OnClick func()
}

// NewButton returns a Button with neutral slate-gray default colors.
func NewButton(name, label string, onClick func()) *Button {
	b := &Button{
		UIComponent:  NewUIComponent(name),
		Label:        label,
		TextColor:    core.ColorWhite,
		IdleColor:    core.Color{R: 0.25, G: 0.25, B: 0.28, A: 1},
		HoverColor:   core.Color{R: 0.32, G: 0.32, B: 0.36, A: 1},
		PressedColor: core.Color{R: 0.18, G: 0.18, B: 0.2, A: 1},
		OnClick:      onClick,
	}
	b.SetSelf(b)
	return b
}

// CurrentColor returns the background color for the button's present
// state (pressed beats hovered beats idle).
func (b *Button) CurrentColor() core.Color {
	switch {
	case b.Disabled:
		return b.IdleColor
	case b.Pressed:
		return b.PressedColor
	case b.Hovered:
		return b.HoverColor
	default:
		return b.IdleColor
	}
}
