package ui

import "render-engine/core"

// TextAlign names a horizontal alignment for a Label's text within its
// compiled box. The pipeline's UI stage does not apply it.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Label holds a line of text. It has no interactive behavior. The
// pipeline's UI stage draws Text from the box's left edge; Align, Wrap and
// AutoSize are stored but not read there, so text is not aligned, wrapped
// or measured. Width/Height are authored like any other component.
type Label struct {
	*UIComponent

	Text      string
	Color     core.Color
	Align     TextAlign
	Wrap      bool
	AutoSize  bool // stored only; nothing measures text into Width/Height
}

// NewLabel returns a Label with 100% width, zero height and white
// left-aligned text.
func NewLabel(name, text string) *Label {
	l := &Label{
		UIComponent: NewUIComponent(name),
		Text:        text,
		Color:       core.ColorWhite,
		Align:       AlignLeft,
	}
	l.Height = Px(0)
	l.AutoSize = true
	l.SetSelf(l)
	return l
}
