package ui

import "render-engine/core"

// Slider is a horizontal drag control over [Min, Max]. While the user
// drags, Manager holds drag-capture so the pointer can move outside the
// track's compiled bounds without losing the gesture; SetValueFromX
// converts a screen-space x coordinate into a clamped Value and fires
// OnChange on every change.
type Slider struct {
	*UIComponent

	Min, Max, Value float32

	TrackColor core.Color
	FillColor  core.Color
	HandleColor core.Color

	Dragging bool
	Hovered  bool

	OnChange func(value float32)
}

// NewSlider returns a Slider over [min, max] starting at value (clamped).
func NewSlider(name string, min, max, value float32, onChange func(float32)) *Slider {
	s := &Slider{
		UIComponent: NewUIComponent(name),
		Min:         min,
		Max:         max,
		TrackColor:  core.Color{R: 0.2, G: 0.2, B: 0.22, A: 1},
		FillColor:   core.Color{R: 0.4, G: 0.55, B: 0.9, A: 1},
		HandleColor: core.ColorWhite,
		OnChange:    onChange,
	}
	s.SetSelf(s)
	s.SetValue(value)
	return s
}

// SetValue clamps v to [Min, Max], stores it, and fires OnChange if the
// value actually changed.
func (s *Slider) SetValue(v float32) {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if v == s.Value {
		s.Value = v
		return
	}
	s.Value = v
	if s.OnChange != nil {
		s.OnChange(v)
	}
}

// SetValueFromX maps a screen-space x coordinate within the slider's
// compiled track to a value in [Min, Max].
func (s *Slider) SetValueFromX(px float32) {
	w := s.Compiled.Width
	if w <= 0 {
		return
	}
	frac := (px - s.Compiled.X) / w
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	s.SetValue(s.Min + frac*(s.Max-s.Min))
}

// Fraction returns Value normalized to [0, 1] for rendering the fill/handle.
func (s *Slider) Fraction() float32 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}
