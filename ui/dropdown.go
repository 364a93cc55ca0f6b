package ui

import "render-engine/core"

// dropdownBaseLayer/dropdownOpenLayer are the layer values a Dropdown
// sits at closed vs. open. Opening bumps the component (and its option
// rows) above ordinary content so the expanded list isn't occluded by
// later siblings; Manager restores dropdownBaseLayer on close.
const (
	dropdownBaseLayer = 200
	dropdownOpenLayer = 300
)

// Dropdown is a single-select popup list. Its option rows are ordinary
// child UIComponents (one per option, stacked vertically below the
// header) that only participate in hit-testing and rendering while Open
// is true.
type Dropdown struct {
	*UIComponent

	Options  []string
	Selected int // index into Options, -1 if none

	Open    bool
	Hovered bool

	HeaderColor core.Color
	OptionColor core.Color
	OptionHoverColor core.Color
	TextColor core.Color

	OnChange func(index int, value string)

	optionRows []*UIComponent
}

// NewDropdown returns a closed Dropdown over options, selecting index 0
// by default (or -1 if options is empty).
func NewDropdown(name string, options []string, onChange func(int, string)) *Dropdown {
	d := &Dropdown{
		UIComponent:      NewUIComponent(name),
		Options:          options,
		Selected:         -1,
		HeaderColor:      core.Color{R: 0.25, G: 0.25, B: 0.28, A: 1},
		OptionColor:      core.Color{R: 0.2, G: 0.2, B: 0.22, A: 1},
		OptionHoverColor: core.Color{R: 0.3, G: 0.3, B: 0.34, A: 1},
		TextColor:        core.ColorWhite,
		OnChange:         onChange,
	}
	if len(options) > 0 {
		d.Selected = 0
	}
	d.Layer = dropdownBaseLayer
	d.SetSelf(d)
	d.rebuildOptionRows()
	return d
}

func (d *Dropdown) rebuildOptionRows() {
	for _, row := range d.optionRows {
		d.RemoveChild(row)
	}
	d.optionRows = d.optionRows[:0]
	for i := range d.Options {
		row := NewUIComponent("option")
		row.SetHeight(Px(28))
		row.Y = Px(float32(28 * (i + 1)))
		row.Visible = d.Open
		row.Layer = d.Layer
		d.AddChild(row)
		d.optionRows = append(d.optionRows, row)
	}
}

// SelectedValue returns the currently selected option, or "" if none.
func (d *Dropdown) SelectedValue() string {
	if d.Selected < 0 || d.Selected >= len(d.Options) {
		return ""
	}
	return d.Options[d.Selected]
}

// SetOpen toggles the expanded state and bumps/restores Layer so the
// option list draws (and hit-tests) above ordinary content while open.
func (d *Dropdown) SetOpen(open bool) {
	d.Open = open
	layer := dropdownBaseLayer
	if open {
		layer = dropdownOpenLayer
	}
	d.Layer = layer
	for _, row := range d.optionRows {
		row.Layer = layer
		row.Visible = open
	}
}

// SelectIndex sets Selected, closes the dropdown, and fires OnChange.
func (d *Dropdown) SelectIndex(i int) {
	if i < 0 || i >= len(d.Options) {
		return
	}
	d.Selected = i
	d.SetOpen(false)
	if d.OnChange != nil {
		d.OnChange(i, d.Options[i])
	}
}

// OptionRow returns the child UIComponent backing option index i, or nil.
func (d *Dropdown) OptionRow(i int) *UIComponent {
	if i < 0 || i >= len(d.optionRows) {
		return nil
	}
	return d.optionRows[i]
}
