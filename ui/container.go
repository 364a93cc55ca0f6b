package ui

// Container is a plain grouping component with no layout behavior of
// its own — used as-is when children author their own X/Y, or embedded
// by FlexContainer/GridContainer which add an applyChildLayout pass.
type Container struct {
	*UIComponent
}

// NewContainer returns an empty Container.
func NewContainer(name string) *Container {
	c := &Container{UIComponent: NewUIComponent(name)}
	c.SetSelf(c)
	return c
}
