package ui

// Compile resolves c's authored constraints into Compiled pixel values,
// then recurses into children. The per-component order is fixed:
// font_size, then width, then height, then x, then y — each later field
// may depend on an earlier one via EM/percent, so the order matters.
// Min/max clamps apply before any aspect-ratio derivation; if an aspect
// ratio is set, the derived dimension is clamped again afterward.
//
// vw/vh are the viewport dimensions; rootFontSize is the document root's
// font size (REM basis). Containers that arrange children (Flex, Grid)
// must set each child's X/Y/Width/Height authored fields to the
// container-computed values before calling Compile on that child — see
// flex.go/grid.go.
func Compile(c *UIComponent, vw, vh, rootFontSize float32) {
	parentW, parentH := vw, vh
	parentFontSize := rootFontSize
	if c.Parent != nil {
		parentW = c.Parent.Compiled.Width
		parentH = c.Parent.Compiled.Height
		parentFontSize = c.Parent.Compiled.FontSize
	}

	// font_size
	fsCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: parentFontSize, ParentSize: parentFontSize}
	c.Compiled.FontSize = c.FontSizeAuthored.Resolve(AxisWidth, fsCtx)

	widthCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: c.Compiled.FontSize, ParentSize: parentW}
	heightCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: c.Compiled.FontSize, ParentSize: parentH}

	// width
	w := c.Width.Resolve(AxisWidth, widthCtx)
	w = clampSize(w, c.MinWidth, c.MaxWidth, AxisWidth, widthCtx)

	// height
	h := c.Height.Resolve(AxisHeight, heightCtx)
	h = clampSize(h, c.MinHeight, c.MaxHeight, AxisHeight, heightCtx)

	// aspect ratio: only the axis the caller never authored is derived.
	// If both are authored, both are respected as-is; if neither is
	// (the NewUIComponent 100%/100% default), width drives height.
	if c.AspectRatio != nil && *c.AspectRatio > 0 {
		switch {
		case c.HeightAuthored && !c.WidthAuthored:
			w = h * *c.AspectRatio
			w = clampSize(w, c.MinWidth, c.MaxWidth, AxisWidth, widthCtx)
		case c.WidthAuthored && c.HeightAuthored:
			// both explicit: leave as resolved, no derivation
		default:
			h = w / *c.AspectRatio
			h = clampSize(h, c.MinHeight, c.MaxHeight, AxisHeight, heightCtx)
		}
	}

	c.Compiled.Width = w
	c.Compiled.Height = h

	// x, y — resolved against the parent's ORIGIN-relative size; percent
	// of x/y is conventionally against the parent's width/height too.
	parentX, parentY := float32(0), float32(0)
	if c.Parent != nil {
		parentX = c.Parent.Compiled.X
		parentY = c.Parent.Compiled.Y
	}
	xCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: c.Compiled.FontSize, ParentSize: parentW}
	yCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: c.Compiled.FontSize, ParentSize: parentH}
	c.Compiled.X = parentX + c.X.Resolve(AxisWidth, xCtx)
	c.Compiled.Y = parentY + c.Y.Resolve(AxisHeight, yCtx)

	// Containers (Flex/Grid) place their children's authored X/Y/Width/
	// Height before Compile recurses into them; see layoutApplier below.
	if l, ok := c.Self().(layoutApplier); ok {
		l.applyChildLayout(vw, vh, rootFontSize)
		return
	}

	for _, child := range c.Children {
		Compile(child, vw, vh, rootFontSize)
	}
}

// layoutApplier is implemented by container types (FlexContainer,
// GridContainer) that must position children before Compile recurses.
type layoutApplier interface {
	applyChildLayout(vw, vh, rootFontSize float32)
}

func clampSize(v float32, min, max *UISize, axis Axis, ctx ResolveContext) float32 {
	if min != nil {
		if lo := min.Resolve(axis, ctx); v < lo {
			v = lo
		}
	}
	if max != nil {
		if hi := max.Resolve(axis, ctx); v > hi {
			v = hi
		}
	}
	return v
}
