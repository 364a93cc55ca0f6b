package ui

// GridContainer arranges children into a fixed Columns x Rows grid of
// equal-size cells, filling row-major. Distinct from scene.Grid, which
// is a world-space mesh helper for the 3D floor grid.
type GridContainer struct {
	*UIComponent

	Columns, Rows int
	ColumnGap     UISize
	RowGap        UISize
}

// NewGridContainer returns a GridContainer with the given cell counts
// and no gap.
func NewGridContainer(name string, columns, rows int) *GridContainer {
	g := &GridContainer{
		UIComponent: NewUIComponent(name),
		Columns:     columns,
		Rows:        rows,
		ColumnGap:   Px(0),
		RowGap:      Px(0),
	}
	g.SetSelf(g)
	return g
}

// applyChildLayout implements layoutApplier: children are placed
// row-major into equal-size cells, then Compile recurses into each.
func (g *GridContainer) applyChildLayout(vw, vh, rootFontSize float32) {
	if g.Columns <= 0 || g.Rows <= 0 || len(g.Children) == 0 {
		return
	}

	widthCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: g.Compiled.FontSize, ParentSize: g.Compiled.Width}
	heightCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: g.Compiled.FontSize, ParentSize: g.Compiled.Height}

	colGap := g.ColumnGap.Resolve(AxisWidth, widthCtx)
	rowGap := g.RowGap.Resolve(AxisHeight, heightCtx)

	cellW := (g.Compiled.Width - colGap*float32(g.Columns-1)) / float32(g.Columns)
	cellH := (g.Compiled.Height - rowGap*float32(g.Rows-1)) / float32(g.Rows)
	if cellW < 0 {
		cellW = 0
	}
	if cellH < 0 {
		cellH = 0
	}

	maxCells := g.Columns * g.Rows
	for i, child := range g.Children {
		if i >= maxCells {
			child.Visible = false
			continue
		}
		col := i % g.Columns
		row := i / g.Columns

		child.X = Px(float32(col) * (cellW + colGap))
		child.Y = Px(float32(row) * (cellH + rowGap))
		child.SetWidth(Px(cellW))
		child.SetHeight(Px(cellH))

		Compile(child, vw, vh, rootFontSize)
	}
}
