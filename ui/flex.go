package ui

// Direction is the main axis a FlexContainer lays its children along.
type Direction int

const (
	Row Direction = iota
	RowReverse
	Column
	ColumnReverse
)

// Justify distributes free space along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align positions (or stretches) children along the cross axis.
type Align int

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenterCross
	AlignStretch
)

// FlexContainer arranges its children along one axis, CSS-flexbox style.
type FlexContainer struct {
	*UIComponent

	Direction Direction
	Justify   Justify
	Align     Align
	Gap       UISize
}

// NewFlexContainer returns a row-direction, start-justified, stretch-
// aligned FlexContainer with no gap.
func NewFlexContainer(name string) *FlexContainer {
	f := &FlexContainer{
		UIComponent: NewUIComponent(name),
		Direction:   Row,
		Justify:     JustifyStart,
		Align:       AlignStretch,
		Gap:         Px(0),
	}
	f.SetSelf(f)
	return f
}

func (f *FlexContainer) isRow() bool {
	return f.Direction == Row || f.Direction == RowReverse
}

func (f *FlexContainer) isReverse() bool {
	return f.Direction == RowReverse || f.Direction == ColumnReverse
}

// applyChildLayout implements layoutApplier: it positions and sizes
// every child along the main/cross axes, then recurses Compile into
// each — satisfying the layoutApplier contract from compiler.go.
func (f *FlexContainer) applyChildLayout(vw, vh, rootFontSize float32) {
	children := f.Children
	n := len(children)
	if n == 0 {
		return
	}

	mainSize := f.Compiled.Width
	crossSize := f.Compiled.Height
	if !f.isRow() {
		mainSize, crossSize = f.Compiled.Height, f.Compiled.Width
	}

	mainCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: f.Compiled.FontSize, ParentSize: mainSize}
	crossCtx := ResolveContext{ViewportW: vw, ViewportH: vh, RootFontSize: rootFontSize, FontSize: f.Compiled.FontSize, ParentSize: crossSize}
	mainAxis, crossAxis := AxisWidth, AxisHeight
	if !f.isRow() {
		mainAxis, crossAxis = AxisHeight, AxisWidth
	}

	gap := f.Gap.Resolve(mainAxis, mainCtx)

	mainBasis := make([]float32, n)
	crossBasis := make([]float32, n)
	var totalMain float32
	for i, child := range children {
		if f.isRow() {
			mainBasis[i] = child.Width.Resolve(mainAxis, mainCtx)
			crossBasis[i] = child.Height.Resolve(crossAxis, crossCtx)
		} else {
			mainBasis[i] = child.Height.Resolve(mainAxis, mainCtx)
			crossBasis[i] = child.Width.Resolve(crossAxis, crossCtx)
		}
		totalMain += mainBasis[i]
	}
	totalMain += gap * float32(n-1)
	free := mainSize - totalMain
	if free < 0 {
		free = 0
	}

	var offset, spacing float32
	switch f.Justify {
	case JustifyEnd:
		offset = free
	case JustifyCenter:
		offset = free / 2
	case JustifySpaceBetween:
		if n > 1 {
			spacing = free / float32(n-1)
		} else {
			offset = free / 2
		}
	case JustifySpaceAround:
		spacing = free / float32(n)
		offset = spacing / 2
	case JustifySpaceEvenly:
		spacing = free / float32(n+1)
		offset = spacing
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if f.isReverse() {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	cursor := offset
	for _, idx := range order {
		child := children[idx]
		childMain := mainBasis[idx]
		childCross := crossBasis[idx]

		var crossOffset float32
		switch f.Align {
		case AlignEnd:
			crossOffset = crossSize - childCross
		case AlignCenterCross:
			crossOffset = (crossSize - childCross) / 2
		case AlignStretch:
			crossOffset = 0
			childCross = crossSize
		}

		if f.isRow() {
			child.X = Px(cursor)
			child.Y = Px(crossOffset)
			child.SetWidth(Px(childMain))
			if f.Align == AlignStretch {
				child.SetHeight(Px(childCross))
			}
		} else {
			child.Y = Px(cursor)
			child.X = Px(crossOffset)
			child.SetHeight(Px(childMain))
			if f.Align == AlignStretch {
				child.SetWidth(Px(childCross))
			}
		}

		cursor += childMain + gap + spacing
		Compile(child, vw, vh, rootFontSize)
	}
}
