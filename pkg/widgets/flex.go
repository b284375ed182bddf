package widgets

import (
	"fmt"
	"math"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Axis represents the layout direction.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// String returns a human-readable representation of the axis.
func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// CrossAxisAlignment controls how children are positioned along the cross axis
// (vertical for [Row], horizontal for [Column]).
type CrossAxisAlignment int

const (
	// CrossAxisAlignmentStart places children at the start of the cross axis.
	CrossAxisAlignmentStart CrossAxisAlignment = iota
	// CrossAxisAlignmentCenter centers children along the cross axis.
	CrossAxisAlignmentCenter
	// CrossAxisAlignmentStretch stretches children to fill the cross axis.
	CrossAxisAlignmentStretch
)

// String returns a human-readable representation of the cross axis alignment.
func (a CrossAxisAlignment) String() string {
	switch a {
	case CrossAxisAlignmentStart:
		return "start"
	case CrossAxisAlignmentCenter:
		return "center"
	case CrossAxisAlignmentStretch:
		return "stretch"
	default:
		return fmt.Sprintf("CrossAxisAlignment(%d)", int(a))
	}
}

// Row lays out children horizontally.
//
//	Row{Spacing: 8, Children: []core.Widget{left, Expanded{Child: middle}, right}}
type Row struct {
	core.RenderObjectBase
	Children           []core.Widget
	Spacing            float64
	CrossAxisAlignment CrossAxisAlignment
}

// RowOf creates a Row with the given children.
func RowOf(children ...core.Widget) Row {
	return Row{Children: children}
}

// ChildrenWidgets returns the child widgets.
func (r Row) ChildrenWidgets() []core.Widget {
	return r.Children
}

// CreateRenderObject creates the horizontal flex render box.
func (r Row) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	return newRenderFlex(AxisHorizontal, r.Spacing, r.CrossAxisAlignment)
}

// UpdateRenderObject updates the horizontal flex render box.
func (r Row) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if flex, ok := renderObject.(*renderFlex); ok {
		flex.update(AxisHorizontal, r.Spacing, r.CrossAxisAlignment)
	}
}

// Column lays out children vertically.
type Column struct {
	core.RenderObjectBase
	Children           []core.Widget
	Spacing            float64
	CrossAxisAlignment CrossAxisAlignment
}

// ColumnOf creates a Column with the given children.
func ColumnOf(children ...core.Widget) Column {
	return Column{Children: children}
}

// ChildrenWidgets returns the child widgets.
func (c Column) ChildrenWidgets() []core.Widget {
	return c.Children
}

// CreateRenderObject creates the vertical flex render box.
func (c Column) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	return newRenderFlex(AxisVertical, c.Spacing, c.CrossAxisAlignment)
}

// UpdateRenderObject updates the vertical flex render box.
func (c Column) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if flex, ok := renderObject.(*renderFlex); ok {
		flex.update(AxisVertical, c.Spacing, c.CrossAxisAlignment)
	}
}

// Expanded makes its child fill a share of the free main-axis space of the
// enclosing Row or Column, proportional to Flex (default 1).
type Expanded struct {
	core.RenderObjectBase
	Flex  int
	Child core.Widget
}

// ChildWidget returns the child widget.
func (e Expanded) ChildWidget() core.Widget {
	return e.Child
}

// CreateRenderObject creates the expanded render box.
func (e Expanded) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderExpanded{flex: e.flexFactor()}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject updates the flex factor.
func (e Expanded) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*renderExpanded); ok && box.flex != e.flexFactor() {
		box.flex = e.flexFactor()
		box.MarkNeedsLayout()
	}
}

func (e Expanded) flexFactor() int {
	if e.Flex <= 0 {
		return 1
	}
	return e.Flex
}

type renderExpanded struct {
	singleChildBox
	flex int
}

func (r *renderExpanded) PerformLayout() {
	r.layoutPassThrough()
	if r.child == nil {
		r.SetSize(r.Constraints().Biggest())
	}
}

func (r *renderExpanded) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderExpanded) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}

type renderFlex struct {
	multiChildBox
	direction Axis
	spacing   float64
	cross     CrossAxisAlignment
}

func newRenderFlex(direction Axis, spacing float64, cross CrossAxisAlignment) *renderFlex {
	flex := &renderFlex{direction: direction, spacing: spacing, cross: cross}
	flex.SetSelf(flex)
	return flex
}

func (r *renderFlex) update(direction Axis, spacing float64, cross CrossAxisAlignment) {
	if r.direction == direction && r.spacing == spacing && r.cross == cross {
		return
	}
	r.direction, r.spacing, r.cross = direction, spacing, cross
	r.MarkNeedsLayout()
}

// main and cross split a size along the flex direction.
func (r *renderFlex) main(size graphics.Size) float64 {
	if r.direction == AxisHorizontal {
		return size.Width
	}
	return size.Height
}

func (r *renderFlex) crossOf(size graphics.Size) float64 {
	if r.direction == AxisHorizontal {
		return size.Height
	}
	return size.Width
}

func (r *renderFlex) sizeOf(main, cross float64) graphics.Size {
	if r.direction == AxisHorizontal {
		return graphics.Size{Width: main, Height: cross}
	}
	return graphics.Size{Width: cross, Height: main}
}

func (r *renderFlex) childConstraints(maxCross float64, main *float64, mainMax float64) layout.Constraints {
	var c layout.Constraints
	minCross := 0.0
	if r.cross == CrossAxisAlignmentStretch && maxCross < math.Inf(1) {
		minCross = maxCross
	}
	minMain, maxMain := 0.0, mainMax
	if main != nil {
		minMain, maxMain = *main, *main
	}
	if r.direction == AxisHorizontal {
		c = layout.Constraints{MinWidth: minMain, MaxWidth: maxMain, MinHeight: minCross, MaxHeight: maxCross}
	} else {
		c = layout.Constraints{MinWidth: minCross, MaxWidth: maxCross, MinHeight: minMain, MaxHeight: maxMain}
	}
	return c
}

func (r *renderFlex) PerformLayout() {
	constraints := r.Constraints()
	maxMain := r.main(graphics.Size{Width: constraints.MaxWidth, Height: constraints.MaxHeight})
	maxCross := r.crossOf(graphics.Size{Width: constraints.MaxWidth, Height: constraints.MaxHeight})
	unbounded := math.Inf(1)

	gaps := 0.0
	if len(r.children) > 1 {
		gaps = r.spacing * float64(len(r.children)-1)
	}

	// Inflexible children first, then split the rest among Expanded children.
	used := gaps
	totalFlex := 0
	crossExtent := 0.0
	for _, child := range r.children {
		if expanded, ok := child.(*renderExpanded); ok {
			totalFlex += expanded.flex
			continue
		}
		child.Layout(r.childConstraints(maxCross, nil, unbounded), true)
		used += r.main(child.Size())
		crossExtent = max(crossExtent, r.crossOf(child.Size()))
	}
	if totalFlex > 0 && maxMain < unbounded {
		share := max(maxMain-used, 0) / float64(totalFlex)
		for _, child := range r.children {
			expanded, ok := child.(*renderExpanded)
			if !ok {
				continue
			}
			extent := share * float64(expanded.flex)
			child.Layout(r.childConstraints(maxCross, &extent, extent), true)
			used += extent
			crossExtent = max(crossExtent, r.crossOf(child.Size()))
		}
	} else {
		for _, child := range r.children {
			if _, ok := child.(*renderExpanded); ok {
				child.Layout(r.childConstraints(maxCross, nil, unbounded), true)
				used += r.main(child.Size())
				crossExtent = max(crossExtent, r.crossOf(child.Size()))
			}
		}
	}

	if r.cross == CrossAxisAlignmentStretch && maxCross < unbounded {
		crossExtent = maxCross
	}
	size := constraints.Constrain(r.sizeOf(used, crossExtent))
	crossSize := r.crossOf(size)

	position := 0.0
	for _, child := range r.children {
		crossOffset := 0.0
		if r.cross == CrossAxisAlignmentCenter {
			crossOffset = (crossSize - r.crossOf(child.Size())) / 2
		}
		if r.direction == AxisHorizontal {
			layout.SetChildOffset(child, graphics.Offset{X: position, Y: crossOffset})
		} else {
			layout.SetChildOffset(child, graphics.Offset{X: crossOffset, Y: position})
		}
		position += r.main(child.Size()) + r.spacing
	}
	r.SetSize(size)
}

func (r *renderFlex) Paint(ctx *layout.PaintContext) {
	r.paintChildren(ctx)
}

func (r *renderFlex) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChildrenReverse(position, result)
}
