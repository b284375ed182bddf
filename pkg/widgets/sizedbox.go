package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// SizedBox constrains its child to a specific width and/or height.
// A zero dimension is unset and follows the child (or the minimum constraint
// when there is no child).
//
//	SizedBox{Width: 100, Height: 50, Child: child}
//	SizedBox{Height: 24} // vertical spacer
type SizedBox struct {
	core.RenderObjectBase
	Width  float64
	Height float64
	Child  core.Widget
}

// ChildWidget returns the child widget.
func (s SizedBox) ChildWidget() core.Widget {
	return s.Child
}

// CreateRenderObject creates the sized render box.
func (s SizedBox) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderSizedBox{width: s.Width, height: s.Height}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject updates the sized render box.
func (s SizedBox) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*renderSizedBox); ok && (box.width != s.Width || box.height != s.Height) {
		box.width = s.Width
		box.height = s.Height
		box.MarkNeedsLayout()
	}
}

type renderSizedBox struct {
	singleChildBox
	width  float64
	height float64
}

func (r *renderSizedBox) PerformLayout() {
	constraints := r.Constraints().Tighten(dimension(r.width), dimension(r.height))
	if r.child == nil {
		r.SetSize(constraints.Smallest())
		return
	}
	r.child.Layout(constraints, true)
	layout.SetChildOffset(r.child, graphics.Offset{})
	r.SetSize(constraints.Constrain(r.child.Size()))
}

func (r *renderSizedBox) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderSizedBox) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}

// dimension returns nil for an unset (zero or negative) size.
func dimension(value float64) *float64 {
	if value <= 0 {
		return nil
	}
	return &value
}
