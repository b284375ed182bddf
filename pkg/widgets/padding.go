package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Padding insets its child by the given EdgeInsets.
type Padding struct {
	core.RenderObjectBase
	Padding layout.EdgeInsets
	Child   core.Widget
}

// ChildWidget returns the child widget.
func (p Padding) ChildWidget() core.Widget {
	return p.Child
}

// CreateRenderObject creates the padding render box.
func (p Padding) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderPadding{padding: p.Padding}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject updates the padding render box.
func (p Padding) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*renderPadding); ok && box.padding != p.Padding {
		box.padding = p.Padding
		box.MarkNeedsLayout()
	}
}

type renderPadding struct {
	singleChildBox
	padding layout.EdgeInsets
}

func (r *renderPadding) PerformLayout() {
	constraints := r.Constraints()
	if r.child == nil {
		r.SetSize(constraints.Constrain(graphics.Size{Width: r.padding.Horizontal(), Height: r.padding.Vertical()}))
		return
	}
	r.child.Layout(constraints.Deflate(r.padding), true)
	layout.SetChildOffset(r.child, graphics.Offset{X: r.padding.Left, Y: r.padding.Top})
	childSize := r.child.Size()
	r.SetSize(constraints.Constrain(graphics.Size{
		Width:  childSize.Width + r.padding.Horizontal(),
		Height: childSize.Height + r.padding.Vertical(),
	}))
}

func (r *renderPadding) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderPadding) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}
