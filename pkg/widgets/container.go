package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Container fills its bounds with Color and lays out an optional child
// inside Padding. Width and Height pin the size when non-zero; without them
// a childless container expands to the incoming constraints.
type Container struct {
	core.RenderObjectBase
	Color   graphics.Color
	Width   float64
	Height  float64
	Padding layout.EdgeInsets
	Child   core.Widget
}

// ChildWidget returns the child widget.
func (c Container) ChildWidget() core.Widget {
	return c.Child
}

// CreateRenderObject creates the container render box.
func (c Container) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderContainer{}
	box.SetSelf(box)
	box.update(c)
	return box
}

// UpdateRenderObject updates the container render box.
func (c Container) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*renderContainer); ok {
		box.update(c)
	}
}

type renderContainer struct {
	singleChildBox
	color   graphics.Color
	width   float64
	height  float64
	padding layout.EdgeInsets
}

func (r *renderContainer) update(c Container) {
	if r.width != c.Width || r.height != c.Height || r.padding != c.Padding {
		r.width, r.height, r.padding = c.Width, c.Height, c.Padding
		r.MarkNeedsLayout()
	}
	if r.color != c.Color {
		r.color = c.Color
		r.MarkNeedsPaint()
	}
}

func (r *renderContainer) PerformLayout() {
	constraints := r.Constraints().Tighten(dimension(r.width), dimension(r.height))
	if r.child == nil {
		r.SetSize(constraints.Biggest())
		return
	}
	inner := constraints.Loosen().Deflate(r.padding)
	r.child.Layout(inner, true)
	layout.SetChildOffset(r.child, graphics.Offset{X: r.padding.Left, Y: r.padding.Top})
	childSize := r.child.Size()
	r.SetSize(constraints.Constrain(graphics.Size{
		Width:  childSize.Width + r.padding.Horizontal(),
		Height: childSize.Height + r.padding.Vertical(),
	}))
}

func (r *renderContainer) Paint(ctx *layout.PaintContext) {
	if r.color != graphics.ColorTransparent {
		ctx.Canvas.DrawRect(graphics.RectFromOffsetAndSize(graphics.Offset{}, r.Size()), r.color)
	}
	r.paintChild(ctx)
}

func (r *renderContainer) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	if r.hitTestChild(position, result) {
		return true
	}
	result.Add(r)
	return true
}
