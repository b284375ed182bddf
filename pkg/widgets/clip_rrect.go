package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// ClipRRect clips its child to its own bounds with rounded corners.
// A zero Radius clips to a plain rectangle.
type ClipRRect struct {
	core.RenderObjectBase
	Radius float64
	Child  core.Widget
}

// ChildWidget returns the child widget.
func (c ClipRRect) ChildWidget() core.Widget {
	return c.Child
}

// CreateRenderObject creates the clip render box.
func (c ClipRRect) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderClipRRect{radius: max(c.Radius, 0)}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject updates the clip render box.
func (c ClipRRect) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	box, ok := renderObject.(*renderClipRRect)
	if !ok {
		return
	}
	if radius := max(c.Radius, 0); box.radius != radius {
		box.radius = radius
		box.MarkNeedsPaint()
	}
}

type renderClipRRect struct {
	singleChildBox
	radius float64
}

// CornerRadius returns the corner radius of the clip.
func (r *renderClipRRect) CornerRadius() float64 {
	return r.radius
}

func (r *renderClipRRect) PerformLayout() {
	r.layoutPassThrough()
}

func (r *renderClipRRect) Paint(ctx *layout.PaintContext) {
	if r.child == nil {
		return
	}
	ctx.Canvas.Save()
	ctx.Canvas.ClipRRect(graphics.RectFromOffsetAndSize(graphics.Offset{}, r.Size()), r.radius)
	r.paintChild(ctx)
	ctx.Canvas.Restore()
}

func (r *renderClipRRect) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}
