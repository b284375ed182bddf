package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Center expands to the incoming constraints and centers its child.
type Center struct {
	core.RenderObjectBase
	Child core.Widget
}

// Centered wraps child in a Center.
func Centered(child core.Widget) Center {
	return Center{Child: child}
}

// ChildWidget returns the child widget.
func (c Center) ChildWidget() core.Widget {
	return c.Child
}

// CreateRenderObject creates the centering render box.
func (c Center) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderCenter{}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject is a no-op; Center has no configuration.
func (c Center) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {}

type renderCenter struct {
	singleChildBox
}

func (r *renderCenter) PerformLayout() {
	constraints := r.Constraints()
	size := constraints.Biggest()
	if r.child == nil {
		r.SetSize(size)
		return
	}
	r.child.Layout(constraints.Loosen(), true)
	childSize := r.child.Size()
	if !constraints.HasBoundedWidth() {
		size.Width = max(size.Width, childSize.Width)
	}
	if !constraints.HasBoundedHeight() {
		size.Height = max(size.Height, childSize.Height)
	}
	layout.SetChildOffset(r.child, graphics.Offset{
		X: (size.Width - childSize.Width) / 2,
		Y: (size.Height - childSize.Height) / 2,
	})
	r.SetSize(size)
}

func (r *renderCenter) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderCenter) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}
