package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// View is the root widget that hosts the render tree. It fills the surface
// and gives its child tight constraints.
type View struct {
	core.RenderObjectBase
	Child core.Widget
}

// ChildWidget returns the single child for render object wiring.
func (v View) ChildWidget() core.Widget {
	return v.Child
}

// CreateRenderObject builds the root render view.
func (v View) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	view := &renderView{}
	view.SetSelf(view)
	return view
}

// UpdateRenderObject updates the root render view.
func (v View) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {}

type renderView struct {
	singleChildBox
}

func (r *renderView) PerformLayout() {
	size := r.Constraints().Biggest()
	if r.child != nil {
		r.child.Layout(layout.Tight(size), true)
		layout.SetChildOffset(r.child, graphics.Offset{})
	}
	r.SetSize(size)
}

func (r *renderView) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderView) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	r.hitTestChild(position, result)
	result.Add(r)
	return true
}
