package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Offstage lays out its child but hides it from painting and hit testing
// when Offstage is true. The child stays mounted, so its state is kept.
type Offstage struct {
	core.RenderObjectBase
	Offstage bool
	Child    core.Widget
}

// ChildWidget returns the child widget.
func (o Offstage) ChildWidget() core.Widget {
	return o.Child
}

// CreateRenderObject creates the offstage render box.
func (o Offstage) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderOffstage{offstage: o.Offstage}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject updates the offstage render box.
func (o Offstage) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*renderOffstage); ok && box.offstage != o.Offstage {
		box.offstage = o.Offstage
		box.MarkNeedsPaint()
	}
}

type renderOffstage struct {
	singleChildBox
	offstage bool
}

func (r *renderOffstage) PerformLayout() {
	r.layoutPassThrough()
}

func (r *renderOffstage) Paint(ctx *layout.PaintContext) {
	if r.offstage {
		return
	}
	r.paintChild(ctx)
}

func (r *renderOffstage) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if r.offstage || !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}

// IsOffstage reports whether the child is currently hidden.
func (r *renderOffstage) IsOffstage() bool {
	return r.offstage
}
