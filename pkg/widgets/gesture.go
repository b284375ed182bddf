package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// GestureDetector calls OnTap when a tap lands inside its child.
//
//	GestureDetector{
//	    OnTap: func() { s.SetState(func() { s.count++ }) },
//	    Child: Text{Content: label},
//	}
type GestureDetector struct {
	core.RenderObjectBase
	OnTap func()
	Child core.Widget
}

// ChildWidget returns the child widget.
func (g GestureDetector) ChildWidget() core.Widget {
	return g.Child
}

// CreateRenderObject creates the gesture render box.
func (g GestureDetector) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	detector := &renderGestureDetector{onTap: g.OnTap}
	detector.SetSelf(detector)
	return detector
}

// UpdateRenderObject refreshes the tap handler.
func (g GestureDetector) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if detector, ok := renderObject.(*renderGestureDetector); ok {
		detector.onTap = g.OnTap
	}
}

type renderGestureDetector struct {
	singleChildBox
	onTap func()
}

// OnTap implements layout.TapTarget.
func (r *renderGestureDetector) OnTap() {
	if r.onTap != nil {
		r.onTap()
	}
}

func (r *renderGestureDetector) PerformLayout() {
	r.layoutPassThrough()
}

func (r *renderGestureDetector) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderGestureDetector) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	r.hitTestChild(position, result)
	result.Add(r)
	return true
}
