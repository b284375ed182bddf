package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Opacity paints its child with the given opacity, clamped to [0, 1].
// At opacity 0 the child is skipped during paint but still hit tests.
type Opacity struct {
	core.RenderObjectBase
	Opacity float64
	Child   core.Widget
}

// ChildWidget returns the child widget.
func (o Opacity) ChildWidget() core.Widget {
	return o.Child
}

// CreateRenderObject creates the opacity render box.
func (o Opacity) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderOpacity{opacity: clampOpacity(o.Opacity)}
	box.SetSelf(box)
	return box
}

// UpdateRenderObject updates the opacity render box.
func (o Opacity) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	box, ok := renderObject.(*renderOpacity)
	if !ok {
		return
	}
	if opacity := clampOpacity(o.Opacity); box.opacity != opacity {
		box.opacity = opacity
		box.MarkNeedsPaint()
	}
}

type renderOpacity struct {
	singleChildBox
	opacity float64
}

// Alpha returns the effective opacity applied to the child.
func (r *renderOpacity) Alpha() float64 {
	return r.opacity
}

func (r *renderOpacity) PerformLayout() {
	r.layoutPassThrough()
}

func (r *renderOpacity) Paint(ctx *layout.PaintContext) {
	switch {
	case r.opacity <= 0:
		return
	case r.opacity >= 1:
		r.paintChild(ctx)
	default:
		ctx.Canvas.SaveLayerAlpha(graphics.RectFromOffsetAndSize(graphics.Offset{}, r.Size()), r.opacity)
		r.paintChild(ctx)
		ctx.Canvas.Restore()
	}
}

func (r *renderOpacity) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}

func clampOpacity(opacity float64) float64 {
	return min(max(opacity, 0), 1)
}
