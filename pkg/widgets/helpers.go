package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// singleChildBox is embedded by render objects with at most one child. The
// element tree owns parent links; SetChild only stores the child.
type singleChildBox struct {
	layout.RenderBoxBase
	child layout.RenderBox
}

func (r *singleChildBox) SetChild(child layout.RenderObject) {
	box := layout.AsRenderBox(child)
	if box == r.child {
		return
	}
	r.child = box
	r.MarkNeedsLayout()
}

func (r *singleChildBox) VisitChildren(visitor func(layout.RenderObject)) {
	if r.child != nil {
		visitor(r.child)
	}
}

// layoutPassThrough lays out the child with the box's constraints and adopts
// its size.
func (r *singleChildBox) layoutPassThrough() {
	constraints := r.Constraints()
	if r.child == nil {
		r.SetSize(constraints.Smallest())
		return
	}
	r.child.Layout(constraints, true)
	layout.SetChildOffset(r.child, graphics.Offset{})
	r.SetSize(r.child.Size())
}

func (r *singleChildBox) paintChild(ctx *layout.PaintContext) {
	if r.child != nil {
		ctx.PaintChild(r.child, layout.ChildOffset(r.child))
	}
}

func (r *singleChildBox) hitTestChild(position graphics.Offset, result *layout.HitTestResult) bool {
	return layout.HitTestChild(r.child, position, result)
}

// multiChildBox is embedded by render objects with an ordered child list.
type multiChildBox struct {
	layout.RenderBoxBase
	children []layout.RenderBox
}

func (r *multiChildBox) SetChildren(children []layout.RenderObject) {
	boxes := make([]layout.RenderBox, 0, len(children))
	for _, child := range children {
		if box := layout.AsRenderBox(child); box != nil {
			boxes = append(boxes, box)
		}
	}
	if sameChildren(r.children, boxes) {
		return
	}
	r.children = boxes
	r.MarkNeedsLayout()
}

func (r *multiChildBox) VisitChildren(visitor func(layout.RenderObject)) {
	for _, child := range r.children {
		visitor(child)
	}
}

func (r *multiChildBox) paintChildren(ctx *layout.PaintContext) {
	for _, child := range r.children {
		ctx.PaintChild(child, layout.ChildOffset(child))
	}
}

// hitTestChildrenReverse tests children topmost first and stops at the first hit.
func (r *multiChildBox) hitTestChildrenReverse(position graphics.Offset, result *layout.HitTestResult) bool {
	for i := len(r.children) - 1; i >= 0; i-- {
		if layout.HitTestChild(r.children[i], position, result) {
			return true
		}
	}
	return false
}

func sameChildren(a, b []layout.RenderBox) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func withinBounds(position graphics.Offset, size graphics.Size) bool {
	return layout.WithinBounds(position, size)
}

// Root creates a top-level view widget with the given child.
func Root(child core.Widget) View {
	return View{Child: child}
}

// Tap wraps a child with a tap handler.
func Tap(onTap func(), child core.Widget) GestureDetector {
	return GestureDetector{OnTap: onTap, Child: child}
}

// VSpace creates a fixed-height vertical spacer.
func VSpace(height float64) SizedBox {
	return SizedBox{Height: height}
}

// HSpace creates a fixed-width horizontal spacer.
func HSpace(width float64) SizedBox {
	return SizedBox{Width: width}
}
