package widgets

import (
	"fmt"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// StackFit determines how non-positioned children are sized within a Stack.
type StackFit int

const (
	// StackFitLoose allows children to size themselves.
	StackFitLoose StackFit = iota
	// StackFitExpand forces children to fill the stack.
	StackFitExpand
)

// String returns a human-readable representation of the stack fit.
func (f StackFit) String() string {
	switch f {
	case StackFitLoose:
		return "loose"
	case StackFitExpand:
		return "expand"
	default:
		return fmt.Sprintf("StackFit(%d)", int(f))
	}
}

// Stack overlays children on top of each other.
//
// Children are painted in order, with the first child at the bottom and
// the last child on top. Hit testing proceeds in reverse (topmost first).
// Non-positioned children sit at the top-left; wrap a child in [Positioned]
// to place it at an explicit rect. Positioned children do not contribute to
// the stack's size.
type Stack struct {
	core.RenderObjectBase
	Children []core.Widget
	Fit      StackFit
	// PassThrough makes the stack claim only hits that land on a child, so
	// content beneath an overlay stays tappable.
	PassThrough bool
}

// StackOf creates a loose stack with the given children.
func StackOf(children ...core.Widget) Stack {
	return Stack{Children: children}
}

// ChildrenWidgets returns the child widgets.
func (s Stack) ChildrenWidgets() []core.Widget {
	return s.Children
}

// CreateRenderObject creates the render stack.
func (s Stack) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	stack := &renderStack{fit: s.Fit, passThrough: s.PassThrough}
	stack.SetSelf(stack)
	return stack
}

// UpdateRenderObject updates the render stack.
func (s Stack) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	stack, ok := renderObject.(*renderStack)
	if !ok {
		return
	}
	stack.passThrough = s.PassThrough
	if stack.fit != s.Fit {
		stack.fit = s.Fit
		stack.MarkNeedsLayout()
	}
}

type renderStack struct {
	multiChildBox
	fit         StackFit
	passThrough bool
}

func (r *renderStack) PerformLayout() {
	constraints := r.Constraints()
	var size graphics.Size
	if r.fit == StackFitExpand {
		size = constraints.Biggest()
	}

	for _, child := range r.children {
		if _, positioned := child.(*renderPositioned); positioned {
			continue
		}
		childConstraints := constraints.Loosen()
		if r.fit == StackFitExpand {
			childConstraints = layout.Tight(size)
		}
		child.Layout(childConstraints, true)
		layout.SetChildOffset(child, graphics.Offset{})
		childSize := child.Size()
		size.Width = max(size.Width, childSize.Width)
		size.Height = max(size.Height, childSize.Height)
	}
	size = constraints.Constrain(size)

	for _, child := range r.children {
		pos, positioned := child.(*renderPositioned)
		if !positioned {
			continue
		}
		pos.Layout(layout.Tight(graphics.Size{Width: max(0, pos.width), Height: max(0, pos.height)}), false)
		layout.SetChildOffset(pos, graphics.Offset{X: pos.left, Y: pos.top})
	}
	r.SetSize(size)
}

func (r *renderStack) Paint(ctx *layout.PaintContext) {
	r.paintChildren(ctx)
}

func (r *renderStack) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	if r.hitTestChildrenReverse(position, result) {
		return true
	}
	if r.passThrough {
		return false
	}
	result.Add(r)
	return true
}

// Positioned places its child at an explicit rect inside the nearest Stack.
// The child is given tight constraints of Width x Height.
type Positioned struct {
	core.RenderObjectBase
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Child  core.Widget
}

// PositionedFromRect places child at rect.
func PositionedFromRect(rect graphics.Rect, child core.Widget) Positioned {
	return Positioned{Left: rect.Left, Top: rect.Top, Width: rect.Width(), Height: rect.Height(), Child: child}
}

// ChildWidget returns the child widget.
func (p Positioned) ChildWidget() core.Widget {
	return p.Child
}

// Rect returns the rect the child occupies in the stack.
func (p Positioned) Rect() graphics.Rect {
	return graphics.RectFromLTWH(p.Left, p.Top, p.Width, p.Height)
}

// CreateRenderObject creates the positioned render box.
func (p Positioned) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderPositioned{}
	box.SetSelf(box)
	box.update(p)
	return box
}

// UpdateRenderObject updates the positioned render box.
func (p Positioned) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*renderPositioned); ok {
		box.update(p)
	}
}

type renderPositioned struct {
	singleChildBox
	left, top, width, height float64
}

func (r *renderPositioned) update(p Positioned) {
	if r.left == p.Left && r.top == p.Top && r.width == p.Width && r.height == p.Height {
		return
	}
	r.left, r.top, r.width, r.height = p.Left, p.Top, p.Width, p.Height
	r.MarkNeedsLayout()
}

func (r *renderPositioned) PerformLayout() {
	r.layoutPassThrough()
}

func (r *renderPositioned) Paint(ctx *layout.PaintContext) {
	r.paintChild(ctx)
}

func (r *renderPositioned) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	return r.hitTestChild(position, result)
}
