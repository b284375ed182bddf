package widgets

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Text displays a string in the built-in fixed-width face, wrapping at word
// boundaries when the width is bounded.
type Text struct {
	core.RenderObjectBase
	Content string
	Color   graphics.Color
}

// CreateRenderObject creates the text render box.
func (t Text) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	text := &renderText{}
	text.SetSelf(text)
	text.update(t)
	return text
}

// UpdateRenderObject updates the text render box.
func (t Text) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {
	if text, ok := renderObject.(*renderText); ok {
		text.update(t)
	}
}

type renderText struct {
	layout.RenderBoxBase
	content string
	color   graphics.Color
	layout  *graphics.TextLayout
}

func (r *renderText) update(t Text) {
	color := t.Color
	if color == 0 {
		color = graphics.ColorBlack
	}
	if r.content != t.Content {
		r.content = t.Content
		r.MarkNeedsLayout()
	}
	if r.color != color {
		r.color = color
		r.MarkNeedsPaint()
	}
}

// Content returns the displayed string.
func (r *renderText) Content() string {
	return r.content
}

func (r *renderText) PerformLayout() {
	constraints := r.Constraints()
	r.layout = graphics.LayoutText(r.content, graphics.TextStyle{Color: r.color}, constraints.MaxWidth)
	r.SetSize(constraints.Constrain(r.layout.Size))
}

func (r *renderText) Paint(ctx *layout.PaintContext) {
	if r.layout == nil {
		return
	}
	r.layout.Style.Color = r.color
	ctx.Canvas.DrawText(r.layout, graphics.Offset{})
}

func (r *renderText) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	if !withinBounds(position, r.Size()) {
		return false
	}
	result.Add(r)
	return true
}
