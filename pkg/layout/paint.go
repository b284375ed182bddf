package layout

import "github.com/go-drift/starport/pkg/graphics"

// HitTestResult collects hit test entries, deepest first.
type HitTestResult struct {
	Entries []RenderObject
}

// Add inserts a render object into the hit test result list.
func (h *HitTestResult) Add(target RenderObject) {
	h.Entries = append(h.Entries, target)
}

// TapTarget is a render object that responds to tap events.
type TapTarget interface {
	OnTap()
}

// PaintContext provides the canvas for painting render objects.
type PaintContext struct {
	Canvas graphics.Canvas
}

// PaintChild paints a child render box at the given offset.
func (p *PaintContext) PaintChild(child RenderBox, offset graphics.Offset) {
	if child == nil {
		return
	}
	p.Canvas.Save()
	p.Canvas.Translate(offset.X, offset.Y)
	child.Paint(p)
	p.Canvas.Restore()
	if painted, ok := child.(interface{ ClearNeedsPaint() }); ok {
		painted.ClearNeedsPaint()
	}
}

// HitTestChild hit tests child with position translated into its space.
func HitTestChild(child RenderObject, position graphics.Offset, result *HitTestResult) bool {
	if child == nil {
		return false
	}
	return child.HitTest(position.Sub(ChildOffset(child)), result)
}
