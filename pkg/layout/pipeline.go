package layout

import "github.com/go-drift/starport/pkg/graphics"

// PipelineOwner tracks whether the render tree rooted at Root needs layout or
// paint.
//
// The typical frame sequence is:
//  1. FlushBuild - rebuilds dirty elements, updates render object properties
//  2. FlushLayoutForRoot - lays out from root, propagating to dirty subtrees
//  3. FlushPaint - records the tree into a display list
type PipelineOwner struct {
	root        RenderObject
	needsLayout bool
	needsPaint  bool
	lastPaint   *graphics.DisplayList
}

// SetRoot sets the root render object.
func (p *PipelineOwner) SetRoot(root RenderObject) {
	if p.root == root {
		return
	}
	p.root = root
	p.needsLayout = true
	p.needsPaint = true
}

// Root returns the root render object.
func (p *PipelineOwner) Root() RenderObject {
	return p.root
}

// ScheduleLayout requests layout of the tree.
func (p *PipelineOwner) ScheduleLayout(object RenderObject) {
	p.needsLayout = true
	p.needsPaint = true
}

// SchedulePaint requests a repaint of the tree.
func (p *PipelineOwner) SchedulePaint(object RenderObject) {
	p.needsPaint = true
}

// NeedsLayout reports if any render objects need layout.
func (p *PipelineOwner) NeedsLayout() bool {
	return p.needsLayout
}

// NeedsPaint reports if any render objects need paint.
func (p *PipelineOwner) NeedsPaint() bool {
	return p.needsPaint
}

// FlushLayoutForRoot runs layout starting from the root with the given
// constraints. Clean nodes with unchanged constraints skip layout entirely.
func (p *PipelineOwner) FlushLayoutForRoot(constraints Constraints) {
	if p.root == nil {
		return
	}
	if !p.needsLayout {
		if layouter, ok := p.root.(interface{ Constraints() Constraints }); ok && layouter.Constraints() == constraints {
			return
		}
	}
	p.root.Layout(constraints, false)
	p.needsLayout = false
}

// FlushPaint records the whole tree into a display list of the given size.
// When nothing is dirty the previous display list is returned.
func (p *PipelineOwner) FlushPaint(size graphics.Size) *graphics.DisplayList {
	if p.root == nil {
		return &graphics.DisplayList{}
	}
	if !p.needsPaint && p.lastPaint != nil && p.lastPaint.Size() == size {
		return p.lastPaint
	}
	recorder := &graphics.PictureRecorder{}
	ctx := &PaintContext{Canvas: recorder.BeginRecording(size)}
	ctx.PaintChild(p.root, graphics.Offset{})
	p.lastPaint = recorder.EndRecording()
	p.needsPaint = false
	return p.lastPaint
}

// HitTest hit tests the tree at position in root coordinates.
func (p *PipelineOwner) HitTest(position graphics.Offset) *HitTestResult {
	result := &HitTestResult{}
	if p.root != nil {
		p.root.HitTest(position, result)
	}
	return result
}
