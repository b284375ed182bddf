package layout

import "github.com/go-drift/starport/pkg/graphics"

// RenderObject handles layout, painting, and hit testing.
type RenderObject interface {
	Layout(constraints Constraints, parentUsesSize bool)
	Size() graphics.Size
	Paint(ctx *PaintContext)
	HitTest(position graphics.Offset, result *HitTestResult) bool
	ParentData() any
	SetParentData(data any)
	MarkNeedsLayout()
	MarkNeedsPaint()
	SetOwner(owner *PipelineOwner)
}

// RenderBox is a RenderObject with box layout.
type RenderBox interface {
	RenderObject
}

// ChildVisitor is implemented by render objects that have children.
type ChildVisitor interface {
	// VisitChildren calls the visitor function for each child.
	VisitChildren(visitor func(RenderObject))
}

// SingleChildHost is implemented by render objects with at most one child.
type SingleChildHost interface {
	SetChild(child RenderObject)
}

// MultiChildHost is implemented by render objects with an ordered child list.
type MultiChildHost interface {
	SetChildren(children []RenderObject)
}

// BoxParentData stores the offset for a child in a box layout.
type BoxParentData struct {
	Offset graphics.Offset
}

// RenderBoxBase provides base behavior for render boxes.
//
// There are no relayout boundaries: MarkNeedsLayout walks to the root, and
// layout of clean subtrees is skipped when their constraints are unchanged.
type RenderBoxBase struct {
	size        graphics.Size
	parentData  any
	owner       *PipelineOwner
	self        RenderObject
	parent      RenderObject
	depth       int
	needsLayout bool
	constraints Constraints
	needsPaint  bool
}

// Size returns the current size of the render box.
func (r *RenderBoxBase) Size() graphics.Size {
	return r.size
}

// SetSize updates the render box size.
func (r *RenderBoxBase) SetSize(size graphics.Size) {
	if r.size == size {
		return
	}
	r.size = size
	r.MarkNeedsPaint()
}

// ParentData returns the parent-assigned data for this render box.
func (r *RenderBoxBase) ParentData() any {
	return r.parentData
}

// SetParentData assigns parent-controlled data to this render box.
// A changed offset marks the parent for repaint.
func (r *RenderBoxBase) SetParentData(data any) {
	if newData, ok := data.(*BoxParentData); ok {
		oldData, hadOldData := r.parentData.(*BoxParentData)
		if (!hadOldData || oldData.Offset != newData.Offset) && r.parent != nil {
			r.parent.MarkNeedsPaint()
		}
	}
	r.parentData = data
}

// MarkNeedsLayout marks this render box and every ancestor as needing layout.
func (r *RenderBoxBase) MarkNeedsLayout() {
	r.needsLayout = true
	if r.parent != nil {
		r.parent.MarkNeedsLayout()
		return
	}
	if r.owner != nil && r.self != nil {
		r.owner.ScheduleLayout(r.self)
	}
}

// MarkNeedsPaint marks this render box as needing paint and schedules the
// pipeline owner.
func (r *RenderBoxBase) MarkNeedsPaint() {
	r.needsPaint = true
	if r.owner != nil && r.self != nil {
		r.owner.SchedulePaint(r.self)
		return
	}
	if r.parent != nil {
		r.parent.MarkNeedsPaint()
	}
}

// SetOwner assigns the pipeline owner for scheduling layout and paint.
func (r *RenderBoxBase) SetOwner(owner *PipelineOwner) {
	r.owner = owner
}

// Owner returns the pipeline owner.
func (r *RenderBoxBase) Owner() *PipelineOwner {
	return r.owner
}

// SetSelf registers the concrete render object for scheduling.
func (r *RenderBoxBase) SetSelf(self RenderObject) {
	r.self = self
	r.needsLayout = true
	r.needsPaint = true
}

// Self returns the concrete render object registered via SetSelf.
func (r *RenderBoxBase) Self() RenderObject {
	return r.self
}

// Parent returns the parent render object.
func (r *RenderBoxBase) Parent() RenderObject {
	return r.parent
}

// SetParent sets the parent render object and computes depth.
func (r *RenderBoxBase) SetParent(parent RenderObject) {
	if r.parent == parent {
		return
	}
	oldParent := r.parent
	r.parent = parent
	if parent == nil {
		r.depth = 0
	} else if getter, ok := parent.(interface{ Depth() int }); ok {
		r.depth = getter.Depth() + 1
	} else {
		r.depth = 1
	}
	r.constraints = Constraints{}
	r.needsLayout = true
	r.needsPaint = true

	if oldParent != nil {
		oldParent.MarkNeedsPaint()
	}
	if parent != nil {
		parent.MarkNeedsPaint()
	}
}

// Depth returns the tree depth (root = 0).
func (r *RenderBoxBase) Depth() int {
	return r.depth
}

// NeedsLayout returns true if this render box needs layout.
func (r *RenderBoxBase) NeedsLayout() bool {
	return r.needsLayout
}

// Constraints returns the last received constraints.
func (r *RenderBoxBase) Constraints() Constraints {
	return r.constraints
}

// NeedsPaint returns true if this render box needs painting.
func (r *RenderBoxBase) NeedsPaint() bool {
	return r.needsPaint
}

// ClearNeedsPaint marks this render object as painted.
func (r *RenderBoxBase) ClearNeedsPaint() {
	r.needsPaint = false
}

// Layout skips clean subtrees whose constraints are unchanged and otherwise
// delegates to PerformLayout on the concrete render object.
func (r *RenderBoxBase) Layout(constraints Constraints, parentUsesSize bool) {
	if !r.needsLayout && r.constraints == constraints {
		return
	}
	r.constraints = constraints
	r.needsLayout = false

	if performer, ok := r.self.(interface{ PerformLayout() }); ok {
		performer.PerformLayout()
	}
}

// SetParentOnChild sets the parent reference on a child render object.
// It marks both the old and new parent as needing layout when the parent changes.
func SetParentOnChild(child, parent RenderObject) {
	if child == nil {
		return
	}
	getter, _ := child.(interface{ Parent() RenderObject })
	setter, ok := child.(interface{ SetParent(RenderObject) })
	if !ok {
		return
	}
	currentParent := RenderObject(nil)
	if getter != nil {
		currentParent = getter.Parent()
	}
	if currentParent == parent {
		return
	}
	setter.SetParent(parent)
	if currentParent != nil {
		currentParent.MarkNeedsLayout()
	}
	if parent != nil {
		parent.MarkNeedsLayout()
	}
}

// ChildOffset returns the offset assigned to child by its parent.
func ChildOffset(child RenderObject) graphics.Offset {
	if child == nil {
		return graphics.Offset{}
	}
	if data, ok := child.ParentData().(*BoxParentData); ok && data != nil {
		return data.Offset
	}
	return graphics.Offset{}
}

// SetChildOffset stores offset in the child's BoxParentData.
func SetChildOffset(child RenderObject, offset graphics.Offset) {
	if child == nil {
		return
	}
	if data, ok := child.ParentData().(*BoxParentData); ok && data != nil && data.Offset == offset {
		return
	}
	child.SetParentData(&BoxParentData{Offset: offset})
}

// LocalToGlobal converts a point in object's coordinate space to root
// coordinates by accumulating parent offsets.
func LocalToGlobal(object RenderObject, point graphics.Offset) graphics.Offset {
	current := object
	for current != nil {
		point = point.Add(ChildOffset(current))
		getter, ok := current.(interface{ Parent() RenderObject })
		if !ok {
			break
		}
		current = getter.Parent()
	}
	return point
}

// GlobalRect returns the bounds of object in root coordinates.
func GlobalRect(object RenderObject) graphics.Rect {
	if object == nil {
		return graphics.Rect{}
	}
	return graphics.RectFromOffsetAndSize(LocalToGlobal(object, graphics.Offset{}), object.Size())
}

// IsAttached reports whether object is connected to a root that has an owner.
func IsAttached(object RenderObject) bool {
	current := object
	for current != nil {
		getter, ok := current.(interface{ Parent() RenderObject })
		if !ok {
			return false
		}
		parent := getter.Parent()
		if parent == nil {
			owned, ok := current.(interface{ Owner() *PipelineOwner })
			return ok && owned.Owner() != nil && owned.Owner().Root() == current
		}
		current = parent
	}
	return false
}

// AsRenderBox converts a RenderObject to a RenderBox.
// Returns nil if the child is nil or not a RenderBox.
func AsRenderBox(child RenderObject) RenderBox {
	box, _ := child.(RenderBox)
	return box
}

// WithinBounds checks if a position is within the given size.
func WithinBounds(position graphics.Offset, size graphics.Size) bool {
	return position.X >= 0 && position.Y >= 0 && position.X <= size.Width && position.Y <= size.Height
}
