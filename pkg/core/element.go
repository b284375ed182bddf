package core

import (
	"reflect"
	"time"

	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/layout"
)

type elementBase struct {
	widget       Widget
	parent       Element
	depth        int
	slot         any
	buildOwner   *BuildOwner
	dirty        bool
	self         Element
	mounted      bool
	renderParent *RenderObjectElement // nearest ancestor that owns a render object
}

func (e *elementBase) Widget() Widget {
	return e.widget
}

func (e *elementBase) Depth() int {
	return e.depth
}

func (e *elementBase) Owner() *BuildOwner {
	return e.buildOwner
}

func (e *elementBase) MarkNeedsBuild() {
	if e.dirty || !e.mounted {
		return
	}
	e.dirty = true
	if e.buildOwner != nil && e.self != nil {
		e.buildOwner.ScheduleBuild(e.self)
	}
}

func (e *elementBase) parentElement() Element {
	return e.parent
}

func (e *elementBase) setSelf(self Element) {
	e.self = self
}

func (e *elementBase) setWidget(widget Widget) {
	e.widget = widget
}

func (e *elementBase) setBuildOwner(owner *BuildOwner) {
	e.buildOwner = owner
}

func (e *elementBase) isMounted() bool {
	return e.mounted
}

// mountBase records the element's position before it builds.
func (e *elementBase) mountBase(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.renderParent = e.findRenderParent()
	e.mounted = true
	e.dirty = true
}

func (e *elementBase) FindAncestor(predicate func(Element) bool) Element {
	current := e.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		if base, ok := current.(interface{ parentElement() Element }); ok {
			current = base.parentElement()
		} else {
			break
		}
	}
	return nil
}

func (e *elementBase) DependOnInherited(inheritedType reflect.Type) any {
	return dependOnInherited(e.self, inheritedType)
}

// findRenderParent walks up the element tree to find the nearest RenderObjectElement.
func (e *elementBase) findRenderParent() *RenderObjectElement {
	current := e.parent
	for current != nil {
		if roElement, ok := current.(*RenderObjectElement); ok {
			return roElement
		}
		if base, ok := current.(interface{ parentElement() Element }); ok {
			current = base.parentElement()
		} else {
			break
		}
	}
	return nil
}

// safeBuild executes a build function with panic recovery.
// A failed build reports the error, records it on the build owner and yields
// no child.
func (e *elementBase) safeBuild(buildFn func() Widget) Widget {
	var built Widget
	var buildErr *errors.BuildError

	func() {
		defer func() {
			if r := recover(); r != nil {
				buildErr = &errors.BuildError{
					Widget:     reflect.TypeOf(e.widget).String(),
					Element:    reflect.TypeOf(e.self).String(),
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
				if err, ok := r.(error); ok {
					buildErr.Err = err
				}
			}
		}()
		built = buildFn()
	}()

	if buildErr != nil {
		errors.ReportBuildError(buildErr)
		if e.buildOwner != nil {
			e.buildOwner.recordBuildError(buildErr)
		}
		return nil
	}
	return built
}

// updateComponentChild reconciles the single child of a component element and
// resyncs the render parent when the child's render object changed.
func (e *elementBase) updateComponentChild(child *Element, built Widget) {
	before := renderObjectOf(*child)
	*child = updateChild(*child, built, e.self, e.buildOwner, e.slot)
	if after := renderObjectOf(*child); after != before && e.renderParent != nil {
		e.renderParent.syncRenderChildren()
	}
}

// StatelessElement hosts a StatelessWidget.
type StatelessElement struct {
	elementBase
	child Element
}

// NewStatelessElement creates a StatelessElement.
// The widget and build owner are set by the framework during inflation.
func NewStatelessElement() *StatelessElement {
	element := &StatelessElement{}
	element.setSelf(element)
	return element
}

func (e *StatelessElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *StatelessElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
}

func (e *StatelessElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	widget := e.widget.(StatelessWidget)
	built := e.safeBuild(func() Widget {
		return widget.Build(e)
	})
	e.updateComponentChild(&e.child, built)
}

func (e *StatelessElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// RenderObject returns the render object from the first render-object child.
func (e *StatelessElement) RenderObject() layout.RenderObject {
	return renderObjectOf(e.child)
}

// StatefulElement hosts a StatefulWidget and its State.
type StatefulElement struct {
	elementBase
	child Element
	state State
}

// NewStatefulElement creates a StatefulElement.
// The widget and build owner are set by the framework during inflation.
func NewStatefulElement() *StatefulElement {
	element := &StatefulElement{}
	element.setSelf(element)
	return element
}

func (e *StatefulElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	widget := e.widget.(StatefulWidget)
	e.state = widget.CreateState()
	if setter, ok := e.state.(interface{ SetElement(*StatefulElement) }); ok {
		setter.SetElement(e)
	}
	e.state.InitState()
	e.RebuildIfNeeded()
}

func (e *StatefulElement) Update(newWidget Widget) {
	oldWidget := e.widget.(StatefulWidget)
	e.widget = newWidget
	e.state.DidUpdateWidget(oldWidget)
	e.MarkNeedsBuild()
}

func (e *StatefulElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	if e.state != nil {
		e.state.Dispose()
	}
}

func (e *StatefulElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeBuild(func() Widget {
		return e.state.Build(e)
	})
	e.updateComponentChild(&e.child, built)
}

func (e *StatefulElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// State returns the state object owned by this element.
func (e *StatefulElement) State() State {
	return e.state
}

// RenderObject returns the render object from the first render-object child.
func (e *StatefulElement) RenderObject() layout.RenderObject {
	return renderObjectOf(e.child)
}

// RenderObjectElement hosts a RenderObject and optional children.
type RenderObjectElement struct {
	elementBase
	renderObject layout.RenderObject
	children     []Element
}

// NewRenderObjectElement creates a RenderObjectElement.
// The widget and build owner are set by the framework during inflation.
func NewRenderObjectElement() *RenderObjectElement {
	element := &RenderObjectElement{}
	element.setSelf(element)
	return element
}

func (e *RenderObjectElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)

	widget := e.widget.(RenderObjectWidget)
	e.renderObject = widget.CreateRenderObject(e)
	if e.buildOwner != nil {
		e.renderObject.SetOwner(e.buildOwner.Pipeline())
	}

	// Attach to render tree before building children.
	e.attachRenderObject()
	e.RebuildIfNeeded()
}

func (e *RenderObjectElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *RenderObjectElement) Unmount() {
	e.mounted = false

	// Children detach their own render objects first.
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil

	e.detachRenderObject()
}

func (e *RenderObjectElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false

	widget := e.widget.(RenderObjectWidget)
	widget.UpdateRenderObject(e, e.renderObject)

	switch typed := e.widget.(type) {
	case ChildHolder:
		var child Element
		if len(e.children) > 0 {
			child = e.children[0]
		}
		child = updateChild(child, typed.ChildWidget(), e, e.buildOwner, 0)
		if child != nil {
			e.children = []Element{child}
		} else {
			e.children = nil
		}
	case ChildrenHolder:
		e.children = updateChildren(e, e.buildOwner, e.children, typed.ChildrenWidgets())
	}
	e.syncRenderChildren()
}

func (e *RenderObjectElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

// RenderObject exposes the backing render object for the element.
func (e *RenderObjectElement) RenderObject() layout.RenderObject {
	return e.renderObject
}

func (e *RenderObjectElement) attachRenderObject() {
	if e.renderParent != nil {
		layout.SetParentOnChild(e.renderObject, e.renderParent.renderObject)
		e.renderParent.syncRenderChildren()
	}
}

func (e *RenderObjectElement) detachRenderObject() {
	if e.renderParent != nil {
		layout.SetParentOnChild(e.renderObject, nil)
		e.renderParent.syncRenderChildren()
		e.renderParent = nil
	}
}

// syncRenderChildren pushes the render objects of the element children that
// are parented to this render object down to it, in element order.
func (e *RenderObjectElement) syncRenderChildren() {
	if !e.mounted {
		return
	}
	objects := make([]layout.RenderObject, 0, len(e.children))
	for _, child := range e.children {
		ro := renderObjectOf(child)
		if ro == nil {
			continue
		}
		if getter, ok := ro.(interface{ Parent() layout.RenderObject }); ok && getter.Parent() != e.renderObject {
			continue
		}
		objects = append(objects, ro)
	}
	switch host := e.renderObject.(type) {
	case layout.SingleChildHost:
		if len(objects) > 0 {
			host.SetChild(objects[0])
		} else {
			host.SetChild(nil)
		}
	case layout.MultiChildHost:
		host.SetChildren(objects)
	}
}

func renderObjectOf(element Element) layout.RenderObject {
	if element == nil {
		return nil
	}
	return element.RenderObject()
}

func updateChild(existing Element, widget Widget, parent Element, owner *BuildOwner, slot any) Element {
	if widget == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdateWidget(existing.Widget(), widget) {
		existing.Update(widget)
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	element := inflateWidget(widget, owner)
	element.Mount(parent, slot)
	return element
}

// updateChildren reconciles a list of children. Keyed children are matched by
// key wherever they appear; unkeyed children are matched in order.
func updateChildren(parent Element, owner *BuildOwner, oldChildren []Element, newWidgets []Widget) []Element {
	keyed := make(map[any]Element)
	var unkeyed []Element
	for _, child := range oldChildren {
		key := child.Widget().Key()
		if key == nil {
			unkeyed = append(unkeyed, child)
			continue
		}
		if _, duplicate := keyed[key]; duplicate {
			unkeyed = append(unkeyed, child)
			continue
		}
		keyed[key] = child
	}

	reused := make(map[Element]bool, len(oldChildren))
	result := make([]Element, 0, len(newWidgets))
	nextUnkeyed := 0
	for index, widget := range newWidgets {
		if widget == nil {
			continue
		}
		var existing Element
		if key := widget.Key(); key != nil {
			if candidate, ok := keyed[key]; ok && canUpdateWidget(candidate.Widget(), widget) {
				existing = candidate
				delete(keyed, key)
			}
		} else if nextUnkeyed < len(unkeyed) && canUpdateWidget(unkeyed[nextUnkeyed].Widget(), widget) {
			existing = unkeyed[nextUnkeyed]
			nextUnkeyed++
		}
		if existing != nil {
			reused[existing] = true
		}
		if child := updateChild(existing, widget, parent, owner, index); child != nil {
			result = append(result, child)
		}
	}

	for _, child := range oldChildren {
		if !reused[child] {
			child.Unmount()
		}
	}
	return result
}

func canUpdateWidget(existing Widget, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

func inflateWidget(widget Widget, owner *BuildOwner) Element {
	element := widget.CreateElement()
	if setter, ok := element.(interface{ setWidget(Widget) }); ok {
		setter.setWidget(widget)
	}
	if setter, ok := element.(interface{ setBuildOwner(*BuildOwner) }); ok {
		setter.setBuildOwner(owner)
	}
	if setter, ok := element.(interface{ setSelf(Element) }); ok {
		setter.setSelf(element)
	}
	return element
}

// MountRoot inflates widget as the root of a new element tree owned by owner
// and installs its render object as the pipeline root.
func MountRoot(widget Widget, owner *BuildOwner) Element {
	root := inflateWidget(widget, owner)
	root.Mount(nil, nil)
	owner.Pipeline().SetRoot(root.RenderObject())
	return root
}
