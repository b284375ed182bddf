package core

import (
	"reflect"

	"github.com/go-drift/starport/pkg/layout"
)

// Widget describes part of the user interface.
type Widget interface {
	CreateElement() Element
	// Key returns the identity used when reconciling siblings, or nil.
	Key() any
}

// StatelessWidget builds its subtree from configuration alone.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget creates a State that lives as long as its element.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// State holds mutable data for a StatefulWidget.
type State interface {
	InitState()
	Build(ctx BuildContext) Widget
	SetState(fn func())
	Dispose()
	DidChangeDependencies()
	DidUpdateWidget(oldWidget StatefulWidget)
}

// InheritedWidget exposes data to descendants that depend on it.
type InheritedWidget interface {
	Widget
	ChildWidget() Widget
	// UpdateShouldNotify reports whether dependents rebuild after an update.
	UpdateShouldNotify(oldWidget InheritedWidget) bool
}

// RenderObjectWidget creates a render object directly.
type RenderObjectWidget interface {
	Widget
	CreateRenderObject(ctx BuildContext) layout.RenderObject
	UpdateRenderObject(ctx BuildContext, renderObject layout.RenderObject)
}

// BuildContext is the handle a widget uses to reach its location in the tree.
type BuildContext interface {
	Widget() Widget
	FindAncestor(predicate func(Element) bool) Element
	// DependOnInherited returns the nearest ancestor inherited widget of the
	// given type and registers a rebuild dependency on it. Returns nil if none.
	DependOnInherited(inheritedType reflect.Type) any
	// Owner returns the build owner running this tree.
	Owner() *BuildOwner
	// RenderObject returns the nearest render object at or below this element.
	RenderObject() layout.RenderObject
}

// Element is a widget instantiated at a location in the tree.
type Element interface {
	BuildContext
	Mount(parent Element, slot any)
	Update(newWidget Widget)
	Unmount()
	MarkNeedsBuild()
	RebuildIfNeeded()
	VisitChildren(visitor func(Element) bool)
	Depth() int
}

// Disposable is implemented by resources that need explicit cleanup.
type Disposable interface {
	Dispose()
}

// Listenable notifies listeners of changes.
type Listenable interface {
	// AddListener registers listener and returns a function that removes it.
	AddListener(listener func()) func()
}

// ChildHolder is implemented by widgets that wrap a single child.
type ChildHolder interface {
	ChildWidget() Widget
}

// ChildrenHolder is implemented by widgets with an ordered list of children.
type ChildrenHolder interface {
	ChildrenWidgets() []Widget
}
