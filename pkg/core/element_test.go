package core

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// testColumn is a multi-child render object widget.
type testColumn struct {
	RenderObjectBase
	Children []Widget
}

func (w testColumn) ChildrenWidgets() []Widget { return w.Children }

func (w testColumn) CreateRenderObject(ctx BuildContext) layout.RenderObject {
	r := &renderTestColumn{}
	r.SetSelf(r)
	return r
}

func (w testColumn) UpdateRenderObject(ctx BuildContext, ro layout.RenderObject) {}

type renderTestColumn struct {
	layout.RenderBoxBase
	children []layout.RenderObject
}

func (r *renderTestColumn) SetChildren(children []layout.RenderObject) {
	r.children = children
	r.MarkNeedsLayout()
}

func (r *renderTestColumn) PerformLayout() {
	y := 0.0
	for _, child := range r.children {
		child.Layout(layout.Loose(graphics.Size{Width: 100, Height: 100}), true)
		layout.SetChildOffset(child, graphics.Offset{Y: y})
		y += child.Size().Height
	}
	r.SetSize(graphics.Size{Width: 100, Height: y})
}

func (r *renderTestColumn) Paint(ctx *layout.PaintContext) {}

func (r *renderTestColumn) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	return false
}

// testLeaf is a fixed-size render object widget.
type testLeaf struct {
	RenderObjectBase
	Height float64
}

func (w testLeaf) CreateRenderObject(ctx BuildContext) layout.RenderObject {
	r := &renderTestLeaf{height: w.Height}
	r.SetSelf(r)
	return r
}

func (w testLeaf) UpdateRenderObject(ctx BuildContext, ro layout.RenderObject) {
	leaf := ro.(*renderTestLeaf)
	if leaf.height != w.Height {
		leaf.height = w.Height
		leaf.MarkNeedsLayout()
	}
}

type renderTestLeaf struct {
	layout.RenderBoxBase
	height float64
}

func (r *renderTestLeaf) PerformLayout() {
	r.SetSize(graphics.Size{Width: 10, Height: r.height})
}

func (r *renderTestLeaf) Paint(ctx *layout.PaintContext) {}

func (r *renderTestLeaf) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	return false
}

// counter is a keyed stateful widget that records its lifecycle.
type counter struct {
	StatefulBase
	id     string
	height float64
	log    *[]string
}

func (w counter) Key() any { return w.id }

func (w counter) CreateState() State { return &counterState{} }

type counterState struct {
	StateBase
	count int
}

func (s *counterState) InitState() {
	w := s.Widget().(counter)
	*w.log = append(*w.log, "init "+w.id)
}

func (s *counterState) Dispose() {
	w := s.Widget().(counter)
	*w.log = append(*w.log, "dispose "+w.id)
	s.StateBase.Dispose()
}

func (s *counterState) Build(ctx BuildContext) Widget {
	return testLeaf{Height: s.Widget().(counter).height}
}

// host rebuilds its children from a Managed list of ids.
type host struct {
	StatefulBase
	build func(ids []string) []Widget
	ids   []string
}

func (w host) CreateState() State { return &hostState{} }

type hostState struct {
	StateBase
	ids *Managed[[]string]
}

func (s *hostState) InitState() {
	s.ids = NewManaged(s, s.Widget().(host).ids)
}

func (s *hostState) Build(ctx BuildContext) Widget {
	return testColumn{Children: s.Widget().(host).build(s.ids.Value())}
}

func mountHost(t *testing.T, ids []string, log *[]string) (*BuildOwner, *hostState, Element) {
	t.Helper()
	owner := NewBuildOwner()
	widget := host{
		ids: ids,
		build: func(ids []string) []Widget {
			children := make([]Widget, 0, len(ids))
			for _, id := range ids {
				children = append(children, counter{id: id, height: 10, log: log})
			}
			return children
		},
	}
	root := MountRoot(widget, owner)
	state := root.(*StatefulElement).State().(*hostState)
	return owner, state, root
}

func findCounter(root Element, id string) *counterState {
	var found *counterState
	VisitDescendants(root, func(e Element) bool {
		if stateful, ok := e.(*StatefulElement); ok {
			if state, ok := stateful.State().(*counterState); ok && stateful.Widget().(counter).id == id {
				found = state
				return false
			}
		}
		return true
	})
	return found
}

func TestKeyedChildrenSurviveSiblingRemoval(t *testing.T) {
	var log []string
	owner, hs, root := mountHost(t, []string{"a", "b", "c"}, &log)
	findCounter(root, "c").count = 7

	hs.ids.Set([]string{"b", "c"})
	owner.FlushBuild()

	want := []string{"init a", "init b", "init c", "dispose a"}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("lifecycle = %v, want %v", log, want)
	}
	if got := findCounter(root, "c"); got == nil || got.count != 7 {
		t.Errorf("state of c was not preserved: %+v", got)
	}
}

func TestKeyedChildrenReorderWithoutRemount(t *testing.T) {
	var log []string
	owner, hs, root := mountHost(t, []string{"a", "b"}, &log)
	log = log[:0]

	hs.ids.Set([]string{"b", "a"})
	owner.FlushBuild()

	if len(log) != 0 {
		t.Errorf("reorder caused lifecycle events: %v", log)
	}
	column := root.RenderObject().(*renderTestColumn)
	first := findCounter(root, "b").Element().RenderObject()
	if len(column.children) != 2 || column.children[0] != first {
		t.Errorf("render children not reordered")
	}
}

func TestComponentChildSwapResyncsRenderParent(t *testing.T) {
	owner := NewBuildOwner()
	inner := Stateful(func() bool { return false }, func(tall bool, ctx BuildContext, setState func(func(bool) bool)) Widget {
		if tall {
			return testColumn{Children: []Widget{testLeaf{Height: 40}}}
		}
		return testLeaf{Height: 5}
	})

	root := MountRoot(testColumn{Children: []Widget{testLeaf{Height: 1}, inner}}, owner)
	column := root.RenderObject().(*renderTestColumn)
	if len(column.children) != 2 {
		t.Fatalf("children = %d, want 2", len(column.children))
	}
	var innerElement *StatefulElement
	VisitDescendants(root, func(e Element) bool {
		if s, ok := e.(*StatefulElement); ok {
			innerElement = s
			return false
		}
		return true
	})
	before := column.children[1]
	innerElement.State().(*inlineStatefulState[bool]).value = true
	innerElement.MarkNeedsBuild()
	owner.FlushBuild()

	if len(column.children) != 2 || column.children[1] == before {
		t.Fatal("render parent still references the replaced child")
	}
	if _, ok := column.children[1].(*renderTestColumn); !ok {
		t.Errorf("second child = %T, want *renderTestColumn", column.children[1])
	}
}

type panicky struct {
	StatelessBase
	value any
}

func (w panicky) Build(ctx BuildContext) Widget { panic(w.value) }

func TestBuildPanicIsRecordedOnOwner(t *testing.T) {
	errors.SetHandler(&silentHandler{})
	defer errors.SetHandler(nil)

	owner := NewBuildOwner()
	cause := &errors.SlotArityError{Port: "p", Got: 2}
	MountRoot(testColumn{Children: []Widget{panicky{value: cause}, panicky{value: "plain"}}}, owner)

	errs := owner.TakeBuildErrors()
	if len(errs) != 2 {
		t.Fatalf("build errors = %d, want 2", len(errs))
	}
	var arity *errors.SlotArityError
	if !stderrors.As(errs[0], &arity) || arity.Got != 2 {
		t.Errorf("first error should unwrap to SlotArityError: %v", errs[0])
	}
	if errs[1].Err != nil || errs[1].Recovered != "plain" {
		t.Errorf("non-error panic should only set Recovered: %+v", errs[1])
	}
	if len(owner.TakeBuildErrors()) != 0 {
		t.Error("TakeBuildErrors should clear")
	}
}

func TestMicrotasksRunAfterBuildInOrder(t *testing.T) {
	owner := NewBuildOwner()
	var order []int
	owner.ScheduleMicrotask(func() {
		order = append(order, 1)
		owner.ScheduleMicrotask(func() { order = append(order, 3) })
	})
	owner.ScheduleMicrotask(func() { order = append(order, 2) })
	if !owner.NeedsWork() {
		t.Fatal("queued microtasks should need work")
	}
	if ran := owner.FlushMicrotasks(); ran != 3 {
		t.Errorf("ran = %d, want 3", ran)
	}
	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("order = %v", order)
	}
}

func TestFrameCallbacks(t *testing.T) {
	owner := NewBuildOwner()
	var calls []string
	remove := owner.AddPersistentFrameCallback(func() { calls = append(calls, "persistent") })
	owner.AddPostFrameCallback(func() { calls = append(calls, "once") })

	owner.RunFrameCallbacks()
	owner.RunFrameCallbacks()
	remove()
	owner.RunFrameCallbacks()

	want := []string{"persistent", "once", "persistent"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

type scope struct {
	InheritedBase
	value int
	child Widget
}

func (s scope) ChildWidget() Widget { return s.child }

func (s scope) UpdateShouldNotify(old InheritedWidget) bool {
	return s.value != old.(scope).value
}

type reader struct {
	StatelessBase
	seen *[]int
}

func (r reader) Build(ctx BuildContext) Widget {
	s := ctx.DependOnInherited(reflect.TypeOf(scope{})).(scope)
	*r.seen = append(*r.seen, s.value)
	return testLeaf{Height: 1}
}

func TestInheritedNotifiesDependents(t *testing.T) {
	owner := NewBuildOwner()
	var seen []int
	value := 1
	root := MountRoot(testColumn{Children: []Widget{Stateful(func() int { return 0 }, func(_ int, ctx BuildContext, _ func(func(int) int)) Widget {
		return scope{value: value, child: reader{seen: &seen}}
	})}}, owner)

	var el *StatefulElement
	VisitDescendants(root, func(e Element) bool {
		el, _ = e.(*StatefulElement)
		return el == nil
	})
	value = 2
	el.MarkNeedsBuild()
	owner.FlushBuild()

	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

type silentHandler struct{}

func (silentHandler) HandleError(*errors.StarportError)   {}
func (silentHandler) HandlePanic(*errors.PanicError)       {}
func (silentHandler) HandleBuildError(*errors.BuildError) {}
