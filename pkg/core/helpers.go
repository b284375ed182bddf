package core

// StatelessBase provides default CreateElement and Key implementations for
// stateless widgets:
//
//	type Greeting struct {
//	    core.StatelessBase
//	    Name string
//	}
type StatelessBase struct{}

// CreateElement returns a new StatelessElement.
func (StatelessBase) CreateElement() Element { return NewStatelessElement() }

// Key returns nil (no key).
func (StatelessBase) Key() any { return nil }

// StatefulBase provides default CreateElement and Key implementations for
// stateful widgets.
type StatefulBase struct{}

// CreateElement returns a new StatefulElement.
func (StatefulBase) CreateElement() Element { return NewStatefulElement() }

// Key returns nil (no key).
func (StatefulBase) Key() any { return nil }

// InheritedBase provides default CreateElement and Key implementations for
// inherited widgets. Implement [InheritedWidget.UpdateShouldNotify] and
// [InheritedWidget.ChildWidget] alongside it.
type InheritedBase struct{}

// CreateElement returns a new InheritedElement.
func (InheritedBase) CreateElement() Element { return NewInheritedElement() }

// Key returns nil (no key).
func (InheritedBase) Key() any { return nil }

// RenderObjectBase provides default CreateElement and Key implementations for
// render object widgets.
type RenderObjectBase struct{}

// CreateElement returns a new RenderObjectElement.
func (RenderObjectBase) CreateElement() Element { return NewRenderObjectElement() }

// Key returns nil (no key).
func (RenderObjectBase) Key() any { return nil }

// Stateful creates an inline stateful widget using closures. Use a named
// widget embedding [StatefulBase] when lifecycle hooks are needed.
//
//	counter := core.Stateful(
//	    func() int { return 0 },
//	    func(count int, ctx core.BuildContext, setState func(func(int) int)) core.Widget {
//	        return widgets.GestureDetector{
//	            OnTap: func() { setState(func(c int) int { return c + 1 }) },
//	            Child: widgets.Text{Content: strconv.Itoa(count)},
//	        }
//	    },
//	)
func Stateful[S any](
	init func() S,
	build func(state S, ctx BuildContext, setState func(func(S) S)) Widget,
) Widget {
	return &inlineStatefulWidget[S]{
		initFn:  init,
		buildFn: build,
	}
}

type inlineStatefulWidget[S any] struct {
	initFn  func() S
	buildFn func(state S, ctx BuildContext, setState func(func(S) S)) Widget
}

func (w *inlineStatefulWidget[S]) CreateElement() Element {
	return NewStatefulElement()
}

func (w *inlineStatefulWidget[S]) Key() any { return nil }

func (w *inlineStatefulWidget[S]) CreateState() State {
	return &inlineStatefulState[S]{}
}

type inlineStatefulState[S any] struct {
	StateBase
	value S
}

func (s *inlineStatefulState[S]) widget() *inlineStatefulWidget[S] {
	return s.Widget().(*inlineStatefulWidget[S])
}

func (s *inlineStatefulState[S]) InitState() {
	s.value = s.widget().initFn()
}

func (s *inlineStatefulState[S]) Build(ctx BuildContext) Widget {
	return s.widget().buildFn(s.value, ctx, func(update func(S) S) {
		s.SetState(func() { s.value = update(s.value) })
	})
}

// Keyed gives child an identity for sibling reconciliation. Keyed siblings
// keep their elements, and the state beneath them, across reorders.
func Keyed(key any, child Widget) Widget {
	return keyedSubtree{key: key, child: child}
}

type keyedSubtree struct {
	StatelessBase
	key   any
	child Widget
}

func (k keyedSubtree) Key() any { return k.key }

func (k keyedSubtree) Build(ctx BuildContext) Widget { return k.child }
