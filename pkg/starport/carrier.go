package starport

import (
	"reflect"
	"slices"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
	"github.com/go-drift/starport/pkg/widgets"
)

// Carrier hosts the real instance of every port and positions each one over
// its active proxy. Mount exactly one Carrier near the root of the tree,
// wrapping the content that declares Starport proxies.
//
//	engine.SetApp(starport.Carrier{
//	    Defaults: starport.DefaultOptions(),
//	    Child:    page,
//	})
type Carrier struct {
	core.StatefulBase

	// Registry is the port registry to render. When nil the carrier creates
	// one scheduled on its build owner.
	Registry *Registry
	// Defaults are merged under each proxy's options.
	Defaults Options
	// Child is the regular content of the tree.
	Child core.Widget
}

func (c Carrier) CreateState() core.State {
	return &carrierState{}
}

type carrierState struct {
	core.StateBase
	registry *Registry
}

func (s *carrierState) InitState() {
	s.registry = s.Widget().(Carrier).Registry
	if s.registry == nil {
		s.registry = NewRegistry(s.Element().Owner())
	}
}

func (s *carrierState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	if next := s.Widget().(Carrier).Registry; next != nil {
		s.registry = next
	}
}

func (s *carrierState) Build(ctx core.BuildContext) core.Widget {
	w := s.Widget().(Carrier)
	children := make([]core.Widget, 0, 2)
	if w.Child != nil {
		children = append(children, w.Child)
	}
	children = append(children, craftLayer{registry: s.registry, defaults: w.Defaults})
	return carrierScope{
		registry: s.registry,
		defaults: w.Defaults,
		child: widgets.Stack{
			Fit:      widgets.StackFitExpand,
			Children: children,
		},
	}
}

type carrierScope struct {
	core.InheritedBase
	registry *Registry
	defaults Options
	child    core.Widget
}

func (c carrierScope) ChildWidget() core.Widget { return c.child }

func (c carrierScope) UpdateShouldNotify(oldWidget core.InheritedWidget) bool {
	old := oldWidget.(carrierScope)
	return c.registry != old.registry || c.defaults != old.defaults
}

// RegistryOf returns the registry of the nearest Carrier above ctx, or nil.
func RegistryOf(ctx core.BuildContext) *Registry {
	scope, ok := ctx.DependOnInherited(reflect.TypeFor[carrierScope]()).(carrierScope)
	if !ok {
		return nil
	}
	return scope.registry
}

// craftLayer is the carrier's overlay of real instances. It listens to the
// registry itself so a registry change rebuilds the crafts only, not the
// carrier's regular content.
type craftLayer struct {
	core.StatefulBase
	registry *Registry
	defaults Options
}

type craftLayerKey struct{}

// Key keeps the layer, and with it every carried instance, mounted when the
// carrier's Child is added or removed.
func (c craftLayer) Key() any { return craftLayerKey{} }

func (c craftLayer) CreateState() core.State {
	return &craftLayerState{}
}

type craftLayerState struct {
	core.StateBase
	registry       *Registry
	removeListener func()
	origin         graphics.Offset
}

func (s *craftLayerState) InitState() {
	s.listen(s.Widget().(craftLayer).registry)
	s.OnDispose(s.Element().Owner().AddPersistentFrameCallback(s.measureOrigin))
	s.OnDispose(func() {
		s.removeListener()
	})
}

func (s *craftLayerState) listen(registry *Registry) {
	if s.removeListener != nil {
		s.removeListener()
	}
	s.registry = registry
	s.removeListener = registry.AddListener(func() {
		s.SetState(nil)
	})
}

func (s *craftLayerState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	if next := s.Widget().(craftLayer).registry; next != s.registry {
		s.listen(next)
	}
}

// measureOrigin tracks the layer's global origin. Proxy rects are global and
// are converted into the layer's space when positioning crafts.
func (s *craftLayerState) measureOrigin() {
	if s.IsDisposed() {
		return
	}
	ro := s.Element().RenderObject()
	if ro == nil || !layout.IsAttached(ro) {
		return
	}
	origin := layout.LocalToGlobal(ro, graphics.Offset{})
	if origin != s.origin {
		s.SetState(func() {
			s.origin = origin
		})
	}
}

func (s *craftLayerState) Build(ctx core.BuildContext) core.Widget {
	defaults := s.Widget().(craftLayer).defaults
	entries := s.registry.Entries()
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return defaults.Merge(a.Options).ZIndex - defaults.Merge(b.Options).ZIndex
	})

	crafts := make([]core.Widget, 0, len(entries))
	for _, entry := range entries {
		crafts = append(crafts, craft{
			entry:   entry,
			options: defaults.Merge(entry.Options),
			origin:  s.origin,
		})
	}
	return widgets.Stack{
		Fit:         widgets.StackFitExpand,
		Children:    crafts,
		PassThrough: true,
	}
}
