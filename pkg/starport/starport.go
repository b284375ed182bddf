package starport

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// Starport declares where the instance of Port should appear. The widget
// reserves a placeholder in the layout and the carrier draws the single
// real instance over the active placeholder, so moving a Starport between
// parents moves its widget without rebuilding its state.
//
// Exactly one of Child or a one-element Children must be set, and it must be
// a stateless or stateful widget. Starport must have a Carrier ancestor.
// Violations panic with a typed usage error from package errors, which the
// runtime reports as a build error.
type Starport struct {
	core.StatelessBase

	Port     string
	Child    core.Widget
	Children []core.Widget
	// Options override the carrier defaults for this port. Invalid options
	// are reported as a usage error and an unparsable Easing flies linearly.
	Options Options
}

func (s Starport) Build(ctx core.BuildContext) core.Widget {
	registry := RegistryOf(ctx)
	if registry == nil {
		panic(&errors.MissingCarrierError{Port: s.Port})
	}
	if err := ValidatePort(s.Port); err != nil {
		panic(err)
	}
	child, err := resolveSlot(s.Port, s.Child, s.Children)
	if err != nil {
		panic(err)
	}
	return proxy{
		registry: registry,
		port:     s.Port,
		child:    child,
		options:  s.Options,
	}
}

// proxy registers its port while mounted and publishes the geometry of its
// placeholder after every layout.
type proxy struct {
	core.StatefulBase
	registry *Registry
	port     string
	child    core.Widget
	options  Options
}

// Key ties the proxy element to its port: a port change mounts a new proxy.
func (p proxy) Key() any { return p.port }

func (p proxy) CreateState() core.State {
	return &proxyState{}
}

type proxyState struct {
	core.StateBase
	registry  *Registry
	handle    *Handle
	published Geometry
	wasActive bool
}

func (s *proxyState) InitState() {
	s.register(s.Widget().(proxy))
	s.OnDispose(s.Element().Owner().AddPersistentFrameCallback(s.measure))
	s.OnDispose(func() {
		s.registry.Deregister(s.handle)
	})
}

func (s *proxyState) register(w proxy) {
	s.registry = w.registry
	s.published = Geometry{}
	s.wasActive = false
	handle, err := w.registry.Register(w.port, w.child, w.options)
	if err != nil {
		errors.Report(&errors.StarportError{
			Op:   "starport.Starport.register",
			Kind: errors.KindUsage,
			Port: w.port,
			Err:  err,
		})
		return
	}
	s.handle = handle
	reportInvalidOptions(w)
}

// reportInvalidOptions flags options the proxy cannot honor. The flight still
// runs, on a linear curve.
func reportInvalidOptions(w proxy) {
	if err := w.options.Validate(); err != nil {
		errors.Report(&errors.StarportError{
			Op:   "starport.Starport.options",
			Kind: errors.KindUsage,
			Port: w.port,
			Err:  err,
		})
	}
}

func (s *proxyState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	old := oldWidget.(proxy)
	w := s.Widget().(proxy)
	if w.registry != old.registry || w.port != old.port {
		old.registry.Deregister(s.handle)
		s.register(w)
		return
	}
	if w.options != old.options {
		reportInvalidOptions(w)
		s.registry.SetOptions(s.handle, w.options)
	}
	// The carried instance rebuilds whenever the registry changes, so only
	// real configuration changes are published. A Starport nested in a
	// carried instance would otherwise republish on every carrier rebuild.
	if !propsEqual(old.child, w.child) {
		s.registry.Update(s.handle, w.child, nil)
	}
}

// measure runs after layout and paint on every frame.
func (s *proxyState) measure() {
	if s.IsDisposed() || s.handle == nil {
		return
	}
	ro := s.Element().RenderObject()
	if ro == nil || !layout.IsAttached(ro) {
		return
	}
	geometry := Geometry{
		Rect:  layout.GlobalRect(ro),
		Style: inheritedStyle(ro),
		Valid: true,
	}
	active := s.registry.IsActive(s.handle)
	becameActive := active && !s.wasActive
	s.wasActive = active
	if geometry == s.published && !becameActive {
		return
	}
	s.published = geometry
	s.registry.Update(s.handle, nil, &geometry)
}

// inheritedStyle accumulates the opacity of ro's ancestors and picks up the
// corner radius of the nearest rounded clip above it.
func inheritedStyle(ro layout.RenderObject) Style {
	style := Style{Opacity: 1}
	radiusFound := false
	for current := parentOf(ro); current != nil; current = parentOf(current) {
		if layer, ok := current.(interface{ Alpha() float64 }); ok {
			style.Opacity *= layer.Alpha()
		}
		if clip, ok := current.(interface{ CornerRadius() float64 }); ok && !radiusFound {
			style.BorderRadius = clip.CornerRadius()
			radiusFound = true
		}
	}
	return style
}

func parentOf(ro layout.RenderObject) layout.RenderObject {
	if child, ok := ro.(interface{ Parent() layout.RenderObject }); ok {
		return child.Parent()
	}
	return nil
}

func (s *proxyState) Build(ctx core.BuildContext) core.Widget {
	return placeholder{}
}

// placeholder keeps the proxy's place in the layout. It takes the largest
// size its constraints allow and paints nothing.
type placeholder struct {
	core.RenderObjectBase
}

func (placeholder) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	box := &renderPlaceholder{}
	box.SetSelf(box)
	return box
}

func (placeholder) UpdateRenderObject(ctx core.BuildContext, renderObject layout.RenderObject) {}

type renderPlaceholder struct {
	layout.RenderBoxBase
}

func (r *renderPlaceholder) PerformLayout() {
	c := r.Constraints()
	size := graphics.Size{Width: c.MinWidth, Height: c.MinHeight}
	if c.HasBoundedWidth() {
		size.Width = c.MaxWidth
	}
	if c.HasBoundedHeight() {
		size.Height = c.MaxHeight
	}
	r.SetSize(size)
}

func (r *renderPlaceholder) Paint(ctx *layout.PaintContext) {}

func (r *renderPlaceholder) HitTest(position graphics.Offset, result *layout.HitTestResult) bool {
	return false
}
