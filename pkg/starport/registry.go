package starport

import (
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
)

// Scheduler queues work for the next microtask flush. *core.BuildOwner
// satisfies it.
type Scheduler interface {
	ScheduleMicrotask(fn func())
}

// Style is the visual state a proxy hands to the carried instance.
type Style struct {
	// Opacity is the accumulated opacity of the proxy's ancestors.
	Opacity float64 `json:"opacity" yaml:"opacity"`
	// BorderRadius is the corner radius of the nearest clipping ancestor.
	BorderRadius float64 `json:"borderRadius" yaml:"borderRadius"`
}

// Geometry is a proxy's measured placement in global coordinates.
type Geometry struct {
	Rect  graphics.Rect `json:"rect" yaml:"rect"`
	Style Style         `json:"style" yaml:"style"`
	// Valid is false until the first measurement is published.
	Valid bool `json:"valid" yaml:"valid"`
}

// Handle identifies one proxy's registration for a port. It is returned by
// Register and must be passed back to Update and Deregister.
type Handle struct {
	ID   uuid.UUID
	Port string

	props    core.Widget
	options  Options
	geometry *Geometry
	released bool
}

// Entry is a read-only snapshot of a port's registry record.
type Entry struct {
	Port string
	// Component is the dynamic type of the carried widget.
	Component reflect.Type
	// Props is the carried widget value supplied by the active proxy.
	Props    core.Widget
	RefCount int
	Geometry Geometry
	Options  Options
	// Active is the ID of the proxy handle the instance follows, or uuid.Nil.
	Active uuid.UUID
}

type entry struct {
	port      string
	component reflect.Type
	props     core.Widget
	options   Options
	geometry  Geometry
	anchors   []*Handle
	active    *Handle

	// teardown is non-zero while the entry waits for its removal microtask.
	// Re-registering bumps it, which cancels the pending removal.
	teardown uint64
}

func (e *entry) snapshot() Entry {
	out := Entry{
		Port:      e.port,
		Component: e.component,
		Props:     e.props,
		RefCount:  len(e.anchors),
		Geometry:  e.geometry,
		Options:   e.options,
	}
	if e.active != nil {
		out.Active = e.active.ID
	}
	return out
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger for registry lifecycle events.
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics records registry activity on m.
func WithMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// Registry holds one entry per port and guarantees a single live instance
// per port however many proxies reference it.
//
// Mutations happen only through Register, Update, SetOptions and Deregister.
// Change notifications are coalesced to one listener call per microtask
// flush. When the last proxy of a port deregisters, the entry is removed on
// the next microtask flush unless a proxy registers the port again first.
type Registry struct {
	scheduler Scheduler
	logger    zerolog.Logger
	metrics   *Metrics

	mu            sync.Mutex
	entries       map[string]*entry
	order         []string
	teardownSeq   uint64
	listeners     map[int]func()
	nextListener  int
	notifyPending bool
}

// NewRegistry creates a registry that defers notifications and teardowns
// through scheduler.
func NewRegistry(scheduler Scheduler, opts ...RegistryOption) *Registry {
	if scheduler == nil {
		panic("starport: NewRegistry requires a scheduler")
	}
	r := &Registry{
		scheduler: scheduler,
		logger:    zerolog.Nop(),
		entries:   make(map[string]*entry),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register attaches a proxy to port, creating the entry on first use. The
// new handle becomes the active anchor and its child and options are
// written to the entry.
func (r *Registry) Register(port string, child core.Widget, options Options) (*Handle, error) {
	if err := ValidatePort(port); err != nil {
		return nil, err
	}
	if _, err := resolveSlot(port, child, nil); err != nil {
		return nil, err
	}

	h := &Handle{ID: uuid.New(), Port: port, props: child, options: options}

	r.mu.Lock()
	e, ok := r.entries[port]
	if !ok {
		e = &entry{port: port}
		r.entries[port] = e
		r.order = append(r.order, port)
		r.metrics.created()
		r.metrics.setPorts(len(r.entries))
		r.logger.Debug().Str("port", port).Msg("starport instance created")
	}
	if e.teardown != 0 {
		e.teardown = 0
		r.metrics.moved()
		r.logger.Debug().Str("port", port).Msg("starport teardown cancelled by re-registration")
	}
	e.anchors = append(e.anchors, h)
	e.active = h
	e.component = componentOf(child)
	e.props = child
	e.options = options
	refs := len(e.anchors)
	r.mu.Unlock()

	r.logger.Debug().Str("port", port).Str("handle", h.ID.String()).Int("refs", refs).Msg("starport registered")
	r.notify()
	return h, nil
}

// Update publishes a proxy's current child and, when geometry is non-nil,
// its measured geometry. Only the active anchor writes to the entry;
// inactive anchors record the values on their handle for a later hand-off.
// Updates through a deregistered handle are ignored.
func (r *Registry) Update(h *Handle, child core.Widget, geometry *Geometry) {
	if h == nil {
		return
	}
	r.mu.Lock()
	e := r.liveEntry(h)
	if e == nil {
		r.mu.Unlock()
		r.metrics.stale()
		return
	}
	if child != nil {
		h.props = child
	}
	if geometry != nil {
		g := *geometry
		h.geometry = &g
	}
	if e.active != h {
		r.mu.Unlock()
		return
	}
	if child != nil {
		e.component = componentOf(child)
		e.props = child
	}
	if geometry != nil {
		e.geometry = *geometry
	}
	r.mu.Unlock()
	r.notify()
}

// SetOptions replaces a proxy's options. They reach the entry only while the
// proxy is the active anchor.
func (r *Registry) SetOptions(h *Handle, options Options) {
	if h == nil {
		return
	}
	r.mu.Lock()
	e := r.liveEntry(h)
	if e == nil {
		r.mu.Unlock()
		r.metrics.stale()
		return
	}
	h.options = options
	if e.active != h {
		r.mu.Unlock()
		return
	}
	e.options = options
	r.mu.Unlock()
	r.notify()
}

// Deregister detaches a proxy. It is safe to call more than once.
//
// If the proxy was the active anchor and others remain, the most recently
// attached survivor takes over and its last known child, options and
// geometry are published at once. If none remain the entry is removed on the
// next microtask flush unless the port is registered again before then.
func (r *Registry) Deregister(h *Handle) {
	if h == nil {
		return
	}
	r.mu.Lock()
	e := r.liveEntry(h)
	if e == nil {
		r.mu.Unlock()
		return
	}
	h.released = true
	e.anchors = slices.DeleteFunc(e.anchors, func(a *Handle) bool { return a == h })

	switch {
	case len(e.anchors) == 0:
		e.active = nil
		r.teardownSeq++
		seq := r.teardownSeq
		e.teardown = seq
		r.mu.Unlock()
		r.logger.Debug().Str("port", h.Port).Msg("starport unreferenced, teardown scheduled")
		r.scheduler.ScheduleMicrotask(func() { r.teardown(h.Port, seq) })
	case e.active == h:
		survivor := e.anchors[len(e.anchors)-1]
		e.active = survivor
		e.props = survivor.props
		e.component = componentOf(survivor.props)
		e.options = survivor.options
		if survivor.geometry != nil {
			e.geometry = *survivor.geometry
		}
		r.mu.Unlock()
		r.metrics.handedOff()
		r.logger.Debug().Str("port", h.Port).Str("handle", survivor.ID.String()).Msg("starport handed off")
	default:
		r.mu.Unlock()
	}
	r.notify()
}

func (r *Registry) teardown(port string, seq uint64) {
	r.mu.Lock()
	e, ok := r.entries[port]
	if !ok || e.teardown != seq || len(e.anchors) > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.entries, port)
	r.order = slices.DeleteFunc(r.order, func(p string) bool { return p == port })
	ports := len(r.entries)
	r.mu.Unlock()

	r.metrics.destroyed()
	r.metrics.setPorts(ports)
	r.logger.Debug().Str("port", port).Msg("starport instance destroyed")
	r.notify()
}

// liveEntry returns h's entry when h is still registered. Callers hold r.mu.
func (r *Registry) liveEntry(h *Handle) *entry {
	if h.released {
		return nil
	}
	e, ok := r.entries[h.Port]
	if !ok || !slices.Contains(e.anchors, h) {
		return nil
	}
	return e
}

// IsActive reports whether h is the anchor its port's instance follows.
func (r *Registry) IsActive(h *Handle) bool {
	if h == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.liveEntry(h)
	return e != nil && e.active == h
}

// Lookup returns a snapshot of port's entry.
func (r *Registry) Lookup(port string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[port]
	if !ok {
		return Entry{}, false
	}
	return e.snapshot(), true
}

// Entries returns snapshots of all entries in insertion order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.order))
	for _, port := range r.order {
		out = append(out, r.entries[port].snapshot())
	}
	return out
}

// Len returns the number of entries, including ones awaiting teardown.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// AddListener registers fn to be called after registry changes. Calls are
// coalesced to one per microtask flush. The returned function unregisters.
func (r *Registry) AddListener(fn func()) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextListener
	r.nextListener++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Registry) notify() {
	r.mu.Lock()
	if r.notifyPending {
		r.mu.Unlock()
		return
	}
	r.notifyPending = true
	r.mu.Unlock()
	r.scheduler.ScheduleMicrotask(r.flushListeners)
}

func (r *Registry) flushListeners() {
	r.mu.Lock()
	r.notifyPending = false
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]func(), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, r.listeners[id])
	}
	r.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
