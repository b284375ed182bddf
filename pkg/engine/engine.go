// Package engine runs the frame loop of a headless widget tree.
//
// An Engine owns one element tree mounted under a root [widgets.View]. Each
// call to [Engine.Frame] produces one frame in a fixed order:
//
//  1. mount or update the app widget and run dispatched callbacks
//  2. step animation tickers
//  3. rebuild dirty elements, alternating with microtask flushes
//  4. lay out and paint the render tree
//  5. run frame callbacks (geometry measurement), then flush microtasks
//
// Work scheduled in step 5 is picked up by the next frame, so geometry
// measured after layout is applied one frame later.
package engine

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
	"github.com/go-drift/starport/pkg/widgets"
)

// Engine drives frames for a single widget tree. Frame, Tap and HitTest must
// not be called concurrently with each other; SetApp, Dispatch and
// RequestFrame are safe from any goroutine.
type Engine struct {
	frameLock  sync.Mutex
	size       graphics.Size
	buildOwner *core.BuildOwner
	root       core.Element
	frameID    uint64
	last       *FrameSnapshot
	trace      *FrameTraceBuffer
	logger     zerolog.Logger

	appMu      sync.Mutex
	app        core.Widget
	appChanged bool

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	pendingFrameRequest atomic.Bool
	scheduleFrame       func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for frame diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithFrameTrace keeps the timings of the last capacity frames.
func WithFrameTrace(capacity int) Option {
	return func(e *Engine) { e.trace = NewFrameTraceBuffer(capacity, 0) }
}

// WithScheduleFrame registers a callback invoked whenever new work makes a
// frame necessary, enabling on-demand scheduling instead of polling.
func WithScheduleFrame(fn func()) Option {
	return func(e *Engine) { e.scheduleFrame = fn }
}

// New creates an engine rendering into a surface of the given size.
func New(size graphics.Size, opts ...Option) *Engine {
	e := &Engine{
		size:       size,
		buildOwner: core.NewBuildOwner(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.buildOwner.OnNeedsFrame = e.notifyPlatform
	return e
}

func (e *Engine) notifyPlatform() {
	if e.scheduleFrame != nil {
		e.scheduleFrame()
	}
}

// Owner returns the build owner of the tree.
func (e *Engine) Owner() *core.BuildOwner {
	return e.buildOwner
}

// Root returns the root element, or nil before the first frame.
func (e *Engine) Root() core.Element {
	return e.root
}

// Size returns the surface size.
func (e *Engine) Size() graphics.Size {
	return e.size
}

// Trace returns the frame trace buffer, or nil when tracing is disabled.
func (e *Engine) Trace() *FrameTraceBuffer {
	return e.trace
}

// LastFrame returns the most recent snapshot, or nil before the first frame.
func (e *Engine) LastFrame() *FrameSnapshot {
	return e.last
}

// SetApp replaces the application widget. The change is applied at the start
// of the next frame.
func (e *Engine) SetApp(app core.Widget) {
	e.appMu.Lock()
	e.app = app
	e.appChanged = true
	e.appMu.Unlock()
	e.RequestFrame()
}

// Dispatch schedules a callback to run at the start of the next frame.
func (e *Engine) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	e.dispatchMu.Lock()
	e.dispatchQueue = append(e.dispatchQueue, callback)
	e.dispatchMu.Unlock()
	e.RequestFrame()
}

// RequestFrame forces the next NeedsFrame call to report true.
func (e *Engine) RequestFrame() {
	e.pendingFrameRequest.Store(true)
	e.notifyPlatform()
}

// Resize changes the surface size; the root is laid out again next frame.
func (e *Engine) Resize(size graphics.Size) {
	e.frameLock.Lock()
	defer e.frameLock.Unlock()
	if e.size == size {
		return
	}
	e.size = size
	if root := e.buildOwner.Pipeline().Root(); root != nil {
		root.MarkNeedsLayout()
	}
	e.pendingFrameRequest.Store(true)
}

// NeedsFrame reports whether a new frame would differ from the last one.
func (e *Engine) NeedsFrame() bool {
	if e.pendingFrameRequest.Load() {
		return true
	}
	e.dispatchMu.Lock()
	hasCallbacks := len(e.dispatchQueue) > 0
	e.dispatchMu.Unlock()
	if hasCallbacks {
		return true
	}
	if animation.HasActiveTickers() {
		return true
	}
	return e.buildOwner.NeedsWork()
}

// Frame produces one frame. Build failures do not abort the frame: they are
// reported to the error handler and returned joined, alongside the snapshot.
// A panic outside a widget build aborts the frame and is returned as a
// *errors.PanicError.
func (e *Engine) Frame() (snapshot *FrameSnapshot, err error) {
	e.frameLock.Lock()
	defer e.frameLock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			panicErr := &errors.PanicError{
				Op:         "engine.Frame",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.ReportPanic(panicErr)
			snapshot, err = nil, panicErr
		}
	}()

	e.pendingFrameRequest.Store(false)
	start := time.Now()
	mark := start
	lap := func() float64 {
		now := time.Now()
		elapsed := now.Sub(mark)
		mark = now
		return durationToMillis(elapsed)
	}

	var phases FramePhaseTimings
	e.applyApp()
	e.runDispatchQueue()
	phases.DispatchMs = lap()

	animation.StepTickers()
	phases.AnimateMs = lap()

	e.buildOwner.FlushBuildAndMicrotasks()
	phases.BuildMs = lap()

	pipeline := e.buildOwner.Pipeline()
	pipeline.FlushLayoutForRoot(layout.Tight(e.size))
	phases.LayoutMs = lap()

	display := pipeline.FlushPaint(e.size)
	phases.PaintMs = lap()

	e.buildOwner.RunFrameCallbacks()
	e.buildOwner.FlushMicrotasks()
	phases.CallbacksMs = lap()

	e.frameID++
	snapshot = &FrameSnapshot{
		FrameID:  e.frameID,
		Size:     e.size,
		Display:  display,
		Commands: display.Flatten(),
	}
	e.last = snapshot

	buildErrors := e.buildOwner.TakeBuildErrors()
	if len(buildErrors) > 0 {
		errs := make([]error, len(buildErrors))
		for i, buildErr := range buildErrors {
			errs[i] = buildErr
		}
		err = stderrors.Join(errs...)
		e.logger.Warn().Uint64("frame", e.frameID).Int("buildErrors", len(buildErrors)).Msg("frame built with errors")
	}

	frameDuration := time.Since(start)
	if e.trace != nil {
		e.trace.Add(FrameSample{
			Timestamp: start.UnixMilli(),
			FrameMs:   durationToMillis(frameDuration),
			Phases:    phases,
			Counts: FrameCounts{
				RenderNodeCount: countRenderTree(pipeline.Root()),
				WidgetNodeCount: countWidgetTree(e.root),
				DrawCommands:    len(snapshot.Commands),
			},
		}, frameDuration)
	}
	e.logger.Trace().Uint64("frame", e.frameID).Dur("took", frameDuration).Msg("frame")
	return snapshot, err
}

func (e *Engine) applyApp() {
	e.appMu.Lock()
	app, changed := e.app, e.appChanged
	e.appChanged = false
	e.appMu.Unlock()
	if !changed {
		return
	}

	if app == nil {
		if e.root != nil {
			e.root.Unmount()
			e.root = nil
			e.buildOwner.Pipeline().SetRoot(nil)
		}
		return
	}
	view := widgets.View{Child: app}
	if e.root == nil {
		e.root = core.MountRoot(view, e.buildOwner)
		return
	}
	e.root.Update(view)
}

func (e *Engine) runDispatchQueue() {
	e.dispatchMu.Lock()
	queue := e.dispatchQueue
	e.dispatchQueue = nil
	e.dispatchMu.Unlock()
	for _, callback := range queue {
		callback()
	}
}

// HitTest returns the render objects under position, deepest first.
func (e *Engine) HitTest(position graphics.Offset) *layout.HitTestResult {
	e.frameLock.Lock()
	defer e.frameLock.Unlock()
	return e.buildOwner.Pipeline().HitTest(position)
}

// Tap delivers a tap at position to the deepest tap target under it and
// reports whether one handled it.
func (e *Engine) Tap(position graphics.Offset) bool {
	for _, entry := range e.HitTest(position).Entries {
		if target, ok := entry.(layout.TapTarget); ok {
			target.OnTap()
			return true
		}
	}
	return false
}

// Dispose unmounts the tree. The engine cannot be reused afterwards.
func (e *Engine) Dispose() {
	e.frameLock.Lock()
	defer e.frameLock.Unlock()
	if e.root != nil {
		e.root.Unmount()
		e.root = nil
	}
	e.buildOwner.FlushMicrotasks()
	e.buildOwner.Pipeline().SetRoot(nil)
}
