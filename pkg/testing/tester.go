package testing

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/engine"
	"github.com/go-drift/starport/pkg/graphics"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
	// FrameInterval is how far PumpAndSettle advances the clock per frame.
	FrameInterval = 16 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: framework did not settle")

// WidgetTester drives an engine frame by frame under a fake clock.
type WidgetTester struct {
	engine    *engine.Engine
	clock     *FakeClock
	prevClock animation.Clock
	size      graphics.Size
	mounted   bool
}

// NewWidgetTester creates a tester with the default surface size.
// Call Cleanup() when done, or use NewWidgetTesterWithT() instead.
func NewWidgetTester() *WidgetTester {
	clk := NewFakeClock()
	size := graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight}
	t := &WidgetTester{
		engine: engine.New(size),
		clock:  clk,
		size:   size,
	}
	t.prevClock = animation.SetClock(clk)
	return t
}

// NewWidgetTesterWithT creates a tester that cleans up via t.Cleanup().
func NewWidgetTesterWithT(t *testing.T) *WidgetTester {
	tester := NewWidgetTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and restores the animation clock.
func (t *WidgetTester) Cleanup() {
	t.engine.Dispose()
	animation.SetClock(t.prevClock)
}

// SetSize sets the logical surface size.
func (t *WidgetTester) SetSize(size graphics.Size) {
	t.size = size
	t.engine.Resize(size)
}

// Clock returns the fake clock for advancing time in tests.
func (t *WidgetTester) Clock() *FakeClock {
	return t.clock
}

// Engine returns the underlying engine.
func (t *WidgetTester) Engine() *engine.Engine {
	return t.engine
}

// PumpWidget mounts widget as a fresh tree, discarding any previous tree and
// its state, then runs one frame.
func (t *WidgetTester) PumpWidget(widget core.Widget) error {
	if t.mounted {
		t.engine.SetApp(nil)
		if _, err := t.engine.Frame(); err != nil {
			return err
		}
	}
	t.mounted = true
	t.engine.SetApp(widget)
	return t.Pump()
}

// UpdateWidget reconciles widget against the mounted tree, keeping the state
// of elements whose widget type and key still match, then runs one frame.
func (t *WidgetTester) UpdateWidget(widget core.Widget) error {
	t.mounted = true
	t.engine.SetApp(widget)
	return t.Pump()
}

// Pump runs a single frame without advancing the clock. Build errors from
// the frame are returned.
func (t *WidgetTester) Pump() error {
	_, err := t.engine.Frame()
	return err
}

// PumpFrames runs n frames, advancing the clock by FrameInterval before each.
func (t *WidgetTester) PumpFrames(n int) error {
	for range n {
		t.clock.Advance(FrameInterval)
		if err := t.Pump(); err != nil {
			return err
		}
	}
	return nil
}

// PumpAndSettle runs frames until the engine is idle or the timeout is
// reached, advancing the clock by FrameInterval per frame.
func (t *WidgetTester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.engine.NeedsFrame() {
			return nil
		}
		t.clock.Advance(FrameInterval)
		elapsed += FrameInterval
	}
	return ErrSettleTimeout
}

// Dispatch queues a callback for the next frame, mirroring engine.Dispatch.
func (t *WidgetTester) Dispatch(fn func()) {
	t.engine.Dispatch(fn)
}

// Frame returns the most recent frame snapshot.
func (t *WidgetTester) Frame() *engine.FrameSnapshot {
	return t.engine.LastFrame()
}

// RootElement returns the root element of the mounted tree.
func (t *WidgetTester) RootElement() core.Element {
	return t.engine.Root()
}

// Find evaluates a finder against the current element tree.
func (t *WidgetTester) Find(finder Finder) FinderResult {
	root := t.engine.Root()
	if root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		elements: finder.Evaluate(root),
		finder:   finder,
	}
}

// RectOf returns the global bounds of the first element matched by finder.
func (t *WidgetTester) RectOf(finder Finder) (graphics.Rect, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return graphics.Rect{}, fmt.Errorf("RectOf: finder matched no elements: %s", finder.Description())
	}
	element := result.First()
	if element.RenderObject() == nil {
		return graphics.Rect{}, fmt.Errorf("RectOf: element has no render object: %s", finder.Description())
	}
	return core.GlobalRectOf(element), nil
}

// Tap simulates a tap at the center of the first element matched by finder.
// The tap handler runs immediately; call Pump to see its effect.
func (t *WidgetTester) Tap(finder Finder) error {
	rect, err := t.RectOf(finder)
	if err != nil {
		return fmt.Errorf("Tap: %w", err)
	}
	return t.TapAt(rect.Center())
}

// TapAt simulates a tap at the given logical position.
func (t *WidgetTester) TapAt(position graphics.Offset) error {
	if !t.engine.Tap(position) {
		return fmt.Errorf("TapAt: no tap target at (%.1f, %.1f)", position.X, position.Y)
	}
	return nil
}

// StateOf returns the state of the first stateful element matched by finder.
func StateOf[S core.State](t *WidgetTester, finder Finder) (S, error) {
	var zero S
	for _, element := range t.Find(finder).All() {
		stateful, ok := element.(*core.StatefulElement)
		if !ok {
			continue
		}
		if state, ok := stateful.State().(S); ok {
			return state, nil
		}
	}
	return zero, fmt.Errorf("StateOf: no %s found by %s", reflect.TypeFor[S](), finder.Description())
}
