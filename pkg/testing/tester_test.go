package testing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/testing/testbed"
	"github.com/go-drift/starport/pkg/widgets"
)

func TestPumpWidgetAndFindByText(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	if err := tester.PumpWidget(testbed.Counter{Label: "count", Initial: 3}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}
	if !tester.Find(ByText("count: 3")).Exists() {
		t.Fatal("expected text 'count: 3'")
	}
	if got := tester.Find(ByTextContaining("count")).Count(); got != 1 {
		t.Errorf("ByTextContaining count = %d, want 1", got)
	}
	if got := tester.Find(ByType[widgets.GestureDetector]()).Count(); got != 1 {
		t.Errorf("ByType(GestureDetector) count = %d, want 1", got)
	}
}

func TestTapIncrementsCounter(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	var tapped []int
	tester.PumpWidget(testbed.Counter{OnTap: func(n int) { tapped = append(tapped, n) }})

	if err := tester.Tap(ByText("0")); err != nil {
		t.Fatalf("Tap: %v", err)
	}
	tester.Pump()

	state, err := StateOf[*testbed.CounterState](tester, ByType[testbed.Counter]())
	if err != nil {
		t.Fatal(err)
	}
	if state.Count() != 1 {
		t.Errorf("Count() = %d, want 1", state.Count())
	}
	if len(tapped) != 1 || tapped[0] != 1 {
		t.Errorf("OnTap calls = %v, want [1]", tapped)
	}
	if !tester.Find(ByText("1")).Exists() {
		t.Error("expected rebuilt text '1'")
	}
}

func TestUpdateWidgetKeepsStatePumpWidgetResets(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	life := &testbed.Lifecycle{}
	tester.PumpWidget(testbed.Counter{Label: "a", Lifecycle: life})

	state, _ := StateOf[*testbed.CounterState](tester, ByType[testbed.Counter]())
	state.Increment()
	tester.Pump()

	tester.UpdateWidget(testbed.Counter{Label: "b", Lifecycle: life})
	if !tester.Find(ByText("b: 1")).Exists() {
		t.Fatal("expected UpdateWidget to keep the count")
	}
	if life.Inits() != 1 || life.Disposes() != 0 {
		t.Errorf("inits=%d disposes=%d after update, want 1/0", life.Inits(), life.Disposes())
	}

	tester.PumpWidget(testbed.Counter{Label: "b", Lifecycle: life})
	if !tester.Find(ByText("b: 0")).Exists() {
		t.Fatal("expected PumpWidget to remount with fresh state")
	}
	if life.Inits() != 2 || life.Disposes() != 1 {
		t.Errorf("inits=%d disposes=%d after remount, want 2/1", life.Inits(), life.Disposes())
	}
}

func TestKeyedSiblingKeepsStateWhenOtherIsRemoved(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	life := &testbed.Lifecycle{}
	a := core.Keyed("a", testbed.Counter{Label: "a", Lifecycle: life})
	b := core.Keyed("b", testbed.Counter{Label: "b", Lifecycle: life})
	tester.PumpWidget(widgets.StackOf(a, b))

	state, err := StateOf[*testbed.CounterState](tester, Descendant(ByKey("b"), ByType[testbed.Counter]()))
	if err != nil {
		t.Fatal(err)
	}
	state.Increment()
	tester.Pump()

	tester.UpdateWidget(widgets.StackOf(b))
	if !tester.Find(ByText("b: 1")).Exists() {
		t.Error("b lost its count when a was removed")
	}
	if tester.Find(ByKey("a")).Exists() {
		t.Error("a is still mounted")
	}
	if got := tester.Find(ByKey("b")).Count(); got != 1 {
		t.Errorf("ByKey(b) matched %d elements, want 1", got)
	}
	if life.Inits() != 2 || life.Disposes() != 1 {
		t.Errorf("inits=%d disposes=%d, want 2/1", life.Inits(), life.Disposes())
	}
}

func TestTapAtMissReturnsError(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.Container{Color: graphics.ColorBlack})
	if err := tester.TapAt(graphics.Offset{X: 10, Y: 10}); err == nil {
		t.Error("expected error when no tap target is hit")
	}
}

func TestRectOfAndDescendant(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.StackOf(
		widgets.Positioned{Left: 10, Top: 20, Width: 100, Height: 40, Child: widgets.Text{Content: "inside"}},
		widgets.Text{Content: "outside"},
	))

	rect, err := tester.RectOf(ByType[widgets.Positioned]())
	if err != nil {
		t.Fatal(err)
	}
	if want := graphics.RectFromLTWH(10, 20, 100, 40); rect != want {
		t.Errorf("RectOf = %+v, want %+v", rect, want)
	}

	inside := tester.Find(Descendant(ByType[widgets.Positioned](), ByType[widgets.Text]()))
	if inside.Count() != 1 || inside.Widget().(widgets.Text).Content != "inside" {
		t.Errorf("Descendant matched %d elements", inside.Count())
	}
	if _, err := tester.RectOf(ByText("missing")); err == nil {
		t.Error("expected error for missing finder")
	}
}

func TestPumpAndSettleRunsAnimation(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	build := func(left float64) core.Widget {
		return widgets.StackOf(widgets.AnimatedPositioned{
			Left: left, Top: 0, Width: 10, Height: 10,
			Duration: 200 * time.Millisecond,
			Child:    widgets.Container{Color: graphics.ColorBlack},
		})
	}
	tester.PumpWidget(build(0))
	tester.UpdateWidget(build(100))

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatalf("PumpAndSettle: %v", err)
	}
	rect, _ := tester.RectOf(ByType[widgets.Positioned]())
	if rect.Left != 100 {
		t.Errorf("left after settle = %v, want 100", rect.Left)
	}
	if animation.HasActiveTickers() {
		t.Error("tickers still active after settle")
	}
	if tester.Clock().Elapsed() < 200*time.Millisecond {
		t.Errorf("clock advanced %v, want at least 200ms", tester.Clock().Elapsed())
	}
}

func TestPumpAndSettleTimeout(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.StackOf(widgets.AnimatedPositioned{
		Width: 10, Height: 10, Duration: time.Second,
		Child: widgets.Container{},
	}))
	tester.UpdateWidget(widgets.StackOf(widgets.AnimatedPositioned{
		Left: 50, Width: 10, Height: 10, Duration: time.Second,
		Child: widgets.Container{},
	}))
	if err := tester.PumpAndSettle(100 * time.Millisecond); !errors.Is(err, ErrSettleTimeout) {
		t.Errorf("PumpAndSettle error = %v, want ErrSettleTimeout", err)
	}
}

func TestCleanupRestoresClock(t *testing.T) {
	before := animation.Now()
	tester := NewWidgetTester()
	tester.Clock().Advance(time.Hour)
	tester.Cleanup()
	if animation.Now().Sub(before) > time.Minute {
		t.Error("animation clock not restored after Cleanup")
	}
}

func TestSnapshotMatchesFile(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.StackOf(
		widgets.Positioned{Left: 4, Top: 4, Width: 20, Height: 20, Child: widgets.Opacity{
			Opacity: 0.5,
			Child:   widgets.Container{Color: graphics.ColorBlack},
		}},
	))

	path := filepath.Join(t.TempDir(), "stack.snapshot.yaml")
	snap := tester.CaptureSnapshot()
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"RenderOpacity#0", "alpha: 0.5", "kind: rect"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot missing %q:\n%s", want, data)
		}
	}

	snap.MatchesFile(t, path)

	tester.UpdateWidget(widgets.StackOf(
		widgets.Positioned{Left: 8, Top: 4, Width: 20, Height: 20, Child: widgets.Container{Color: graphics.ColorBlack}},
	))
	expected, err := loadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := tester.CaptureSnapshot().Diff(expected); diff == "" {
		t.Error("expected a diff after the tree changed")
	}
}
