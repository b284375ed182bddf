package widgets

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

var (
	red   = graphics.RGB(255, 0, 0)
	green = graphics.RGB(0, 255, 0)
)

type testTree struct {
	owner *core.BuildOwner
	size  graphics.Size
}

func mountTree(t *testing.T, size graphics.Size, widget core.Widget) *testTree {
	t.Helper()
	owner := core.NewBuildOwner()
	core.MountRoot(View{Child: widget}, owner)
	return &testTree{owner: owner, size: size}
}

func (tr *testTree) frame() []graphics.DrawCommand {
	animation.StepTickers()
	tr.owner.FlushBuildAndMicrotasks()
	tr.owner.Pipeline().FlushLayoutForRoot(layout.Tight(tr.size))
	list := tr.owner.Pipeline().FlushPaint(tr.size)
	tr.owner.RunFrameCallbacks()
	return list.Flatten()
}

// tap delivers a tap to the deepest tap target under position.
func (tr *testTree) tap(position graphics.Offset) bool {
	for _, entry := range tr.owner.Pipeline().HitTest(position).Entries {
		if target, ok := entry.(layout.TapTarget); ok {
			target.OnTap()
			return true
		}
	}
	return false
}

func rectsOf(commands []graphics.DrawCommand, color graphics.Color) []graphics.Rect {
	var rects []graphics.Rect
	for _, cmd := range commands {
		if cmd.Kind == graphics.DrawKindRect && cmd.Color == color {
			rects = append(rects, cmd.Rect)
		}
	}
	return rects
}

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func useManualClock(t *testing.T) *manualClock {
	t.Helper()
	c := &manualClock{now: time.Unix(0, 0)}
	prev := animation.SetClock(c)
	t.Cleanup(func() { animation.SetClock(prev) })
	return c
}

func TestStackPositionsChildren(t *testing.T) {
	tree := mountTree(t, graphics.Size{Width: 200, Height: 100}, Stack{
		Fit: StackFitExpand,
		Children: []core.Widget{
			Container{Color: green},
			Positioned{Left: 10, Top: 20, Width: 30, Height: 40, Child: Container{Color: red}},
		},
	})
	commands := tree.frame()

	if got := rectsOf(commands, green); len(got) != 1 || got[0] != graphics.RectFromLTWH(0, 0, 200, 100) {
		t.Fatalf("background rects = %v", got)
	}
	if got := rectsOf(commands, red); len(got) != 1 || got[0] != graphics.RectFromLTWH(10, 20, 30, 40) {
		t.Fatalf("positioned rects = %v", got)
	}
}

func TestOffstageSkipsPaintAndHitTest(t *testing.T) {
	tapped := false
	tree := mountTree(t, graphics.Size{Width: 50, Height: 50}, Offstage{
		Offstage: true,
		Child:    GestureDetector{OnTap: func() { tapped = true }, Child: Container{Color: red}},
	})
	if commands := tree.frame(); len(rectsOf(commands, red)) != 0 {
		t.Fatalf("offstage child painted: %v", commands)
	}
	for _, entry := range tree.owner.Pipeline().HitTest(graphics.Offset{X: 5, Y: 5}).Entries {
		if target, ok := entry.(layout.TapTarget); ok {
			target.OnTap()
		}
	}
	if tapped {
		t.Fatal("offstage child received a tap")
	}
}

func TestOpacityAndClipApplyToDescendants(t *testing.T) {
	tree := mountTree(t, graphics.Size{Width: 100, Height: 100}, Stack{
		Fit: StackFitExpand,
		Children: []core.Widget{
			Positioned{Left: 5, Top: 5, Width: 20, Height: 20, Child: Opacity{
				Opacity: 0.5,
				Child:   ClipRRect{Radius: 4, Child: Container{Color: red}},
			}},
		},
	})
	var found *graphics.DrawCommand
	for _, cmd := range tree.frame() {
		if cmd.Color == red {
			found = &cmd
		}
	}
	if found == nil {
		t.Fatal("expected clipped rect")
	}
	if found.Alpha != 0.5 {
		t.Errorf("Alpha = %v, want 0.5", found.Alpha)
	}
	if found.Clip == nil || *found.Clip != graphics.RectFromLTWH(5, 5, 20, 20) {
		t.Errorf("Clip = %v", found.Clip)
	}
	if found.ClipRadius != 4 {
		t.Errorf("ClipRadius = %v, want 4", found.ClipRadius)
	}
}

func TestRowExpandedSplitsFreeSpace(t *testing.T) {
	tree := mountTree(t, graphics.Size{Width: 200, Height: 100}, Row{
		Spacing: 10,
		Children: []core.Widget{
			SizedBox{Width: 20, Height: 5},
			Expanded{Child: Container{Color: red}},
			Expanded{Flex: 2, Child: Container{Color: green}},
		},
	})
	commands := tree.frame()
	one, two := rectsOf(commands, red), rectsOf(commands, green)
	if len(one) != 1 || len(two) != 1 {
		t.Fatalf("expected one rect per expanded child, got %v %v", one, two)
	}
	if math.Abs(one[0].Left-30) > 1e-9 {
		t.Errorf("first expanded starts at %v, want 30", one[0].Left)
	}
	if math.Abs(two[0].Width()-2*one[0].Width()) > 1e-9 {
		t.Errorf("flex 2 width %v is not twice %v", two[0].Width(), one[0].Width())
	}
	if math.Abs(two[0].Right-200) > 1e-9 {
		t.Errorf("last child ends at %v, want 200", two[0].Right)
	}
}

func TestTextWrapsAtBoundedWidth(t *testing.T) {
	tree := mountTree(t, graphics.Size{Width: 200, Height: 100}, Center{
		Child: SizedBox{Width: 50, Child: Text{Content: "hello world again"}},
	})
	var lines []string
	for _, cmd := range tree.frame() {
		if cmd.Kind == graphics.DrawKindText {
			lines = append(lines, cmd.Text)
		}
	}
	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3 lines", lines)
	}
}

func TestGestureDetectorReceivesTap(t *testing.T) {
	taps := 0
	tree := mountTree(t, graphics.Size{Width: 100, Height: 100}, Center{
		Child: Tap(func() { taps++ }, SizedBox{Width: 10, Height: 10}),
	})
	tree.frame()

	hit := func(x, y float64) {
		for _, entry := range tree.owner.Pipeline().HitTest(graphics.Offset{X: x, Y: y}).Entries {
			if target, ok := entry.(layout.TapTarget); ok {
				target.OnTap()
				return
			}
		}
	}
	hit(50, 50)
	hit(5, 5)
	if taps != 1 {
		t.Fatalf("taps = %d, want 1", taps)
	}
}

func TestAnimatedPositionedGlidesToNewRect(t *testing.T) {
	clock := useManualClock(t)
	var move func()
	ended := 0
	tree := mountTree(t, graphics.Size{Width: 200, Height: 100}, core.Stateful(
		func() bool { return false },
		func(moved bool, ctx core.BuildContext, setState func(func(bool) bool)) core.Widget {
			move = func() { setState(func(bool) bool { return true }) }
			left := 0.0
			if moved {
				left = 100
			}
			return Stack{Fit: StackFitExpand, Children: []core.Widget{
				AnimatedPositioned{
					Left: left, Width: 10, Height: 10,
					Duration: 100 * time.Millisecond,
					OnEnd:    func() { ended++ },
					Child:    Container{Color: red},
				},
			}}
		},
	))

	leftAt := func() float64 {
		rects := rectsOf(tree.frame(), red)
		if len(rects) != 1 {
			t.Fatalf("rects = %v", rects)
		}
		return rects[0].Left
	}

	if got := leftAt(); got != 0 {
		t.Fatalf("initial left = %v", got)
	}
	move()
	if got := leftAt(); got != 0 {
		t.Fatalf("left after retarget = %v, want 0 before time passes", got)
	}
	clock.now = clock.now.Add(50 * time.Millisecond)
	if got := leftAt(); math.Abs(got-50) > 1e-9 {
		t.Fatalf("left midway = %v, want 50", got)
	}
	clock.now = clock.now.Add(60 * time.Millisecond)
	if got := leftAt(); got != 100 {
		t.Fatalf("left at end = %v, want 100", got)
	}
	if ended != 1 {
		t.Fatalf("OnEnd called %d times, want 1", ended)
	}
}

func TestAnimatedPositionedSnap(t *testing.T) {
	useManualClock(t)
	var move func()
	tree := mountTree(t, graphics.Size{Width: 200, Height: 100}, core.Stateful(
		func() float64 { return 0 },
		func(left float64, ctx core.BuildContext, setState func(func(float64) float64)) core.Widget {
			move = func() { setState(func(float64) float64 { return 80 }) }
			return Stack{Fit: StackFitExpand, Children: []core.Widget{
				AnimatedPositioned{Left: left, Width: 10, Height: 10, Duration: time.Second, Snap: true, Child: Container{Color: red}},
			}}
		},
	))
	tree.frame()
	move()
	rects := rectsOf(tree.frame(), red)
	if len(rects) != 1 || rects[0].Left != 80 {
		t.Fatalf("snapped rects = %v, want left 80", rects)
	}
	if animation.HasActiveTickers() {
		t.Fatal("snap should not start a ticker")
	}
}

func TestSingleChildBoxIgnoresUnchangedChild(t *testing.T) {
	child := &renderSizedBox{width: 5, height: 5}
	child.SetSelf(child)
	parent := &renderPadding{}
	parent.SetSelf(parent)
	parent.SetChild(child)
	parent.Layout(layout.Loose(graphics.Size{Width: 10, Height: 10}), true)
	if parent.NeedsLayout() {
		t.Fatal("parent should be clean after layout")
	}
	parent.SetChild(child)
	if parent.NeedsLayout() {
		t.Fatal("setting the same child must not dirty layout")
	}
}

func TestStackPassThroughLetsHitsFallThrough(t *testing.T) {
	var underTaps, overlayTaps int
	tree := mountTree(t, graphics.Size{Width: 100, Height: 100}, Stack{
		Fit: StackFitExpand,
		Children: []core.Widget{
			Tap(func() { underTaps++ }, Container{}),
			Stack{
				Fit:         StackFitExpand,
				PassThrough: true,
				Children: []core.Widget{
					Positioned{Left: 0, Top: 0, Width: 20, Height: 20, Child: Tap(func() { overlayTaps++ }, Container{})},
				},
			},
		},
	})
	tree.frame()

	tree.tap(graphics.Offset{X: 10, Y: 10})
	tree.tap(graphics.Offset{X: 50, Y: 50})
	if overlayTaps != 1 || underTaps != 1 {
		t.Errorf("overlay=%d under=%d, want 1 and 1", overlayTaps, underTaps)
	}
}
