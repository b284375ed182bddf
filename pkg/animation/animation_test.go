package animation

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/starport/pkg/graphics"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func useManualClock(t *testing.T) *manualClock {
	t.Helper()
	c := &manualClock{now: time.Unix(0, 0)}
	prev := SetClock(c)
	t.Cleanup(func() { SetClock(prev) })
	return c
}

func TestControllerRunsToCompletion(t *testing.T) {
	c := useManualClock(t)
	controller := NewAnimationController(100 * time.Millisecond)
	defer controller.Dispose()

	var statuses []AnimationStatus
	controller.AddStatusListener(func(s AnimationStatus) { statuses = append(statuses, s) })
	notified := 0
	controller.AddListener(func() { notified++ })

	controller.Forward()
	c.advance(50 * time.Millisecond)
	StepTickers()
	if math.Abs(controller.Value-0.5) > 1e-9 {
		t.Errorf("Value at half time = %v, want 0.5", controller.Value)
	}
	if !controller.IsAnimating() {
		t.Error("expected controller to be animating")
	}

	c.advance(60 * time.Millisecond)
	StepTickers()
	if controller.Value != 1 || controller.Status() != AnimationCompleted {
		t.Errorf("Value=%v Status=%v, want 1 completed", controller.Value, controller.Status())
	}
	if HasActiveTickers() {
		t.Error("ticker should stop at completion")
	}
	if notified != 2 {
		t.Errorf("listener calls = %d, want 2", notified)
	}
	if len(statuses) != 2 || statuses[0] != AnimationForward || statuses[1] != AnimationCompleted {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	useManualClock(t)
	controller := NewAnimationController(0)
	defer controller.Dispose()
	controller.Forward()
	if controller.Value != 1 || controller.IsAnimating() {
		t.Errorf("Value=%v animating=%v", controller.Value, controller.IsAnimating())
	}
}

func TestCubicBezierEndpointsAndMonotonic(t *testing.T) {
	curve := CubicBezier(0.45, 0, 0.55, 1)
	if curve(0) != 0 || curve(1) != 1 {
		t.Fatal("curve must map endpoints to themselves")
	}
	if v := curve(0.5); math.Abs(v-0.5) > 1e-3 {
		t.Errorf("symmetric curve at 0.5 = %v", v)
	}
	prev := 0.0
	for i := 1; i <= 20; i++ {
		v := curve(float64(i) / 20)
		if v < prev {
			t.Fatalf("curve not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestTweenRect(t *testing.T) {
	tw := TweenRect(graphics.RectFromLTWH(0, 0, 10, 10), graphics.RectFromLTWH(100, 50, 20, 20))
	got := tw.Evaluate(0.5)
	if want := graphics.RectFromLTWH(50, 25, 15, 15); got != want {
		t.Errorf("Evaluate(0.5) = %v, want %v", got, want)
	}
}
